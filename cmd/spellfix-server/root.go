package main

import "github.com/spf13/cobra"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "spellfix-server",
	Short: "Grammar and spelling correction API backed by a hosted language model",
	Long: `spellfix-server checks text with a hosted language model (Gemini, OpenAI
or any OpenAI-compatible endpoint) and serves the corrections as spans that
can be rendered, applied one by one or applied all at once.

Settings come from spellfix.yaml and SPELLFIX_* environment variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./spellfix.yaml or ~/.spellfix/spellfix.yaml)",
	)
}
