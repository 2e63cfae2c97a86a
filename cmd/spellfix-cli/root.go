package main

import "github.com/spf13/cobra"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "spellfix-cli",
	Short:        "Check text for grammar and spelling mistakes from the terminal",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./spellfix.yaml or ~/.spellfix/spellfix.yaml)",
	)
}
