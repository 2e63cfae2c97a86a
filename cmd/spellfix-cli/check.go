package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alfex4936/spellfix/internal/config"
	"github.com/Alfex4936/spellfix/internal/model"
	"github.com/Alfex4936/spellfix/internal/util"
	"github.com/Alfex4936/spellfix/spellfix"
)

var (
	checkFile     string
	checkDict     string
	checkWords    []string
	checkTimeout  time.Duration
	checkProvider string
	checkApplyAll bool
	checkJSON     bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check text from stdin or a file",
	Long: `Check text from stdin or a file.

By default the text is printed with mistakes highlighted, followed by the
numbered corrections. --apply-all prints only the corrected text and --json
prints the full result.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if checkFile != "" {
			f, err := os.Open(checkFile)
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()
		if checkProvider != "" {
			cfg.Provider.Kind = checkProvider
		}

		var level slog.LevelVar
		logger := config.NewLogger(cmd.ErrOrStderr(), cfg.Log, &level)
		if !cmd.Flags().Changed("verbose") {
			level.Set(slog.LevelError)
		}

		dict := spellfix.NewDict(checkWords...)
		if checkDict != "" {
			fileDict, err := spellfix.LoadDict(checkDict)
			if err != nil {
				return fmt.Errorf("load dictionary: %w", err)
			}
			dict = dict.Merge(fileDict)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
		defer cancel()

		provider, release, err := spellfix.NewProvider(ctx, cfg.Provider, logger, nil)
		if err != nil {
			return err
		}
		defer release()

		checker := spellfix.NewCheckerFromConfig(cfg, provider, logger, nil)
		res, err := checker.Check(ctx, string(data), dict)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case checkJSON:
			return util.EncodeNoEscape(out, struct {
				*model.Result
				Segments []model.Segment `json:"segments"`
			}{res, spellfix.Render(res.Original, res.Corrections)}, true)
		case checkApplyAll:
			_, err = fmt.Fprint(out, spellfix.ApplyAll(res.CorrectedText, res.Corrections).Text)
			return err
		default:
			_, err = fmt.Fprint(out, report(res))
			return err
		}
	},
}

func init() {
	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "", "file to read instead of stdin")
	checkCmd.Flags().StringVarP(&checkDict, "dict", "d", "", `user dictionary JSON file ({"words": [...]})`)
	checkCmd.Flags().StringSliceVar(&checkWords, "words", nil, "comma-separated words never to flag")
	checkCmd.Flags().DurationVarP(&checkTimeout, "timeout", "t", 3*time.Minute, "overall timeout")
	checkCmd.Flags().StringVar(&checkProvider, "provider", "", "override provider.kind (gemini, openai, compat, fallback)")
	checkCmd.Flags().BoolVar(&checkApplyAll, "apply-all", false, "print only the corrected text")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the full result as JSON")
	checkCmd.Flags().BoolP("verbose", "v", false, "log provider retries and fallbacks")
	checkCmd.MarkFlagsMutuallyExclusive("apply-all", "json")
	rootCmd.AddCommand(checkCmd)
}
