package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Alfex4936/spellfix/internal/config"
	"github.com/Alfex4936/spellfix/internal/metrics"
	"github.com/Alfex4936/spellfix/spellfix"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the spellfix HTTP API.

Endpoints:
  POST /v1/check          check text, returns corrections and segments
  POST /v1/render         segments for text + corrections
  POST /v1/apply          apply one correction
  POST /v1/apply-all      apply the corrected text
  /v1/sessions/...        server-side editing sessions
  GET  /health, /metrics, /openapi.json, / (Redoc)

Examples:
  spellfix-server serve
  spellfix-server serve --addr 0.0.0.0:9090
  SPELLFIX_PROVIDER_KIND=openai OPENAI_API_KEY=sk-... spellfix-server serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		var level slog.LevelVar
		logger := config.NewLogger(os.Stderr, cfg.Log, &level)
		slog.SetDefault(logger)
		if cfg.Log.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}

		cm.OnChange(func(c *config.Config) {
			level.Set(config.ParseLevel(c.Log.Level))
		})
		cm.WatchConfig(logger)

		m := metrics.New()
		provider, release, err := spellfix.NewProvider(ctx, cfg.Provider, logger, m)
		if err != nil {
			return err
		}
		defer release()

		checker := spellfix.NewCheckerFromConfig(cfg, provider, logger, m)
		store := spellfix.NewSessionStore(checker, cfg.Session.TTL, cfg.Check.MinRunes, m)
		go store.Run(ctx)

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           spellfix.NewServer(checker, store, logger, m).Handler(),
			ReadHeaderTimeout: cfg.Server.ReadTimeout,
			ReadTimeout:       cfg.Server.ReadTimeout,
		}

		errc := make(chan error, 1)
		go func() {
			logger.Info("spellfix listening",
				"addr", cfg.Server.Addr,
				"provider", provider.Name(),
				"config", cm.File())
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}
