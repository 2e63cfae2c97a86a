// Command spellfix-server serves the spellfix HTTP API.
//
// Usage:
//
//	spellfix-server serve
//	spellfix-server serve --config ./spellfix.yaml --addr :9090
//	spellfix-server config init
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
