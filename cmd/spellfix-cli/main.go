// Command spellfix-cli checks stdin (or a file) and prints the text with
// mistakes highlighted and the list of suggested corrections.
//
// Usage:
//
//	echo "I has a apple." | spellfix-cli check
//	spellfix-cli check -f essay.txt --words Kubernetes,kubectl
//	spellfix-cli check -f essay.txt --apply-all > fixed.txt
//	spellfix-cli check --json < notes.md
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
