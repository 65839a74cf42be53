package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/attus74/devutil/internal/cli"
)

func main() {
	cfg, err := cli.LoadConfig()
	if err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cli.NewRootCmd(cfg, os.Stdout, os.Stderr)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cli.PrintError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
