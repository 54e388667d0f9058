package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/voxcmd/internal/app"
	"github.com/dshills/voxcmd/internal/grammar"
	"github.com/dshills/voxcmd/internal/logging"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Listen for utterances and press the matching keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(runContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, app.Options{Config: cfg, Logger: log})
			if err != nil {
				return err
			}
			defer a.Close()

			logBanner(log, a.Engine.Grammar())
			if cfg.Test {
				log.Warn("test mode: key presses are logged, not performed")
			}
			if err := a.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
}

// logBanner lists the active key bindings at startup.
func logBanner(log *logging.Logger, g grammar.Grammar) {
	log.Info("grammar: %s", g.Name())
	for _, b := range g.Bindings().Bindings() {
		log.Info("  %-16s %-14s %s", b.Command, b.Key, b.Source)
	}
}

// runContext returns the command context, or Background when unset.
func runContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
