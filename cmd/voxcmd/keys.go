package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/voxcmd/internal/input/keycheck"
)

func newKeysCmd() *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Show the key names voxcmd uses for the keys you press",
		Long: `keys captures key presses and mouse buttons in the terminal and shows the
name to use for each in binding overrides. Press Ctrl+C to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := keycheck.RequireTerminal(int(os.Stdin.Fd())); err != nil {
				return err
			}
			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}

			c := keycheck.New(screen, keep)
			if err := c.Run(runContext(cmd)); err != nil {
				return err
			}
			for _, p := range c.History() {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "history", 20, "number of presses to keep on screen")
	return cmd
}
