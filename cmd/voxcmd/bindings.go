package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/voxcmd/internal/grammar"
)

func newBindingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bindings",
		Short: "Print the resolved key-binding table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			g, err := grammar.New(cfg.Grammar, grammarOptions(cfg, log))
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "COMMAND\tKEY\tSOURCE")
			for _, b := range g.Bindings().Bindings() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Command, b.Key, b.Source)
			}
			return tw.Flush()
		},
	}
}

func newGrammarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grammars",
		Short: "List the available grammars",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range grammar.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
