package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/voxcmd/internal/app"
	"github.com/dshills/voxcmd/internal/transport"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [utterance...]",
		Short: "Classify utterances offline and print the keys they would press",
		Long: `classify runs each utterance through the grammar in test mode, so no key
is pressed. Utterances are read one per line from stdin when none are given.
Step-order state carries over from one utterance to the next.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			cfg.Test = true

			a, err := app.New(runContext(cmd), app.Options{
				Config:   cfg,
				Logger:   log,
				Sleep:    func(time.Duration) {},
				NoListen: true,
			})
			if err != nil {
				return err
			}
			defer a.Close()

			norm := transport.Normalizer{FoldWidth: cfg.FoldWidth}
			return classifyAll(cmd, a.Engine, norm, args)
		},
	}
}

func classifyAll(cmd *cobra.Command, e *app.Engine, norm transport.Normalizer, args []string) error {
	out := cmd.OutOrStdout()
	each := func(raw string) {
		text := norm.Normalize(raw)
		if text == "" {
			return
		}
		res, err := e.Process(runContext(cmd), text)
		printResult(out, res, err)
	}

	if len(args) > 0 {
		for _, arg := range args {
			each(arg)
		}
		return nil
	}

	sc := bufio.NewScanner(cmd.InOrStdin())
	for sc.Scan() {
		each(strings.TrimSpace(sc.Text()))
	}
	return sc.Err()
}

func printResult(w io.Writer, res app.Result, err error) {
	keys := res.Sequence.String()
	if res.NoAction() {
		keys = "no action"
	}
	fmt.Fprintf(w, "%s\t%s\t%s\n", res.Text, res.Order, keys)
	if err != nil {
		fmt.Fprintf(w, "\terror: %v\n", err)
	}
}
