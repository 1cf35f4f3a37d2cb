package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cardbox/internal/capture"
	"cardbox/internal/extract"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var merge bool

	cmd := &cobra.Command{
		Use:   "extract <file|->",
		Short: "Extract contact fields from raw text",
		Long: "Extract runs the card-text heuristics over plain text, useful for\n" +
			"replaying OCR output or digesting a pasted email signature.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			extractor := extract.New(extract.Thresholds{
				PhoneMinDigits: cfg.Extract.PhoneMinDigits,
				NameMinLen:     cfg.Extract.NameMinLen,
				NameMaxLen:     cfg.Extract.NameMaxLen,
			})

			patch := extractor.Extract(raw)
			out := cmd.OutOrStdout()
			printPatch(out, patch)

			if !merge {
				return nil
			}
			return ctx.withSession(func(session *capture.Session) error {
				rec := session.ManualUpdate(cmd.Context(), patch)
				fmt.Fprintf(out, "\nMerged: %s\n", capture.Summarize(rec))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&merge, "merge", false, "Merge the extracted fields into the stored record")
	return cmd
}
