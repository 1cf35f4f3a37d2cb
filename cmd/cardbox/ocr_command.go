package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cardbox/internal/capture"
	"cardbox/internal/config"
)

func newOCRCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ocr <image>",
		Short: "Recognize a card photo and merge the extracted fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(func(session *capture.Session) error {
				rec, err := session.ProcessCardImage(cmd.Context(), path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Merged: %s\n", capture.Summarize(rec))
				return nil
			})
		},
	}
}
