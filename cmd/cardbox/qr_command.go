package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cardbox/internal/capture"
	"cardbox/internal/config"
	"cardbox/internal/scanner"
)

func newQRCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "qr <image>",
		Short: "Decode a QR still and merge its payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(func(session *capture.Session) error {
				rec, err := session.ProcessQRImage(cmd.Context(), path, scanner.NewQRDecoder())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Merged: %s\n", capture.Summarize(rec))
				return nil
			})
		},
	}
}
