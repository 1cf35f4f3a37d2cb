package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cardbox/internal/export"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var number string
	var urlOnly bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the contact as a share message",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			rec := st.Get()
			if rec.IsEmpty() {
				return fmt.Errorf("no contact captured yet")
			}

			out := cmd.OutOrStdout()
			if !urlOnly {
				fmt.Fprintln(out, export.Message(rec))
			}
			fmt.Fprintln(out, export.WhatsAppURL(rec, number))
			return nil
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "WhatsApp number in international digits form (opens the picker when empty)")
	cmd.Flags().BoolVar(&urlOnly, "url-only", false, "Print only the wa.me link")
	return cmd
}
