package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"cardbox/internal/contact"
)

var fieldTitles = map[contact.Field]string{
	contact.FieldName:     "Name",
	contact.FieldCompany:  "Company",
	contact.FieldPosition: "Position",
	contact.FieldPhone:    "Phone",
	contact.FieldEmail:    "Email",
	contact.FieldNotes:    "Notes",
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the reconciled contact record",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			rec := st.Get()
			out := cmd.OutOrStdout()

			if jsonOutput {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(rec)
			}

			if rec.IsEmpty() {
				fmt.Fprintln(out, "No contact captured yet")
				return nil
			}

			if isatty.IsTerminal(os.Stdout.Fd()) {
				rows := make([][2]string, 0, len(contact.Fields))
				for _, field := range contact.Fields {
					if value := rec.Get(field); value != "" {
						rows = append(rows, [2]string{fieldTitles[field], value})
					}
				}
				fmt.Fprintln(out, renderRecordTable(rows))
				return nil
			}

			for _, field := range contact.Fields {
				if value := rec.Get(field); value != "" {
					fmt.Fprintf(out, "%s: %s\n", strings.ToLower(fieldTitles[field]), value)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the record as JSON")
	return cmd
}
