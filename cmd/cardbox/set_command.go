package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cardbox/internal/capture"
	"cardbox/internal/contact"
)

func newSetCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "set <field> <value>",
		Short: "Manually set a contact field",
		Long: "Set merges a hand-entered value through the same rules as any\n" +
			"capture: an already-populated field keeps its value, notes append.\n" +
			"Pass --force to overwrite the field instead.\n" +
			"Fields: name, company, position, phone, email, notes.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			field := contact.Field(strings.ToLower(strings.TrimSpace(args[0])))
			if !validField(field) {
				return fmt.Errorf("unknown field %q (want one of name, company, position, phone, email, notes)", args[0])
			}
			value := strings.TrimSpace(strings.Join(args[1:], " "))
			if value == "" {
				return fmt.Errorf("value for %s is empty", field)
			}
			if field == contact.FieldPhone && contact.NormalizePhone(value) == "" {
				return fmt.Errorf("phone %q has no digits", value)
			}

			return ctx.withSession(func(session *capture.Session) error {
				patch := contact.Patch{}
				patch.Set(field, value)
				out := cmd.OutOrStdout()

				if force {
					rec := session.ManualOverwrite(cmd.Context(), patch)
					fmt.Fprintf(out, "Set %s to %q\n", field, rec.Get(field))
					return nil
				}

				before := session.Record()
				rec := session.ManualUpdate(cmd.Context(), patch)
				if field != contact.FieldNotes && before.Get(field) != "" {
					fmt.Fprintf(out, "Field %s kept existing value %q (use --force to overwrite)\n", field, rec.Get(field))
					return nil
				}
				fmt.Fprintf(out, "Set %s to %q\n", field, rec.Get(field))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite the field even when already populated")
	return cmd
}

func validField(f contact.Field) bool {
	for _, known := range contact.Fields {
		if f == known {
			return true
		}
	}
	return false
}
