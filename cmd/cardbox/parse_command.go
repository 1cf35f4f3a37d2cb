package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cardbox/internal/capture"
	"cardbox/internal/contact"
	"cardbox/internal/vcard"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	var merge bool

	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Parse a vCard payload into contact fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if !vcard.IsVCard(raw) {
				return fmt.Errorf("input does not look like a vCard (missing %s)", vcard.Marker)
			}

			patch := vcard.Parse(raw)
			out := cmd.OutOrStdout()
			printPatch(out, patch)

			if !merge {
				return nil
			}
			return ctx.withSession(func(session *capture.Session) error {
				rec, err := session.HandleDecodedText(cmd.Context(), raw)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\nMerged: %s\n", capture.Summarize(rec))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&merge, "merge", false, "Merge the parsed fields into the stored record")
	return cmd
}

func readInput(cmd *cobra.Command, arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", arg, err)
	}
	return string(data), nil
}

func printPatch(out io.Writer, patch contact.Patch) {
	if patch.IsEmpty() {
		fmt.Fprintln(out, "No fields found")
		return
	}
	for _, field := range contact.Fields {
		value, ok := patch[field]
		if !ok {
			continue
		}
		if field == contact.FieldNotes {
			value = strings.ReplaceAll(value, "\n", "\n       ")
		}
		fmt.Fprintf(out, "%-9s %s\n", string(field)+":", value)
	}
}
