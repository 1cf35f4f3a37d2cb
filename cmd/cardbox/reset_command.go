package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cardbox/internal/capture"
)

func newResetCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the stored contact record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(session *capture.Session) error {
				out := cmd.OutOrStdout()
				rec := session.Record()
				if rec.IsEmpty() {
					fmt.Fprintln(out, "Nothing to clear")
					return nil
				}

				if !yes {
					fmt.Fprintf(out, "Clear record for %s? [y/N] ", capture.Summarize(rec))
					reader := bufio.NewReader(cmd.InOrStdin())
					answer, _ := reader.ReadString('\n')
					if !strings.EqualFold(strings.TrimSpace(answer), "y") {
						fmt.Fprintln(out, "Aborted")
						return nil
					}
				}

				session.Reset(cmd.Context())
				fmt.Fprintln(out, "Contact record cleared")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
