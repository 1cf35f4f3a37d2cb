package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"cardbox/internal/capture"
	"cardbox/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var socketFlag string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the running daemon's status and current record",
		RunE: func(cmd *cobra.Command, args []string) error {
			socket := strings.TrimSpace(socketFlag)
			if socket == "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				socket = filepath.Join(cfg.Paths.DataDir, "cardboxd.sock")
			}

			client, err := ipc.Dial(socket)
			if err != nil {
				return wrapDialError(err, socket)
			}
			defer client.Close()

			status, err := client.Status()
			if err != nil {
				return fmt.Errorf("query daemon status: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Running:  %s\n", yesNo(status.Running))
			fmt.Fprintf(out, "PID:      %d\n", status.PID)
			fmt.Fprintf(out, "Session:  %s\n", status.SessionID)
			fmt.Fprintf(out, "Database: %s\n", status.DatabasePath)

			rec, err := client.Record()
			if err != nil {
				return fmt.Errorf("query contact record: %w", err)
			}
			if rec.Record.IsEmpty() {
				fmt.Fprintln(out, "Contact:  (none)")
			} else {
				fmt.Fprintf(out, "Contact:  %s\n", capture.Summarize(rec.Record))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&socketFlag, "socket", "", "Path to the cardboxd control socket")
	return cmd
}

func wrapDialError(err error, socket string) error {
	switch {
	case errors.Is(err, syscall.ENOENT) || os.IsNotExist(err):
		return fmt.Errorf("connect to daemon: socket %s not found; is cardboxd running?", socket)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("connect to daemon: socket %s refused the connection; verify cardboxd is running", socket)
	default:
		return fmt.Errorf("connect to daemon: %w", err)
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
