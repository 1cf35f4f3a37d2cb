package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cardbox/internal/capture"
	"cardbox/internal/config"
	"cardbox/internal/scanner"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var continuous bool
	var dirFlag string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run the QR scan loop over a directory of frames",
		Long: "Scan watches a directory for still frames and decodes them in a\n" +
			"debounced loop. By default the loop stops after the first accepted\n" +
			"decode; --continuous keeps it running until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			dir := dirFlag
			if dir == "" {
				dir = filepath.Join(cfg.Paths.InboxDir, capture.InboxQRDir)
			} else if dir, err = config.ExpandPath(dir); err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return ctx.withSession(func(session *capture.Session) error {
				out := cmd.OutOrStdout()
				onDecode := func(text string) {
					rec, err := session.HandleDecodedText(runCtx, text)
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "decode not merged: %v\n", err)
						return
					}
					fmt.Fprintf(out, "Merged: %s\n", capture.Summarize(rec))
				}

				loop := scanner.New(
					capture.NewDirectoryFrameSource(dir),
					scanner.NewQRDecoder(),
					onDecode,
					scanner.Config{
						Debounce:     cfg.Debounce(),
						PollInterval: cfg.PollInterval(),
						Continuous:   continuous,
						ROIFraction:  cfg.Scanner.ROIFraction,
					},
					ctx.cliLogger(),
				)
				if err := loop.Start(runCtx); err != nil {
					return err
				}
				defer loop.Stop()

				fmt.Fprintf(out, "Scanning %s (ctrl-c to stop)\n", dir)
				ticker := time.NewTicker(100 * time.Millisecond)
				defer ticker.Stop()
				for {
					select {
					case <-runCtx.Done():
						return nil
					case <-ticker.C:
						if !continuous && loop.State() == scanner.StateIdle {
							return nil
						}
					}
				}
			})
		},
	}

	cmd.Flags().BoolVar(&continuous, "continuous", false, "Keep scanning after the first accepted decode")
	cmd.Flags().StringVar(&dirFlag, "dir", "", "Frame directory (defaults to the QR inbox)")
	return cmd
}
