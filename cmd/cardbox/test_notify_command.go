package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cardbox/internal/notifications"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification to the configured ntfy topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Notifications.NtfyTopic == "" {
				return fmt.Errorf("no ntfy_topic configured")
			}
			svc := notifications.NewService(cfg)
			if err := svc.Publish(cmd.Context(), notifications.EventTest, nil); err != nil {
				return fmt.Errorf("send test notification: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
			return nil
		},
	}
}
