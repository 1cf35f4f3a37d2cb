package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "cardbox",
		Short:         "Cardbox contact capture CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newParseCommand(ctx))
	rootCmd.AddCommand(newExtractCommand(ctx))
	rootCmd.AddCommand(newOCRCommand(ctx))
	rootCmd.AddCommand(newQRCommand(ctx))
	rootCmd.AddCommand(newScanCommand(ctx))
	rootCmd.AddCommand(newSetCommand(ctx))
	rootCmd.AddCommand(newResetCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newTestNotifyCommand(ctx))

	return rootCmd
}
