package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	serveCmd := newServeCommand()

	rootCmd := &cobra.Command{
		Use:   "waste-classifier-api",
		Short: "Garbage image classification API",
		Long: `Serves a pretrained garbage classifier over HTTP. Images are posted as base64,
resized to 224x224 and scored against the configured category list.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		// running the binary without a subcommand starts the server
		RunE: serveCmd.RunE,
	}
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newPreprocessCommand())
	return rootCmd
}
