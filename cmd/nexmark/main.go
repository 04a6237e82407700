package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nexmark",
		Short: "Nexmark event generator",
		Long: "nexmark produces the Nexmark auction benchmark stream (people, auctions, bids)\n" +
			"paced to its logical timestamps, as JSON, CSV, debug text or framed binary bids.",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "nexmark", version)
		},
	})
	return rootCmd
}
