package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "pitchctl",
		Short: "Code2Pitch command line",
		Long: `pitchctl runs the Code2Pitch pipeline without the HTTP server.
It reads the same environment (and .env in development) as the relay.`,
		SilenceUsage: true,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
