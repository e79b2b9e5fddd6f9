package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "sparkcart",
		Short:        "Shared shopping carts with votes, polls and comments",
		SilenceUsage: true,
	}
	serve := newServeCmd()
	root.AddCommand(serve, newMigrateCmd())
	// a bare "sparkcart" starts the server
	root.RunE = serve.RunE

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
