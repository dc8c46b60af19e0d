package main

import (
	"os"

	"github.com/spf13/cobra"

	"gatehouse/internal/interfaces/cli/migrate"
	"gatehouse/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gatehouse",
		Short: "Gatehouse - authentication and session service",
		Long:  `Gatehouse is a standalone authentication service: OAuth and password sign-in, opaque session tokens, and a session guard for protected routes.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
