package main

import (
	"os"

	"github.com/spf13/cobra"

	"lexora/internal/interfaces/cli/migrate"
	"lexora/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lexora",
		Short: "Lexora - tenant seat allocation and LINE identity binding",
		Long:  `Lexora manages law-firm tenant seat quotas and binds LINE user identities to tenant seats.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
