package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/recurra-io/recurra/internal/interfaces/cli/migrate"
	"github.com/recurra-io/recurra/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "recurra",
		Short: "Recurra - habit tracking reminder server",
		Long:  `Recurra schedules recurring habit reminders, promotes them when due, and streams lifecycle events to connected clients.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
