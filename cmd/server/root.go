package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "codetrek",
	Short: "CodeTrek tutoring backend",
	Long:  "CodeTrek serves the practice problem catalog, the tutoring chat and AI code review over HTTP.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("port", "", "HTTP port (overrides API_PORT)")
	rootCmd.PersistentFlags().String("db-driver", "", "postgres or memory (overrides DB_DRIVER)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
