// Package main provides the pizza-service binary: the JWT Pizza HTTP API,
// the order event consumer and the schema migration.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/iliyamo/pizza-service/internal/config"
)

const appName = "pizza-service"

func main() {
	// a missing .env is fine; real deployments use the environment
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "JWT Pizza backend",
		Long: `pizza-service serves the JWT Pizza REST API: registration and login,
the menu, diner orders fulfilled by the pizza factory, and franchise
administration.  Running it without a subcommand starts the API.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), config.Load())
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context(), config.Load())
			},
		},
		&cobra.Command{
			Use:   "consume",
			Short: "Consume order.placed events into the order log",
			RunE: func(cmd *cobra.Command, args []string) error {
				return consume(cmd.Context(), config.Load())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create missing tables and seed the admin user",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate(cmd.Context(), config.Load())
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("%s version %s\n", appName, versionFromEnv())
			},
		},
	)
	return cmd
}

func versionFromEnv() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return "dev"
}
