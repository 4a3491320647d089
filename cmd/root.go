// Package cmd provides the command-line interface of the API server.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "go-api-starter",
	Short: "REST API boilerplate with JWT auth and layered configuration",
	Long: `go-api-starter is a production-ready REST API skeleton.

It ships with:
- JWT-based registration and login
- Centralized error classification with a stable JSON envelope
- Layered configuration (.env, per-environment YAML, environment variables)
- Structured logging, Prometheus metrics, and OpenTelemetry tracing`,
}

// Execute runs the CLI. It is called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
