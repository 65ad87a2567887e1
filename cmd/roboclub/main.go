// Command roboclub runs the robotics club content API.
//
// Subcommands:
//
//	serve          start the HTTP server (default)
//	migrate        apply or roll back the embedded schema migrations
//	seed-admin     create the first admin account if none exists
//	preview-email  render an email template with sample data
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "roboclub",
	Short:        "Robotics club content API",
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedAdminCmd, previewEmailCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
