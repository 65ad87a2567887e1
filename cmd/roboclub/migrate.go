package main

import (
	"github.com/deppfellow/robotics-club/internal/database"
	"github.com/spf13/cobra"
)

var migrateTarget int32

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back the embedded schema migrations",
	Long: `Moves the schema to the version given by --to. Without --to every
pending migration is applied. A version lower than the current one rolls back.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.close()

		return database.MigrateTo(cmd.Context(), &a.log, a.cfg, migrateTarget)
	},
}

func init() {
	migrateCmd.Flags().Int32Var(&migrateTarget, "to", database.LatestVersion, "target schema version, -1 for latest")
}
