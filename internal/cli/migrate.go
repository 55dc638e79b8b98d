package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"snipx-service/internal/resource"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the videos, users and support_tickets tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		openResources()
		if err := resource.DefaultDatabaseResource().Migrate(); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		printf("Schema is up to date (driver=%s database=%s)\n", cfg.Database.Driver, cfg.Database.Database)
		return nil
	},
}
