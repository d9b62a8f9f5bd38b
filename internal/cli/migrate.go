package cli

import (
	"fmt"

	"kikisite/internal/database"

	"github.com/spf13/cobra"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()
			return database.Migrate(rt.db, rt.cfg.Database.Driver, rt.log)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration (postgres only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()
			if rt.cfg.Database.Driver != "postgres" {
				return fmt.Errorf("migrate down is only supported on postgres")
			}
			return database.MigrateDown(rt.db, rt.log)
		},
	})

	return cmd
}
