package cli

import (
	"github.com/spf13/cobra"

	"github.com/blogem/object-log/database"
)

// NewMigrateCommand creates the migrate command and its subcommands
func NewMigrateCommand(globalOptions *GlobalOptions) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database schema versions. Use subcommands 'up', 'down', or 'status'.`,
	}

	for _, sub := range []struct{ use, short string }{
		{"up", "Migrate the database to the most recent version"},
		{"down", "Roll back the database by one version"},
		{"status", "Dump the migration status for the current DB"},
	} {
		command := sub.use
		migrateCmd.AddCommand(&cobra.Command{
			Use:   sub.use,
			Short: sub.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigration(command, globalOptions)
			},
		})
	}

	return migrateCmd
}

func runMigration(command string, globalOptions *GlobalOptions) error {
	db, err := database.OpenDB(globalOptions.Conf.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	return database.Migrate(db, command, globalOptions.Logger)
}
