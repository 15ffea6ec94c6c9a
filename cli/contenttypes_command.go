package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/blogem/object-log/contenttypes"
	"github.com/blogem/object-log/database"
	"github.com/blogem/object-log/repositories"
)

// NewContentTypesCommand creates the command listing the registered content types
func NewContentTypesCommand(globalOptions *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "contenttypes",
		Short: "List the registered content types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.InitializeDatabase(globalOptions.Conf.DBPath, globalOptions.Logger)
			if err != nil {
				return err
			}
			defer db.Close()

			types := contenttypes.NewRegistry(repositories.NewContentTypeRepository(db), time.Minute)
			contenttypes.RegisterBuiltins(types)
			if err := types.Sync(cmd.Context()); err != nil {
				return err
			}

			return listContentTypes(cmd.Context(), types, cmd.OutOrStdout())
		},
	}
}

func listContentTypes(ctx context.Context, types *contenttypes.Registry, out io.Writer) error {
	fmt.Fprintf(out, "%-4s %-24s %s\n", "ID", "CONTENT TYPE", "DISPLAY")
	for _, class := range types.Classes() {
		ct, err := types.GetForModel(ctx, class.AppLabel, class.Model)
		if err != nil {
			return err
		}

		display := "plain"
		if class.IsLinkable() {
			display = "linkable"
		}
		fmt.Fprintf(out, "%-4d %-24s %s\n", ct.ID, ct.String(), display)
	}
	return nil
}
