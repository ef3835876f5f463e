package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	refreshForce     bool
	refreshRelations bool
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the path index and label catalog",
	Long: `Refresh rebuilds the path index and the label catalog in parallel and
persists both to the cache directory. Without --force, caches that already
hold entries are reused.

With --relations the global relation list is rebuilt as well.

Example:
  axmeta refresh --force --relations`,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshForce, "force", false, "Ignore existing caches and rescan the tree")
	refreshCmd.Flags().BoolVar(&refreshRelations, "relations", false, "Also rebuild the relation list")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	a, err := newApp(context.Background(), false)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := shutdownContext(context.Background(), a.log)
	defer cancel()

	out := cmd.OutOrStdout()
	var errs []error

	if err := a.svc.RefreshAll(ctx, refreshForce); err != nil {
		printFail(out, "Metadata refresh failed: %v", err)
		errs = append(errs, err)
	}
	idx := a.svc.Index()
	printSuccess(out, "Path index: %d tables, %d EDTs, %d enums", len(idx.Tables), len(idx.ExtendedTypes), len(idx.Enums))
	printSuccess(out, "Label catalog: %d entries", a.svc.Catalog().Len())

	if refreshRelations {
		edges, err := a.relations.BuildAll(ctx, refreshForce)
		if err != nil {
			printFail(out, "Relation refresh failed: %v", err)
			errs = append(errs, err)
		} else {
			printSuccess(out, "Relation list: %d edges", len(edges))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("refresh incomplete: %w", errors.Join(errs...))
	}
	return nil
}
