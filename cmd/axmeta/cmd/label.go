package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var labelCmd = &cobra.Command{
	Use:   "label <id>...",
	Short: "Translate label identifiers",
	Long: `Label looks up one or more label identifiers in the catalog of the
configured locale. Identifiers without a translation are echoed back.

Example:
  axmeta label @SYS12345 @AccountsReceivable:CustGroup`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLabel,
}

func init() {
	rootCmd.AddCommand(labelCmd)
}

func runLabel(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()
	a.load(ctx)

	catalog := a.svc.Catalog()
	rows := make([][]string, 0, len(args))
	for _, id := range args {
		rows = append(rows, []string{id, catalog.Text(id)})
	}
	renderTable(cmd.OutOrStdout(), []string{"ID", "TEXT"}, rows)
	return nil
}
