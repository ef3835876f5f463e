package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/axmeta/internal/database"
)

var fieldsCount bool

var fieldsCmd = &cobra.Command{
	Use:   "fields <table>",
	Short: "List the fields of a table with resolved labels",
	Long: `Fields lists every field of a table together with its display label,
data type, length and related table. Labels fall back to the extended data
type chain and then to the enum label. Enum-backed fields are marked [Enum].

When the database is enabled, physical columns drive the list; otherwise the
fields declared in the table descriptor and its extensions are used.

Example:
  axmeta fields CustTable
  axmeta fields CustTable --count`,
	Args: cobra.ExactArgs(1),
	RunE: runFields,
}

func init() {
	fieldsCmd.Flags().BoolVar(&fieldsCount, "count", false, "Also print the table row count (database only)")
	rootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, args []string) error {
	table := args[0]
	ctx := context.Background()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()
	a.load(ctx)

	rows, err := a.svc.ResolveFields(ctx, table)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		printWarn(out, "No fields found for %s", table)
		return nil
	}

	heading(out, "%s (%d fields)", table, len(rows))
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		length := ""
		if r.Length > 0 {
			length = strconv.FormatInt(r.Length, 10)
		}
		cells = append(cells, []string{r.FieldName, r.Label, r.DataType, length, r.RelatedTable})
	}
	renderTable(out, []string{"FIELD", "LABEL", "TYPE", "LENGTH", "RELATED"}, cells)

	if fieldsCount {
		if a.db == nil {
			printWarn(out, "Row count needs the database to be enabled")
			return nil
		}
		n, err := database.NewColumnReader(a.db.DB).RowCount(ctx, table)
		if err != nil {
			return fmt.Errorf("failed to count rows: %w", err)
		}
		fmt.Fprintf(out, "\nRows: %d\n", n)
	}
	return nil
}
