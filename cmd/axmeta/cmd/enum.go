package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var enumCmd = &cobra.Command{
	Use:   "enum <name>",
	Short: "Show the values of an enum",
	Long: `Enum merges the enum descriptor with its extensions, fills in implicit
values and prints every item with its translated label, ordered by value.

Example:
  axmeta enum NoYes`,
	Args: cobra.ExactArgs(1),
	RunE: runEnum,
}

func init() {
	rootCmd.AddCommand(enumCmd)
}

func runEnum(cmd *cobra.Command, args []string) error {
	name := args[0]
	ctx := context.Background()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()
	a.load(ctx)

	out := cmd.OutOrStdout()
	items := a.svc.EnumDetails(name)
	if len(items) == 0 {
		printWarn(out, "No values found for enum %s", name)
		return nil
	}

	catalog := a.svc.Catalog()
	if label := catalog.Text(a.svc.EnumLabel(name)); label != "" {
		heading(out, "%s (%s)", name, label)
	} else {
		heading(out, "%s", name)
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.Value, item.Name, catalog.Text(item.Label)})
	}
	renderTable(out, []string{"VALUE", "NAME", "LABEL"}, rows)
	return nil
}
