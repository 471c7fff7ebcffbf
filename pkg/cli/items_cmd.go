package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "items <query>",
		Short: "Look up items and what needs them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := app.Tracker.Catalog
			matches := cat.FindItems(strings.Join(args, " "), limit)

			if app.JSON {
				views := make([]itemView, 0, len(matches))
				for _, it := range matches {
					views = append(views, newItemView(cat, it))
				}
				return outputJSON(cmd.OutOrStdout(), views)
			}

			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching items.")
				return nil
			}
			var rows [][]string
			for _, it := range matches {
				needed := strings.Join(cat.SourcesForItem(it.ID), ", ")
				if needed == "" {
					needed = "not required by anything"
				}
				rows = append(rows, []string{fmt.Sprintf("%s (%s)", it.Name, it.ID), it.Rarity, needed})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable("", rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of matches")
	return cmd
}
