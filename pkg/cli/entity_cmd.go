package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/raidlog/pkg/catalog"
	"github.com/stefanpenner/raidlog/pkg/tracker"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show overall completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, app)
		},
	}
}

func runStatus(cmd *cobra.Command, app *App) error {
	tr := app.Tracker
	stats := tr.Stats()
	out := cmd.OutOrStdout()

	if app.JSON {
		return outputJSON(out, map[string]any{
			"dataDir":   app.Config.DataDir,
			"backend":   app.Config.Backend,
			"stats":     stats,
			"checklist": tr.Checklist.Len(),
		})
	}

	var rows [][]string
	for _, s := range stats {
		if s.Label == "Items" {
			rows = append(rows, []string{s.Label, strconv.Itoa(s.Value)})
			continue
		}
		rows = append(rows, []string{s.Label, fmt.Sprintf("%d/%d complete", s.Complete, s.Value)})
	}
	rows = append(rows, []string{"Checklist", fmt.Sprintf("%d entries", tr.Checklist.Len())})
	fmt.Fprint(out, renderTable("", rows))
	return nil
}

func newListCmd(app *App) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list <quests|projects|workbench>",
		Short: "List the entities of a category with their completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseCategory(args[0])
			if err != nil {
				return err
			}
			tr := app.Tracker

			var entities []catalog.Entity
			for _, e := range tr.Catalog.Entities(c) {
				if catalog.Matches(e, filter, tr.Catalog.ItemIndex()) {
					entities = append(entities, e)
				}
			}

			if app.JSON {
				views := make([]entityView, 0, len(entities))
				for _, e := range entities {
					views = append(views, newEntityView(tr, e, false))
				}
				return outputJSON(cmd.OutOrStdout(), views)
			}

			if len(entities) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing matches.")
				return nil
			}
			var rows [][]string
			for _, e := range entities {
				p := tr.EntityProgress(e)
				rows = append(rows, []string{completionIcon(p), e.EntityID(), e.Title(), catalog.Badge(e), formatCompletion(p)})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable("", rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only entities matching this text")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <category> <id>",
		Short: "Show an entity's stages and requirements",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := app.Tracker
			e, err := resolveEntity(tr.Catalog, args[0], args[1])
			if err != nil {
				return err
			}
			if app.JSON {
				return outputJSON(cmd.OutOrStdout(), newEntityView(tr, e, true))
			}
			printEntity(cmd.OutOrStdout(), tr, e)
			return nil
		},
	}
}

func printEntity(out io.Writer, tr *tracker.Tracker, e catalog.Entity) {
	title := e.Title()
	if badge := catalog.Badge(e); badge != "" {
		title += " [" + badge + "]"
	}
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, catalog.Subtitle(e))
	if s := e.Summary(); s != "" {
		fmt.Fprintln(out, s)
	}

	for _, stage := range catalog.Normalize(e) {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%s  %s\n", joinNonEmpty(" · ", stage.StageLabel, stage.Name), formatCompletion(tr.StageProgress(e, stage)))

		rows := tr.StageRows(e, stage)
		if len(rows) == 0 {
			fmt.Fprintln(out, "  No item requirements.")
		}
		var cells [][]string
		for _, r := range rows {
			cells = append(cells, []string{
				rowIcon(r),
				tr.Catalog.ItemName(r.Requirement.ItemID),
				fmt.Sprintf("%d/%d", r.Value, r.Requirement.Quantity),
				r.Key.String(),
			})
		}
		fmt.Fprint(out, renderTable("  ", cells))
		if stage.Reward != "" {
			fmt.Fprintf(out, "  Reward: %s\n", stage.Reward)
		}
	}
}
