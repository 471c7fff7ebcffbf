package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/raidlog/pkg/catalog"
	"github.com/stefanpenner/raidlog/pkg/store"
	"github.com/stefanpenner/raidlog/pkg/tracker"
)

func newChecklistCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checklist",
		Aliases: []string{"cl"},
		Short:   "Manage the gather checklist",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChecklistList(cmd, app)
		},
	}

	cmd.AddCommand(
		newChecklistListCmd(app),
		newChecklistAddCmd(app),
		newChecklistNeedCmd(app),
		newChecklistHaveCmd(app),
		newChecklistIncCmd(app),
		newChecklistRemoveCmd(app),
		newChecklistClearCmd(app),
	)
	return cmd
}

func newChecklistListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List checklist entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChecklistList(cmd, app)
		},
	}
}

func runChecklistList(cmd *cobra.Command, app *App) error {
	entries := app.Tracker.Checklist.Entries()

	if app.JSON {
		views := make([]entryView, 0, len(entries))
		for _, e := range entries {
			views = append(views, newEntryView(e))
		}
		return outputJSON(cmd.OutOrStdout(), views)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), `Checklist is empty. Add items with "raidlog checklist need" or "raidlog checklist add".`)
		return nil
	}
	var rows [][]string
	for _, e := range entries {
		rows = append(rows, entryRow(e))
	}
	fmt.Fprint(cmd.OutOrStdout(), renderTable("", rows))
	return nil
}

func entryRow(e store.Entry) []string {
	icon := completionIcon(tracker.Completion{Have: e.Have, Total: e.Total})
	return []string{
		icon,
		fmt.Sprintf("%s (%s)", e.Name, e.ItemID),
		fmt.Sprintf("%d/%d", e.Have, e.Total),
		strings.Join(e.Sources(), ", "),
	}
}

func printEntry(cmd *cobra.Command, app *App, itemID string) error {
	e, ok := app.Tracker.Checklist.Entry(itemID)
	if app.JSON {
		if !ok {
			return outputJSON(cmd.OutOrStdout(), map[string]string{"removed": itemID})
		}
		return outputJSON(cmd.OutOrStdout(), newEntryView(e))
	}
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", itemID)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), renderTable("", [][]string{entryRow(e)}))
	return nil
}

func newChecklistAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <item> [quantity]",
		Short: "Add an item to gather, not tied to any requirement",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := app.Tracker
			it, err := resolveItem(tr.Catalog, args[0])
			if err != nil {
				return err
			}
			qty := 1
			if len(args) == 2 {
				if qty, err = parseCount(args[1], "quantity"); err != nil {
					return err
				}
			}
			if qty <= 0 {
				return fmt.Errorf("quantity must be positive, got %d", qty)
			}
			if err := tr.AddManual(it.ID, qty); err != nil {
				return err
			}
			return printEntry(cmd, app, it.ID)
		},
	}
}

func newChecklistNeedCmd(app *App) *cobra.Command {
	var stageID string

	cmd := &cobra.Command{
		Use:   "need <category> <id>",
		Short: "Add an entity's unfinished requirements to the checklist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := app.Tracker
			e, err := resolveEntity(tr.Catalog, args[0], args[1])
			if err != nil {
				return err
			}

			var rows []tracker.Row
			if stageID == "" {
				rows = tr.Rows(e)
			} else {
				stage, err := findStage(e, stageID)
				if err != nil {
					return err
				}
				rows = tr.StageRows(e, stage)
			}

			added, err := tr.AddRowsToChecklist(rows)
			if err != nil {
				return err
			}
			if app.JSON {
				return outputJSON(cmd.OutOrStdout(), map[string]any{"source": catalog.SourceLabel(e), "added": added})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d requirement(s) from %s\n", added, catalog.SourceLabel(e))
			return nil
		},
	}

	cmd.Flags().StringVar(&stageID, "stage", "", "only this stage id")
	return cmd
}

func findStage(e catalog.Entity, id string) (catalog.Stage, error) {
	for _, s := range catalog.Normalize(e) {
		if s.ID == id {
			return s, nil
		}
	}
	return catalog.Stage{}, fmt.Errorf("stage %q of %s: %w", id, e.EntityID(), catalog.ErrNotFound)
}

func newChecklistHaveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "have <item> <count>",
		Short: "Set how many of an item you have gathered",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := app.Tracker
			itemID, err := resolveChecklistItem(tr, args[0])
			if err != nil {
				return err
			}
			have, err := parseCount(args[1], "count")
			if err != nil {
				return err
			}
			if err := tr.SetHave(itemID, have); err != nil {
				return err
			}
			return printEntry(cmd, app, itemID)
		},
	}
}

func newChecklistIncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inc <item> [delta]",
		Short: "Adjust how many of an item you have gathered",
		Long:  "Adds delta (default 1) to the gathered count. Use -- before negative deltas.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := app.Tracker
			itemID, err := resolveChecklistItem(tr, args[0])
			if err != nil {
				return err
			}
			delta := 1
			if len(args) == 2 {
				if delta, err = parseCount(args[1], "delta"); err != nil {
					return err
				}
			}
			if err := tr.IncrementHave(itemID, delta); err != nil {
				return err
			}
			return printEntry(cmd, app, itemID)
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newChecklistRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <item>",
		Aliases: []string{"remove"},
		Short:   "Remove an item from the checklist; progress is kept",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := app.Tracker
			itemID, err := resolveChecklistItem(tr, args[0])
			if err != nil {
				return err
			}
			if err := tr.RemoveFromChecklist(itemID); err != nil {
				return err
			}
			return printEntry(cmd, app, itemID)
		},
	}
}

func newChecklistClearCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every checklist entry; progress is kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := app.Tracker
			if !yes {
				ok, err := app.confirm(fmt.Sprintf("Clear all %d checklist entries?", tr.Checklist.Len()))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := tr.ClearChecklist(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Checklist cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
