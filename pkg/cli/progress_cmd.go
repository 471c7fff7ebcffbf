package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/raidlog/pkg/tracker"
)

func newProgressCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Read or change a single requirement's progress",
		Long: `Requirements are addressed by their progress key,
category|entity|stage|item, as printed by "raidlog show".`,
	}

	cmd.AddCommand(
		newProgressGetCmd(app),
		newProgressSetCmd(app),
		newProgressIncCmd(app),
		newProgressDoneCmd(app),
	)
	return cmd
}

func newProgressGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a requirement's progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resolveRow(app.Tracker, args[0])
			if err != nil {
				return err
			}
			return printRow(cmd, app, r)
		},
	}
}

func newProgressSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a requirement's progress",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := app.Tracker
			r, err := resolveRow(tr, args[0])
			if err != nil {
				return err
			}
			value, err := parseCount(args[1], "value")
			if err != nil {
				return err
			}
			if err := tr.Progress.Set(r.Key, value); err != nil {
				return err
			}
			return printRow(cmd, app, refresh(tr, r))
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newProgressIncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inc <key> [delta]",
		Short: "Step a requirement's progress, capped at its quantity",
		Long:  "Adds delta (default 1) to the requirement. Negative deltas step back; use -- before them.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := app.Tracker
			r, err := resolveRow(tr, args[0])
			if err != nil {
				return err
			}
			delta := 1
			if len(args) == 2 {
				if delta, err = parseCount(args[1], "delta"); err != nil {
					return err
				}
			}
			if err := tr.Step(r, delta); err != nil {
				return err
			}
			return printRow(cmd, app, refresh(tr, r))
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newProgressDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <key>",
		Short: "Mark a requirement complete, or reset it if it already is",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := app.Tracker
			r, err := resolveRow(tr, args[0])
			if err != nil {
				return err
			}
			if err := tr.ToggleDone(r); err != nil {
				return err
			}
			return printRow(cmd, app, refresh(tr, r))
		},
	}
}

func refresh(tr *tracker.Tracker, r tracker.Row) tracker.Row {
	r.Value = tr.Progress.Value(r.Key)
	return r
}

func printRow(cmd *cobra.Command, app *App, r tracker.Row) error {
	if app.JSON {
		return outputJSON(cmd.OutOrStdout(), newRequirementView(app.Tracker, r))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s for %s: %d/%d\n",
		rowIcon(r), app.Tracker.Catalog.ItemName(r.Requirement.ItemID), r.Source, r.Value, r.Requirement.Quantity)
	return nil
}
