package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(app *App) *cobra.Command {
	var yes, checklist bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget all recorded progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := app.Tracker
			title := "Reset all progress?"
			if checklist {
				title = "Reset all progress and clear the checklist?"
			}
			if !yes {
				ok, err := app.confirm(title)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if err := tr.ResetProgress(); err != nil {
				return err
			}
			if checklist {
				if err := tr.ClearChecklist(); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Progress reset.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&checklist, "checklist", false, "also clear the checklist")
	return cmd
}
