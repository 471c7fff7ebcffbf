// Package cli implements the raidlog command tree.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/stefanpenner/raidlog/pkg/catalog"
	"github.com/stefanpenner/raidlog/pkg/config"
	"github.com/stefanpenner/raidlog/pkg/store"
	"github.com/stefanpenner/raidlog/pkg/tracker"
	"github.com/stefanpenner/raidlog/pkg/tui"
)

// App holds the flag values and the state opened for a command run.
type App struct {
	Overrides config.Overrides
	JSON      bool

	// IsInteractive reports whether stdin is a terminal. Nil means no.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil uses a huh prompt.
	Confirm func(title string) (bool, error)

	Config  config.Config
	Logger  *slog.Logger
	Store   *store.Store
	Tracker *tracker.Tracker
}

// NewRootCmd creates the top-level "raidlog" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "raidlog",
		Short: "Track quest, project and workbench material progress",
		Long: `raidlog tracks how many of each required item you have handed in for
quests, projects and workbench upgrades, and keeps a gather checklist.

Run without a command to open the interactive tracker.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.open(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return tui.Run(app.Tracker, app.Store, app.Logger)
			}
			return runStatus(cmd, app)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.Overrides.DataDir, "dir", "", "data directory (default: OS data dir, or $RAIDLOG_DIR)")
	flags.StringVar(&app.Overrides.CatalogDir, "catalog", "", "catalog directory (default: built-in catalog)")
	flags.StringVar(&app.Overrides.Backend, "backend", "", "storage backend: file or sqlite")
	flags.StringVar(&app.Overrides.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.BoolVar(&app.JSON, "json", false, "print JSON instead of text")

	root.AddCommand(
		newStatusCmd(app),
		newListCmd(app),
		newShowCmd(app),
		newProgressCmd(app),
		newChecklistCmd(app),
		newItemsCmd(app),
		newResetCmd(app),
	)

	return root
}

// open resolves the configuration and loads the catalog and stores. A
// pre-populated Tracker is left alone.
func (a *App) open(cmd *cobra.Command) error {
	if a.Tracker != nil {
		return nil
	}

	cfg, err := config.Load(a.Overrides)
	if err != nil {
		return err
	}
	a.Config = cfg
	a.Logger = cfg.NewLogger(cmd.ErrOrStderr())

	cat, err := loadCatalog(cfg.CatalogDir)
	if err != nil {
		return err
	}

	s, err := store.NewStore(cfg.DataDir, cfg.Backend)
	if err != nil {
		return err
	}
	tr, err := tracker.Open(cat, s, a.Logger)
	if err != nil {
		s.Close()
		return err
	}

	a.Store = s
	a.Tracker = tr
	a.Logger.Debug("opened data directory", "dir", cfg.DataDir, "backend", s.Kind)
	return nil
}

func loadCatalog(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		return catalog.Default()
	}
	cat, err := catalog.Load(catalog.Dir(dir))
	if err != nil {
		return nil, fmt.Errorf("loading catalog from %s: %w", dir, err)
	}
	return cat, nil
}

// Close releases the store opened by the last command run.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// confirm asks before a destructive command. Without a terminal there is
// nobody to ask, so the caller must pass --yes.
func (a *App) confirm(title string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	if !a.interactive() {
		return false, errors.New("not a terminal; pass --yes to confirm")
	}

	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
