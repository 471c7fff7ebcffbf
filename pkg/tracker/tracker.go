// Package tracker ties the static catalog to the progress and checklist
// stores and keeps the two stores consistent.
package tracker

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/stefanpenner/raidlog/pkg/catalog"
	"github.com/stefanpenner/raidlog/pkg/store"
)

// Tracker is the API the CLI and TUI drive. It is not safe for concurrent
// use; the presentation layer is its only, serialized caller.
type Tracker struct {
	Catalog   *catalog.Catalog
	Progress  *store.Progress
	Checklist *store.Checklist

	logger *slog.Logger
}

// New wires a tracker over already loaded stores.
func New(cat *catalog.Catalog, progress *store.Progress, checklist *store.Checklist, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tracker{
		Catalog:   cat,
		Progress:  progress,
		Checklist: checklist,
		logger:    logger,
	}
}

// Open loads both stores from s and returns a tracker over them.
func Open(cat *catalog.Catalog, s *store.Store, logger *slog.Logger) (*Tracker, error) {
	progress, err := store.NewProgress(s.ProgressBackend(), logger)
	if err != nil {
		return nil, fmt.Errorf("loading progress: %w", err)
	}
	checklist, err := store.NewChecklist(s.ChecklistBackend(), cat, logger)
	if err != nil {
		return nil, fmt.Errorf("loading checklist: %w", err)
	}
	return New(cat, progress, checklist, logger), nil
}

// Reload re-reads both stores, picking up edits made by another process.
func (t *Tracker) Reload() error {
	if err := t.Progress.Reload(); err != nil {
		return err
	}
	return t.Checklist.Reload()
}

// Row is one requirement of one stage, with its current progress.
type Row struct {
	Entity      catalog.Entity
	Stage       catalog.Stage
	Requirement catalog.Requirement
	Key         catalog.ProgressKey
	Source      string
	Value       int
}

// Done reports whether the requirement is fully satisfied.
func (r Row) Done() bool {
	return r.Value >= r.Requirement.Quantity
}

// Remaining is how many more of the item the requirement needs.
func (r Row) Remaining() int {
	return max(0, r.Requirement.Quantity-r.Value)
}

// Rows returns every requirement row of an entity in stage order.
func (t *Tracker) Rows(e catalog.Entity) []Row {
	var rows []Row
	for _, stage := range catalog.Normalize(e) {
		rows = append(rows, t.StageRows(e, stage)...)
	}
	return rows
}

// StageRows returns the requirement rows of one stage.
func (t *Tracker) StageRows(e catalog.Entity, stage catalog.Stage) []Row {
	source := catalog.SourceLabel(e)
	rows := make([]Row, 0, len(stage.Requirements))
	for _, req := range stage.Requirements {
		key := catalog.NewProgressKey(e, stage.ID, req.ItemID)
		rows = append(rows, Row{
			Entity:      e,
			Stage:       stage,
			Requirement: req,
			Key:         key,
			Source:      source,
			Value:       t.Progress.Value(key),
		})
	}
	return rows
}

// Row finds the requirement a progress key points at.
func (t *Tracker) Row(key catalog.ProgressKey) (Row, error) {
	e, err := t.Catalog.Entity(key.Category, key.EntityID)
	if err != nil {
		return Row{}, err
	}
	for _, r := range t.Rows(e) {
		if r.Key == key {
			return r, nil
		}
	}
	return Row{}, fmt.Errorf("requirement %s: %w", key, catalog.ErrNotFound)
}

// Step moves a requirement's progress by delta, capped at its quantity.
func (t *Tracker) Step(r Row, delta int) error {
	t.logger.Debug("step requirement", "key", r.Key.String(), "delta", delta)
	return t.Progress.IncrementMax(r.Key, delta, r.Requirement.Quantity)
}

// ToggleDone marks a requirement complete, or resets it if it already is.
func (t *Tracker) ToggleDone(r Row) error {
	value := r.Requirement.Quantity
	if t.Progress.Value(r.Key) >= r.Requirement.Quantity {
		value = 0
	}
	t.logger.Debug("toggle requirement", "key", r.Key.String(), "value", value)
	return t.Progress.Set(r.Key, value)
}

// AddToChecklist adds the requirement's remaining quantity to the checklist,
// linked to the requirement. It does nothing if the requirement is complete
// or already linked.
func (t *Tracker) AddToChecklist(r Row) (bool, error) {
	remaining := r.Requirement.Quantity - t.Progress.Value(r.Key)
	if remaining <= 0 || t.Checklist.Linked(r.Key) {
		return false, nil
	}
	name := t.Catalog.ItemName(r.Requirement.ItemID)
	t.logger.Debug("add requirement to checklist", "key", r.Key.String(), "quantity", remaining)
	if err := t.Checklist.Add(r.Requirement.ItemID, name, remaining, r.Key, r.Source); err != nil {
		return false, err
	}
	return true, nil
}

// AddRowsToChecklist runs AddToChecklist over rows and returns how many
// were added. It stops at the first storage error.
func (t *Tracker) AddRowsToChecklist(rows []Row) (int, error) {
	added := 0
	for _, r := range rows {
		ok, err := t.AddToChecklist(r)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// AddManual adds an unlinked quantity of an item to the checklist.
func (t *Tracker) AddManual(itemID string, quantity int) error {
	if _, ok := t.Catalog.Item(itemID); !ok {
		return fmt.Errorf("item %q: %w", itemID, catalog.ErrNotFound)
	}
	return t.Checklist.Add(itemID, t.Catalog.ItemName(itemID), quantity, catalog.ProgressKey{}, "")
}

// SetHave sets the checklist have count and reconciles it into progress.
func (t *Tracker) SetHave(itemID string, have int) error {
	if err := t.Checklist.SetHave(itemID, have); err != nil {
		return err
	}
	return t.syncStored(itemID)
}

// IncrementHave adjusts the checklist have count and reconciles it.
func (t *Tracker) IncrementHave(itemID string, delta int) error {
	if err := t.Checklist.IncrementHave(itemID, delta); err != nil {
		return err
	}
	return t.syncStored(itemID)
}

func (t *Tracker) syncStored(itemID string) error {
	e, ok := t.Checklist.Entry(itemID)
	if !ok {
		return nil
	}
	return t.SyncChecklistToProgress(itemID, e.Have)
}

// RemoveFromChecklist drops the item's entry. Progress is left untouched.
func (t *Tracker) RemoveFromChecklist(itemID string) error {
	return t.Checklist.Remove(itemID)
}

// ClearChecklist empties the checklist. Progress is left untouched.
func (t *Tracker) ClearChecklist() error {
	return t.Checklist.Clear()
}

// ResetProgress clears every recorded requirement count.
func (t *Tracker) ResetProgress() error {
	t.logger.Info("resetting progress")
	return t.Progress.Clear()
}

// Completion summarizes progress toward a set of requirements.
type Completion struct {
	Have  int
	Total int
}

// Percent rounds Have/Total to a whole percentage; empty totals are 0%.
func (c Completion) Percent() int {
	if c.Total <= 0 {
		return 0
	}
	return int(math.Round(float64(c.Have) / float64(c.Total) * 100))
}

// Complete reports whether every counted requirement is satisfied.
func (c Completion) Complete() bool {
	return c.Total > 0 && c.Have >= c.Total
}

// StageProgress sums min(value, quantity) over the stage's requirements.
func (t *Tracker) StageProgress(e catalog.Entity, stage catalog.Stage) Completion {
	var c Completion
	for _, r := range t.StageRows(e, stage) {
		c.Total += r.Requirement.Quantity
		c.Have += min(r.Value, r.Requirement.Quantity)
	}
	return c
}

// EntityProgress sums StageProgress across all stages of e.
func (t *Tracker) EntityProgress(e catalog.Entity) Completion {
	var c Completion
	for _, stage := range catalog.Normalize(e) {
		s := t.StageProgress(e, stage)
		c.Have += s.Have
		c.Total += s.Total
	}
	return c
}

// Stat is one headline count for the status view.
type Stat struct {
	Label    string `json:"label"`
	Value    int    `json:"value"`
	Complete int    `json:"complete"`
}

// Stats counts entities per category and how many are fully satisfied,
// plus the number of catalog items.
func (t *Tracker) Stats() []Stat {
	var stats []Stat
	for _, cat := range catalog.Categories {
		entities := t.Catalog.Entities(cat)
		s := Stat{Label: cat.Label(), Value: len(entities)}
		for _, e := range entities {
			if t.EntityProgress(e).Complete() {
				s.Complete++
			}
		}
		stats = append(stats, s)
	}
	stats = append(stats, Stat{Label: "Items", Value: len(t.Catalog.Items)})
	return stats
}
