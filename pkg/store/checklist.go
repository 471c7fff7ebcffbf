package store

import (
	"log/slog"
	"maps"
	"slices"
	"sort"

	"github.com/stefanpenner/raidlog/pkg/catalog"
)

// Source labels the checklist assigns when no better origin is known.
const (
	ManualSource  = "Manual"
	UnknownSource = "Unknown source"
)

// Link ties a checklist entry to the requirement instance it was added from.
// Only links synthesized for legacy entries carry the zero key.
type Link struct {
	Key    catalog.ProgressKey `json:"key,omitzero"`
	Need   int                 `json:"need"`
	Source string              `json:"source,omitempty"`
}

// Entry aggregates everything the player wants to gather of one item.
// Links are kept in insertion order; that order decides which requirement
// is filled first when the have count is reconciled into progress. Manual
// is the part of Total added without a requirement; it has no link and
// never reaches progress.
type Entry struct {
	ItemID string `json:"itemId"`
	Name   string `json:"name"`
	Total  int    `json:"total"`
	Have   int    `json:"have"`
	Manual int    `json:"manual,omitempty"`
	Links  []Link `json:"links"`
}

// Sources returns the distinct source labels of the entry's links, followed
// by ManualSource if part of the total was added by hand.
func (e Entry) Sources() []string {
	var out []string
	for _, l := range e.Links {
		if l.Source != "" && !slices.Contains(out, l.Source) {
			out = append(out, l.Source)
		}
	}
	if e.Manual > 0 && !slices.Contains(out, ManualSource) {
		out = append(out, ManualSource)
	}
	return out
}

// storedLink is Link with the key left as text, so one unreadable key does
// not fail the whole blob.
type storedLink struct {
	Key    string `json:"key,omitempty"`
	Need   int    `json:"need"`
	Source string `json:"source,omitempty"`
}

type storedEntry struct {
	ItemID string       `json:"itemId"`
	Name   string       `json:"name"`
	Total  int          `json:"total"`
	Have   int          `json:"have"`
	Manual int          `json:"manual,omitempty"`
	Links  []storedLink `json:"links"`
}

func (e Entry) clone() Entry {
	e.Links = slices.Clone(e.Links)
	return e
}

// SourceResolver infers source labels for checklist data saved before links
// recorded where they came from. *catalog.Catalog implements it.
type SourceResolver interface {
	SourceForKey(key catalog.ProgressKey) (string, bool)
	SourcesForItem(itemID string) []string
}

// Checklist is the player's gather list, keyed by item id.
type Checklist struct {
	backend Backend
	sources SourceResolver
	logger  *slog.Logger
	entries map[string]Entry
}

// NewChecklist loads the checklist from b and upgrades entries saved in an
// older shape. The upgraded map is written back only if something changed.
func NewChecklist(b Backend, sources SourceResolver, logger *slog.Logger) (*Checklist, error) {
	if logger == nil {
		logger = discardLogger()
	}
	c := &Checklist{backend: b, sources: sources, logger: logger}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads the checklist from the backend and migrates it. A link
// whose key cannot be parsed loses the key but keeps its need and source.
func (c *Checklist) Reload() error {
	var stored map[string]storedEntry
	ok, err := decodeBlob(c.backend, ChecklistKey, c.logger, &stored)
	if err != nil {
		return err
	}
	if !ok {
		// A failed decode can leave a partial map behind.
		stored = nil
	}

	raw := make(map[string]Entry, len(stored))
	repaired := false
	for id, se := range stored {
		e := Entry{ItemID: se.ItemID, Name: se.Name, Total: se.Total, Have: se.Have, Manual: max(0, se.Manual)}
		for _, sl := range se.Links {
			l := Link{Need: sl.Need, Source: sl.Source}
			if sl.Key != "" {
				key, err := catalog.ParseProgressKey(sl.Key)
				if err != nil {
					c.logger.Warn("dropping unreadable checklist link key", "item", id, "key", sl.Key, "error", err)
					repaired = true
				} else {
					l.Key = key
				}
			}
			e.Links = append(e.Links, l)
		}
		raw[id] = e
	}

	migrated := Migrate(raw, c.sources)
	c.entries = raw
	if migrated {
		c.logger.Info("upgraded saved checklist", "entries", len(raw))
	}
	if migrated || repaired {
		return c.persist()
	}
	return nil
}

// Migrate upgrades checklist entries in place and reports whether anything
// changed. Links without a source get one inferred from the catalog; entries
// whose total is not covered by links or manual additions get one keyless
// link per inferred source, each needing the uncovered amount. Have is
// clamped to [0, Total]. Running it on already migrated data changes
// nothing.
func Migrate(entries map[string]Entry, sources SourceResolver) bool {
	changed := false
	for id, e := range entries {
		next := e.clone()
		if next.ItemID == "" {
			next.ItemID = id
		}

		var inferred []string
		if sources != nil {
			inferred = sources.SourcesForItem(next.ItemID)
		}

		for i, l := range next.Links {
			if l.Source != "" {
				continue
			}
			label := ""
			if sources != nil {
				label, _ = sources.SourceForKey(l.Key)
			}
			if label == "" && len(inferred) > 0 {
				label = inferred[0]
			}
			if label == "" {
				label = UnknownSource
			}
			next.Links[i].Source = label
		}

		if uncovered := next.Total - next.Manual; uncovered > 0 && len(next.Links) == 0 {
			labels := inferred
			if len(labels) == 0 {
				labels = []string{UnknownSource}
			}
			for _, label := range labels {
				next.Links = append(next.Links, Link{Need: uncovered, Source: label})
			}
		}

		next.Have = clamp(next.Have, 0, max(0, next.Total))

		if !entryEqual(e, next) {
			entries[id] = next
			changed = true
		}
	}
	return changed
}

func entryEqual(a, b Entry) bool {
	return a.ItemID == b.ItemID && a.Name == b.Name && a.Total == b.Total &&
		a.Have == b.Have && a.Manual == b.Manual && slices.Equal(a.Links, b.Links)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Add records that quantity more of itemID is needed. A new entry starts
// with nothing gathered; an existing one grows by quantity and gains a new
// link even when key repeats. A zero key is a manual addition: the total
// grows but no link is recorded. Non-positive quantities are ignored.
func (c *Checklist) Add(itemID, name string, quantity int, key catalog.ProgressKey, source string) error {
	if quantity <= 0 {
		return nil
	}
	if source == "" && !key.IsZero() && c.sources != nil {
		source, _ = c.sources.SourceForKey(key)
	}

	prev, existed := c.entries[itemID]
	next := Entry{ItemID: itemID, Name: name}
	if existed {
		next = prev.clone()
		if name != "" {
			next.Name = name
		}
	}
	next.Total += quantity
	if key.IsZero() {
		next.Manual += quantity
	} else {
		next.Links = append(next.Links, Link{Key: key, Need: quantity, Source: source})
	}

	c.entries[itemID] = next
	if err := c.persist(); err != nil {
		c.restore(itemID, prev, existed)
		return err
	}
	return nil
}

// SetHave sets how many of the item the player has, clamped to
// [0, Total]. Unknown items are ignored without error.
func (c *Checklist) SetHave(itemID string, have int) error {
	prev, ok := c.entries[itemID]
	if !ok {
		return nil
	}
	next := prev.clone()
	next.Have = clamp(have, 0, next.Total)
	c.entries[itemID] = next
	if err := c.persist(); err != nil {
		c.entries[itemID] = prev
		return err
	}
	return nil
}

// IncrementHave adjusts the have count by delta.
func (c *Checklist) IncrementHave(itemID string, delta int) error {
	e, ok := c.entries[itemID]
	if !ok {
		return nil
	}
	return c.SetHave(itemID, e.Have+delta)
}

// Remove deletes the entry. Progress recorded through its links stays.
func (c *Checklist) Remove(itemID string) error {
	prev, ok := c.entries[itemID]
	if !ok {
		return nil
	}
	delete(c.entries, itemID)
	if err := c.persist(); err != nil {
		c.entries[itemID] = prev
		return err
	}
	return nil
}

// Clear empties the checklist.
func (c *Checklist) Clear() error {
	prev := c.entries
	c.entries = make(map[string]Entry)
	if err := c.persist(); err != nil {
		c.entries = prev
		return err
	}
	return nil
}

// Entry returns a copy of the entry for itemID.
func (c *Checklist) Entry(itemID string) (Entry, bool) {
	e, ok := c.entries[itemID]
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// Entries returns copies of all entries sorted by name, then item id.
func (c *Checklist) Entries() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out
}

// Len returns the number of entries.
func (c *Checklist) Len() int {
	return len(c.entries)
}

// Linked reports whether any entry already links key.
func (c *Checklist) Linked(key catalog.ProgressKey) bool {
	if key.IsZero() {
		return false
	}
	e, ok := c.entries[key.ItemID]
	if !ok {
		return false
	}
	for _, l := range e.Links {
		if l.Key == key {
			return true
		}
	}
	return false
}

// Snapshot returns a deep copy of the whole map.
func (c *Checklist) Snapshot() map[string]Entry {
	out := maps.Clone(c.entries)
	for id, e := range out {
		out[id] = e.clone()
	}
	return out
}

func (c *Checklist) restore(itemID string, prev Entry, existed bool) {
	if existed {
		c.entries[itemID] = prev
	} else {
		delete(c.entries, itemID)
	}
}

func (c *Checklist) persist() error {
	return encodeBlob(c.backend, ChecklistKey, c.entries)
}
