package tracker

import (
	"fmt"

	"github.com/stefanpenner/raidlog/pkg/catalog"
)

// SyncChecklistToProgress distributes have across the progress keys linked
// from the item's checklist entry. Links are filled in insertion order: each
// takes min(need, remaining) and every link after have runs out is set to 0,
// so lowering have retracts progress from the most recently added links
// first. Keyless links consume their share without writing anything.
//
// All values are written together: a failed write leaves progress as it
// was. Callers must run this after every change to an entry's have count.
// Unknown items are ignored.
func (t *Tracker) SyncChecklistToProgress(itemID string, have int) error {
	entry, ok := t.Checklist.Entry(itemID)
	if !ok {
		return nil
	}

	// A repeated key takes the value of its last link.
	values := make(map[catalog.ProgressKey]int, len(entry.Links))
	remaining := have
	for _, link := range entry.Links {
		use := 0
		if remaining > 0 {
			use = min(max(0, link.Need), remaining)
			remaining -= use
		}
		if link.Key.IsZero() {
			continue
		}
		values[link.Key] = use
	}
	if err := t.Progress.SetMany(values); err != nil {
		return fmt.Errorf("syncing %s to progress: %w", itemID, err)
	}

	t.logger.Debug("synced checklist to progress", "item", itemID, "have", have, "links", len(entry.Links))
	return nil
}
