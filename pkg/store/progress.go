package store

import (
	"log/slog"
	"maps"

	"github.com/stefanpenner/raidlog/pkg/catalog"
)

// Progress is the ledger of how much of each requirement instance the player
// has satisfied. Values are never negative. The store does not know
// requirement quantities; callers enforce upper bounds.
//
// Every mutation rewrites the whole map. If the write fails the in-memory
// change is rolled back and the error returned.
type Progress struct {
	backend Backend
	logger  *slog.Logger
	values  map[catalog.ProgressKey]int
}

// NewProgress loads the progress map from b. Corrupt stored data yields an
// empty map.
func NewProgress(b Backend, logger *slog.Logger) (*Progress, error) {
	if logger == nil {
		logger = discardLogger()
	}
	p := &Progress{backend: b, logger: logger}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Reload re-reads the map from the backend, discarding in-memory state.
func (p *Progress) Reload() error {
	var raw map[string]int
	ok, err := decodeBlob(p.backend, ProgressKey, p.logger, &raw)
	if err != nil {
		return err
	}

	values := make(map[catalog.ProgressKey]int, len(raw))
	if ok {
		for s, v := range raw {
			key, err := catalog.ParseProgressKey(s)
			if err != nil {
				p.logger.Warn("dropping unreadable progress entry", "key", s, "error", err)
				continue
			}
			values[key] = max(0, v)
		}
	}
	p.values = values
	return nil
}

// Value returns the recorded count for key, 0 if unseen.
func (p *Progress) Value(key catalog.ProgressKey) int {
	return p.values[key]
}

// Set stores max(0, value) for key.
func (p *Progress) Set(key catalog.ProgressKey, value int) error {
	prev, had := p.values[key]
	p.values[key] = max(0, value)
	if err := p.persist(); err != nil {
		if had {
			p.values[key] = prev
		} else {
			delete(p.values, key)
		}
		return err
	}
	return nil
}

// SetMany stores max(0, v) for every key in one write. If the write fails
// none of the values change.
func (p *Progress) SetMany(values map[catalog.ProgressKey]int) error {
	if len(values) == 0 {
		return nil
	}
	prev := maps.Clone(p.values)
	for key, v := range values {
		p.values[key] = max(0, v)
	}
	if err := p.persist(); err != nil {
		p.values = prev
		return err
	}
	return nil
}

// Increment adds delta to the current value.
func (p *Progress) Increment(key catalog.ProgressKey, delta int) error {
	return p.Set(key, p.values[key]+delta)
}

// IncrementMax adds delta to the current value, capping the result at limit.
func (p *Progress) IncrementMax(key catalog.ProgressKey, delta, limit int) error {
	return p.Set(key, min(limit, p.values[key]+delta))
}

// Clear empties the whole map.
func (p *Progress) Clear() error {
	prev := p.values
	p.values = make(map[catalog.ProgressKey]int)
	if err := p.persist(); err != nil {
		p.values = prev
		return err
	}
	return nil
}

// Snapshot returns a copy of the whole map.
func (p *Progress) Snapshot() map[catalog.ProgressKey]int {
	return maps.Clone(p.values)
}

func (p *Progress) persist() error {
	return encodeBlob(p.backend, ProgressKey, p.values)
}
