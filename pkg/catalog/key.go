package catalog

import (
	"fmt"
	"strings"
)

const keySeparator = "|"

// ProgressKey identifies one requirement instance: an item needed by a
// specific stage of a specific entity. It serializes as
// "category|entity|stage|item", including when used as a JSON object key.
type ProgressKey struct {
	Category Category
	EntityID string
	StageID  string
	ItemID   string
}

// NewProgressKey builds the key for a requirement of the given entity stage.
func NewProgressKey(e Entity, stageID, itemID string) ProgressKey {
	return ProgressKey{
		Category: e.Category(),
		EntityID: e.EntityID(),
		StageID:  stageID,
		ItemID:   itemID,
	}
}

// IsZero reports whether k is the empty key. Manual checklist links carry it.
func (k ProgressKey) IsZero() bool {
	return k == ProgressKey{}
}

func (k ProgressKey) String() string {
	if k.IsZero() {
		return ""
	}
	return strings.Join([]string{string(k.Category), k.EntityID, k.StageID, k.ItemID}, keySeparator)
}

// ParseProgressKey parses the serialized form produced by String.
func ParseProgressKey(s string) (ProgressKey, error) {
	parts := strings.Split(s, keySeparator)
	if len(parts) != 4 {
		return ProgressKey{}, fmt.Errorf("progress key %q: want 4 %q-separated parts, got %d", s, keySeparator, len(parts))
	}
	for _, p := range parts {
		if p == "" {
			return ProgressKey{}, fmt.Errorf("progress key %q: empty part", s)
		}
	}
	return ProgressKey{
		Category: Category(parts[0]),
		EntityID: parts[1],
		StageID:  parts[2],
		ItemID:   parts[3],
	}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (k ProgressKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty string decodes
// to the zero key.
func (k *ProgressKey) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*k = ProgressKey{}
		return nil
	}
	parsed, err := ParseProgressKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
