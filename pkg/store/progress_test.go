package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/raidlog/pkg/catalog"
)

var (
	collarKey = catalog.ProgressKey{Category: catalog.CategoryWorkbench, EntityID: "scrappy-l2-0", StageID: "level-2", ItemID: "dog-collar"}
	alloyKey  = catalog.ProgressKey{Category: catalog.CategoryWorkbench, EntityID: "gunsmith-l2-2", StageID: "level-2", ItemID: "arc-alloy"}
)

func newTestProgress(t *testing.T, b *MemBackend) *Progress {
	t.Helper()
	p, err := NewProgress(b, nil)
	require.NoError(t, err)
	return p
}

func TestProgressSetAndValue(t *testing.T) {
	p := newTestProgress(t, &MemBackend{})

	assert.Equal(t, 0, p.Value(alloyKey))

	require.NoError(t, p.Set(alloyKey, 2))
	assert.Equal(t, 2, p.Value(alloyKey))

	require.NoError(t, p.Set(alloyKey, -4))
	assert.Equal(t, 0, p.Value(alloyKey), "negative values clamp to zero")
}

func TestProgressIncrementMax(t *testing.T) {
	p := newTestProgress(t, &MemBackend{})

	// Gunsmith Level 2 needs 3 ARC Alloy.
	require.NoError(t, p.Set(alloyKey, 2))
	assert.Equal(t, 2, p.Value(alloyKey))

	require.NoError(t, p.IncrementMax(alloyKey, 5, 3))
	assert.Equal(t, 3, p.Value(alloyKey))

	require.NoError(t, p.IncrementMax(alloyKey, -10, 3))
	assert.Equal(t, 0, p.Value(alloyKey))
}

func TestProgressIncrement(t *testing.T) {
	p := newTestProgress(t, &MemBackend{})

	require.NoError(t, p.Increment(collarKey, 4))
	require.NoError(t, p.Increment(collarKey, -1))
	assert.Equal(t, 3, p.Value(collarKey), "no upper bound without a limit")
}

func TestProgressClear(t *testing.T) {
	b := &MemBackend{}
	p := newTestProgress(t, b)
	require.NoError(t, p.Set(alloyKey, 1))
	require.NoError(t, p.Set(collarKey, 1))

	require.NoError(t, p.Clear())
	assert.Empty(t, p.Snapshot())
	assert.JSONEq(t, `{}`, string(b.Data))
}

func TestProgressPersistsEveryMutation(t *testing.T) {
	b := &MemBackend{}
	p := newTestProgress(t, b)

	require.NoError(t, p.Set(alloyKey, 1))
	require.NoError(t, p.Increment(alloyKey, 1))
	assert.Equal(t, 2, b.Writes)
	assert.JSONEq(t, `{"workbench|gunsmith-l2-2|level-2|arc-alloy":2}`, string(b.Data))
}

func TestProgressRoundTrip(t *testing.T) {
	b := &MemBackend{}
	p := newTestProgress(t, b)
	require.NoError(t, p.Set(alloyKey, 3))
	require.NoError(t, p.Set(collarKey, 1))

	reloaded := newTestProgress(t, b)
	assert.Equal(t, p.Snapshot(), reloaded.Snapshot())
}

func TestProgressCorruptDataStartsEmpty(t *testing.T) {
	p := newTestProgress(t, &MemBackend{Data: []byte("{not json")})
	assert.Empty(t, p.Snapshot())
}

func TestProgressDropsUnreadableKeys(t *testing.T) {
	b := &MemBackend{Data: []byte(`{
		"workbench|gunsmith-l2-2|level-2|arc-alloy": 2,
		"workbench|scrappy-l2-0|level-2|dog-collar": -3,
		"legacy-key": 5
	}`)}
	p := newTestProgress(t, b)

	assert.Equal(t, map[catalog.ProgressKey]int{alloyKey: 2, collarKey: 0}, p.Snapshot())
}

func TestProgressWriteFailureRollsBack(t *testing.T) {
	b := &MemBackend{}
	p := newTestProgress(t, b)
	require.NoError(t, p.Set(alloyKey, 1))

	boom := errors.New("quota exceeded")
	b.WriteErr = boom

	assert.ErrorIs(t, p.Set(alloyKey, 3), boom)
	assert.Equal(t, 1, p.Value(alloyKey))

	assert.ErrorIs(t, p.Set(collarKey, 1), boom)
	assert.NotContains(t, p.Snapshot(), collarKey)

	assert.ErrorIs(t, p.Clear(), boom)
	assert.Equal(t, 1, p.Value(alloyKey))
}

func TestProgressSetMany(t *testing.T) {
	b := &MemBackend{}
	p := newTestProgress(t, b)
	require.NoError(t, p.Set(alloyKey, 1))

	require.NoError(t, p.SetMany(map[catalog.ProgressKey]int{alloyKey: 3, collarKey: -1}))
	assert.Equal(t, map[catalog.ProgressKey]int{alloyKey: 3, collarKey: 0}, p.Snapshot())
	assert.Equal(t, 2, b.Writes)

	require.NoError(t, p.SetMany(nil))
	assert.Equal(t, 2, b.Writes)

	boom := errors.New("quota exceeded")
	b.WriteErr = boom
	assert.ErrorIs(t, p.SetMany(map[catalog.ProgressKey]int{alloyKey: 0, collarKey: 1}), boom)
	assert.Equal(t, map[catalog.ProgressKey]int{alloyKey: 3, collarKey: 0}, p.Snapshot())
}

func TestProgressReload(t *testing.T) {
	b := &MemBackend{}
	p := newTestProgress(t, b)
	require.NoError(t, p.Set(alloyKey, 1))

	b.Data = []byte(`{"workbench|gunsmith-l2-2|level-2|arc-alloy": 3}`)
	require.NoError(t, p.Reload())
	assert.Equal(t, 3, p.Value(alloyKey))
}
