package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/raidlog/pkg/catalog"
)

func setupTestStore(t *testing.T, kind string) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), kind)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return cat
}

func TestNewStoreFile(t *testing.T) {
	s := setupTestStore(t, "")
	assert.Equal(t, KindFile, s.Kind)
	assert.Equal(t, []string{
		filepath.Join(s.Root, "progress-v1.json"),
		filepath.Join(s.Root, "checklist-v1.json"),
	}, s.WatchPaths())
}

func TestNewStoreSQLite(t *testing.T) {
	s := setupTestStore(t, KindSQLite)
	assert.Equal(t, KindSQLite, s.Kind)

	_, err := os.Stat(filepath.Join(s.Root, "raidlog.db"))
	assert.NoError(t, err)
	assert.Contains(t, s.WatchPaths(), filepath.Join(s.Root, "raidlog.db"))
}

func TestNewStoreUnknownKind(t *testing.T) {
	_, err := NewStore(t.TempDir(), "postgres")
	assert.ErrorContains(t, err, `unknown storage backend "postgres"`)
}

func TestNewStoreCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "raidlog")
	s, err := NewStore(root, KindFile)
	require.NoError(t, err)
	defer s.Close()

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStoreBackendsAreIndependent(t *testing.T) {
	for _, kind := range []string{KindFile, KindSQLite} {
		t.Run(kind, func(t *testing.T) {
			s := setupTestStore(t, kind)
			require.NoError(t, s.ProgressBackend().Write([]byte(`{"a":1}`)))

			data, err := s.ChecklistBackend().Read()
			require.NoError(t, err)
			assert.Nil(t, data)

			data, err = s.ProgressBackend().Read()
			require.NoError(t, err)
			assert.JSONEq(t, `{"a":1}`, string(data))
		})
	}
}

func TestStateSurvivesReopen(t *testing.T) {
	for _, kind := range []string{KindFile, KindSQLite} {
		t.Run(kind, func(t *testing.T) {
			root := t.TempDir()
			key := catalog.ProgressKey{Category: catalog.CategoryWorkbench, EntityID: "scrappy-l2-0", StageID: "level-2", ItemID: "dog-collar"}

			s, err := NewStore(root, kind)
			require.NoError(t, err)
			p, err := NewProgress(s.ProgressBackend(), nil)
			require.NoError(t, err)
			require.NoError(t, p.Set(key, 1))
			require.NoError(t, s.Close())

			s, err = NewStore(root, kind)
			require.NoError(t, err)
			defer s.Close()
			p, err = NewProgress(s.ProgressBackend(), nil)
			require.NoError(t, err)
			assert.Equal(t, 1, p.Value(key))
		})
	}
}
