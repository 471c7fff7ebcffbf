package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Backend kinds accepted by NewStore.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// Storage keys for the two persisted blobs. The file backend uses them as
// file names, the SQLite backend as row keys.
const (
	ProgressKey  = "progress-v1"
	ChecklistKey = "checklist-v1"
)

const dbFile = "raidlog.db"

// Store owns the data directory and the backends for the progress and
// checklist blobs.
type Store struct {
	Root string // e.g., ~/.local/share/raidlog
	Kind string

	db        *sql.DB
	progress  Backend
	checklist Backend
}

// NewStore creates a Store rooted at the given directory using the named
// backend kind. It creates the directory if it doesn't exist.
func NewStore(root, kind string) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	s := &Store{Root: root, Kind: kind}
	switch kind {
	case KindFile, "":
		s.Kind = KindFile
		s.progress = NewFileBackend(filepath.Join(root, ProgressKey+".json"))
		s.checklist = NewFileBackend(filepath.Join(root, ChecklistKey+".json"))
	case KindSQLite:
		db, err := OpenSQLite(filepath.Join(root, dbFile))
		if err != nil {
			return nil, err
		}
		s.db = db
		s.progress = NewSQLiteBackend(db, ProgressKey)
		s.checklist = NewSQLiteBackend(db, ChecklistKey)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (use %s or %s)", kind, KindFile, KindSQLite)
	}
	return s, nil
}

// ProgressBackend returns the backend holding the progress map.
func (s *Store) ProgressBackend() Backend { return s.progress }

// ChecklistBackend returns the backend holding the checklist map.
func (s *Store) ChecklistBackend() Backend { return s.checklist }

// WatchPaths lists the files whose changes mean the state was edited by
// another process.
func (s *Store) WatchPaths() []string {
	if s.Kind == KindSQLite {
		return []string{filepath.Join(s.Root, dbFile), filepath.Join(s.Root, dbFile+"-wal")}
	}
	return []string{
		filepath.Join(s.Root, ProgressKey+".json"),
		filepath.Join(s.Root, ChecklistKey+".json"),
	}
}

// Close releases the database handle, if any.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// decodeBlob reads and decodes a stored blob into v. Unparseable data is
// logged and left undecoded so the caller starts from an empty map.
func decodeBlob(b Backend, name string, logger *slog.Logger, v any) (bool, error) {
	data, err := b.Read()
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("could not parse saved state, starting empty", "store", name, "error", err)
		return false, nil
	}
	return true, nil
}

func encodeBlob(b Backend, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := b.Write(data); err != nil {
		return fmt.Errorf("saving %s: %w", name, err)
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
