// Package memory provides in-process implementations of the repository
// interfaces. Services are tested against it; it is not used in production.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"cloudnote/internal/domain/models"
	"cloudnote/internal/domain/models/notebook"
	"cloudnote/internal/domain/models/sharing"
	"cloudnote/internal/domain/repositories"
)

type record[T any] struct {
	value T
	seq   uint64
}

// Store holds every table behind one lock
type Store struct {
	mu            sync.Mutex
	txMu          sync.Mutex
	seq           uint64
	now           func() time.Time
	notes         map[string]record[notebook.Note]
	folders       map[string]record[notebook.Folder]
	globalNotes   map[string]record[sharing.GlobalNote]
	globalFolders map[string]record[sharing.GlobalFolder]
	users         map[string]record[models.UserProfile]
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		now:           time.Now,
		notes:         map[string]record[notebook.Note]{},
		folders:       map[string]record[notebook.Folder]{},
		globalNotes:   map[string]record[sharing.GlobalNote]{},
		globalFolders: map[string]record[sharing.GlobalFolder]{},
		users:         map[string]record[models.UserProfile]{},
	}
}

// nextSeq must be called with mu held
func (s *Store) nextSeq() uint64 {
	s.seq++
	return s.seq
}

// PutFolder stores a folder verbatim, keeping its ID. Used to build shapes
// the service layer refuses to create, such as parent cycles.
func (s *Store) PutFolder(folder notebook.Folder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders[folder.ID] = record[notebook.Folder]{value: folder, seq: s.nextSeq()}
}

// SetClock replaces the time source used for generated timestamps
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

type snapshot struct {
	notes         map[string]record[notebook.Note]
	folders       map[string]record[notebook.Folder]
	globalNotes   map[string]record[sharing.GlobalNote]
	globalFolders map[string]record[sharing.GlobalFolder]
	users         map[string]record[models.UserProfile]
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		notes:         maps.Clone(s.notes),
		folders:       maps.Clone(s.folders),
		globalNotes:   maps.Clone(s.globalNotes),
		globalFolders: maps.Clone(s.globalFolders),
		users:         maps.Clone(s.users),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = snap.notes
	s.folders = snap.folders
	s.globalNotes = snap.globalNotes
	s.globalFolders = snap.globalFolders
	s.users = snap.users
}

type txKey struct{}

// TransactionManager serializes transactions and restores the store when one fails
type TransactionManager struct {
	store *Store
}

// NewTransactionManager creates a transaction manager over store
func NewTransactionManager(store *Store) repositories.TransactionManager {
	return &TransactionManager{store: store}
}

// ExecTx runs fn; any error rolls every table back to its state before fn
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	tm.store.txMu.Lock()
	defer tm.store.txMu.Unlock()

	snap := tm.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		tm.store.restore(snap)
		return err
	}
	return nil
}
