package memory

import (
	"context"
	"sort"
	"time"

	"cloudnote/internal/domain"
	"cloudnote/internal/domain/models/sharing"
	sharingRepo "cloudnote/internal/domain/repositories/sharing"

	"github.com/google/uuid"
)

// GlobalNoteRepository is an in-memory GlobalNoteRepository
type GlobalNoteRepository struct {
	store *Store
}

// NewGlobalNoteRepository creates a global note repository backed by store
func NewGlobalNoteRepository(store *Store) sharingRepo.GlobalNoteRepository {
	return &GlobalNoteRepository{store: store}
}

func (r *GlobalNoteRepository) Create(ctx context.Context, note *sharing.GlobalNote) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	note.ID = uuid.NewString()
	stamp(&note.CreatedAt, &note.UpdatedAt, r.store.now())
	r.store.globalNotes[note.ID] = record[sharing.GlobalNote]{value: *note, seq: r.store.nextSeq()}
	return nil
}

func (r *GlobalNoteRepository) GetByID(ctx context.Context, id string) (*sharing.GlobalNote, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.globalNotes[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "Global note not found"}
	}
	note := rec.value
	return &note, nil
}

func (r *GlobalNoteRepository) GetByShareToken(ctx context.Context, token string) (*sharing.GlobalNote, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, rec := range r.store.globalNotes {
		if rec.value.ShareToken == token {
			note := rec.value
			return &note, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "Global note not found"}
}

func (r *GlobalNoteRepository) ListByOriginal(ctx context.Context, noteID, authorID string) ([]sharing.GlobalNote, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var recs []record[sharing.GlobalNote]
	for _, rec := range r.store.globalNotes {
		if rec.value.OriginalNoteID == noteID && rec.value.AuthorID == authorID {
			recs = append(recs, rec)
		}
	}
	sortOldestFirst(recs, func(n sharing.GlobalNote) time.Time { return n.CreatedAt })
	return values(recs), nil
}

func (r *GlobalNoteRepository) ListRecent(ctx context.Context, limit int) ([]sharing.GlobalNote, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	recs := make([]record[sharing.GlobalNote], 0, len(r.store.globalNotes))
	for _, rec := range r.store.globalNotes {
		recs = append(recs, rec)
	}
	sortNewestFirst(recs, func(n sharing.GlobalNote) time.Time { return n.CreatedAt })
	return values(truncate(recs, limit)), nil
}

func (r *GlobalNoteRepository) UpdateContent(ctx context.Context, note *sharing.GlobalNote) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.globalNotes[note.ID]
	if !ok {
		return &domain.NotFoundError{Message: "Global note not found"}
	}
	rec.value.Title = note.Title
	rec.value.Content = note.Content
	rec.value.Type = note.Type
	rec.value.FileURL = note.FileURL
	rec.value.FileName = note.FileName
	rec.value.UpdatedAt = r.store.now()
	note.UpdatedAt = rec.value.UpdatedAt
	r.store.globalNotes[note.ID] = rec
	return nil
}

func (r *GlobalNoteRepository) UpdateAuthor(ctx context.Context, authorID, name string, photoURL *string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	updated := 0
	now := r.store.now()
	for id, rec := range r.store.globalNotes {
		if rec.value.AuthorID == authorID {
			rec.value.AuthorName = name
			rec.value.AuthorPhotoURL = photoURL
			rec.value.UpdatedAt = now
			r.store.globalNotes[id] = rec
			updated++
		}
	}
	return updated, nil
}

func (r *GlobalNoteRepository) DeleteByOriginal(ctx context.Context, noteID, authorID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	deleted := 0
	for id, rec := range r.store.globalNotes {
		if rec.value.OriginalNoteID == noteID && rec.value.AuthorID == authorID {
			delete(r.store.globalNotes, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *GlobalNoteRepository) Count(ctx context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return len(r.store.globalNotes), nil
}

// GlobalFolderRepository is an in-memory GlobalFolderRepository
type GlobalFolderRepository struct {
	store *Store
}

// NewGlobalFolderRepository creates a global folder repository backed by store
func NewGlobalFolderRepository(store *Store) sharingRepo.GlobalFolderRepository {
	return &GlobalFolderRepository{store: store}
}

// Create enforces one snapshot per (original folder, author) like the unique index does
func (r *GlobalFolderRepository) Create(ctx context.Context, folder *sharing.GlobalFolder) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, rec := range r.store.globalFolders {
		if rec.value.OriginalFolderID == folder.OriginalFolderID && rec.value.AuthorID == folder.AuthorID {
			return &domain.AlreadySharedError{Message: "Folder already shared to global", SnapshotID: rec.value.ID}
		}
	}

	folder.ID = uuid.NewString()
	stamp(&folder.CreatedAt, &folder.UpdatedAt, r.store.now())
	r.store.globalFolders[folder.ID] = record[sharing.GlobalFolder]{value: *folder, seq: r.store.nextSeq()}
	return nil
}

func (r *GlobalFolderRepository) GetByID(ctx context.Context, id string) (*sharing.GlobalFolder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.globalFolders[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "Global folder not found"}
	}
	folder := rec.value
	return &folder, nil
}

func (r *GlobalFolderRepository) GetByShareToken(ctx context.Context, token string) (*sharing.GlobalFolder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, rec := range r.store.globalFolders {
		if rec.value.ShareToken == token {
			folder := rec.value
			return &folder, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "Global folder not found"}
}

func (r *GlobalFolderRepository) ListByOriginal(ctx context.Context, folderID, authorID string) ([]sharing.GlobalFolder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var recs []record[sharing.GlobalFolder]
	for _, rec := range r.store.globalFolders {
		if rec.value.OriginalFolderID == folderID && rec.value.AuthorID == authorID {
			recs = append(recs, rec)
		}
	}
	sortOldestFirst(recs, func(f sharing.GlobalFolder) time.Time { return f.CreatedAt })
	return values(recs), nil
}

func (r *GlobalFolderRepository) ExistsForFolder(ctx context.Context, folderID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, rec := range r.store.globalFolders {
		if rec.value.OriginalFolderID == folderID {
			return true, nil
		}
	}
	return false, nil
}

func (r *GlobalFolderRepository) ListRecent(ctx context.Context, limit int) ([]sharing.GlobalFolder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	recs := make([]record[sharing.GlobalFolder], 0, len(r.store.globalFolders))
	for _, rec := range r.store.globalFolders {
		recs = append(recs, rec)
	}
	sortNewestFirst(recs, func(f sharing.GlobalFolder) time.Time { return f.CreatedAt })
	return values(truncate(recs, limit)), nil
}

func (r *GlobalFolderRepository) UpdateSnapshot(ctx context.Context, folder *sharing.GlobalFolder) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.globalFolders[folder.ID]
	if !ok {
		return &domain.NotFoundError{Message: "Global folder not found"}
	}
	rec.value.Name = folder.Name
	rec.value.NoteCount = folder.NoteCount
	rec.value.Structure = folder.Structure
	rec.value.UpdatedAt = r.store.now()
	folder.UpdatedAt = rec.value.UpdatedAt
	r.store.globalFolders[folder.ID] = rec
	return nil
}

func (r *GlobalFolderRepository) UpdateAuthor(ctx context.Context, authorID, name string, photoURL *string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	updated := 0
	now := r.store.now()
	for id, rec := range r.store.globalFolders {
		if rec.value.AuthorID == authorID {
			rec.value.AuthorName = name
			rec.value.AuthorPhotoURL = photoURL
			rec.value.UpdatedAt = now
			r.store.globalFolders[id] = rec
			updated++
		}
	}
	return updated, nil
}

func (r *GlobalFolderRepository) DeleteByOriginal(ctx context.Context, folderID, authorID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	deleted := 0
	for id, rec := range r.store.globalFolders {
		if rec.value.OriginalFolderID == folderID && rec.value.AuthorID == authorID {
			delete(r.store.globalFolders, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *GlobalFolderRepository) Count(ctx context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return len(r.store.globalFolders), nil
}

// stamp mirrors the NOW() defaults the SQL repositories write on insert;
// caller-supplied timestamps are ignored
func stamp(created, updated *time.Time, now time.Time) {
	*created = now
	*updated = now
}

func sortNewestFirst[T any](recs []record[T], ts func(T) time.Time) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := ts(recs[i].value), ts(recs[j].value)
		if !a.Equal(b) {
			return a.After(b)
		}
		return recs[i].seq > recs[j].seq
	})
}

func truncate[T any](recs []record[T], limit int) []record[T] {
	if limit > 0 && len(recs) > limit {
		return recs[:limit]
	}
	return recs
}

func values[T any](recs []record[T]) []T {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.value)
	}
	return out
}
