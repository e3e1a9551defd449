package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"cloudnote/internal/config"
	"cloudnote/internal/domain"
	"cloudnote/internal/domain/models/notebook"
	notebookRepo "cloudnote/internal/domain/repositories/notebook"

	"github.com/google/uuid"
)

// NoteRepository is an in-memory NoteRepository
type NoteRepository struct {
	store *Store
}

// NewNoteRepository creates a note repository backed by store
func NewNoteRepository(store *Store) notebookRepo.NoteRepository {
	return &NoteRepository{store: store}
}

func (r *NoteRepository) Create(ctx context.Context, note *notebook.Note) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	note.ID = uuid.NewString()
	stamp(&note.CreatedAt, &note.UpdatedAt, r.store.now())
	if note.Tags == nil {
		note.Tags = []string{}
	}
	r.store.notes[note.ID] = record[notebook.Note]{value: cloneNote(*note), seq: r.store.nextSeq()}
	return nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (*notebook.Note, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.notes[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "Note not found"}
	}
	note := cloneNote(rec.value)
	return &note, nil
}

func (r *NoteRepository) GetByShareToken(ctx context.Context, token string) (*notebook.Note, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, rec := range r.store.notes {
		if rec.value.ShareToken != nil && *rec.value.ShareToken == token {
			note := cloneNote(rec.value)
			return &note, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "Shared note not found"}
}

func (r *NoteRepository) List(ctx context.Context, filter *notebook.NoteFilter) ([]notebook.Note, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var recs []record[notebook.Note]
	for _, rec := range r.store.notes {
		if matchesFilter(&rec.value, filter) {
			recs = append(recs, rec)
		}
	}

	byCreated := filter.SortBy == notebook.SortByCreatedAt
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i].value.UpdatedAt, recs[j].value.UpdatedAt
		if byCreated {
			a, b = recs[i].value.CreatedAt, recs[j].value.CreatedAt
		}
		if !a.Equal(b) {
			return a.After(b)
		}
		return recs[i].seq > recs[j].seq
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = config.DefaultNoteListLimit
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}

	notes := make([]notebook.Note, 0, len(recs))
	for _, rec := range recs {
		notes = append(notes, cloneNote(rec.value))
	}
	return notes, nil
}

func matchesFilter(n *notebook.Note, f *notebook.NoteFilter) bool {
	if n.OwnerID != f.OwnerID || n.IsArchived != f.IsArchived {
		return false
	}
	if f.FolderID == nil {
		if n.FolderID != nil {
			return false
		}
	} else if !n.InFolder(*f.FolderID) {
		return false
	}
	if f.IsFavorite != nil && n.IsFavorite != *f.IsFavorite {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, func(t string) bool { return slices.Contains(n.Tags, t) }) {
		return false
	}
	if f.From != nil && n.UpdatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && n.UpdatedAt.After(*f.To) {
		return false
	}
	return true
}

func (r *NoteRepository) ListByFolder(ctx context.Context, folderID, ownerID string) ([]notebook.Note, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var recs []record[notebook.Note]
	for _, rec := range r.store.notes {
		if rec.value.InFolder(folderID) && (ownerID == "" || rec.value.OwnerID == ownerID) {
			recs = append(recs, rec)
		}
	}
	sortOldestFirst(recs, func(n notebook.Note) time.Time { return n.CreatedAt })

	notes := make([]notebook.Note, 0, len(recs))
	for _, rec := range recs {
		notes = append(notes, cloneNote(rec.value))
	}
	return notes, nil
}

func (r *NoteRepository) Update(ctx context.Context, note *notebook.Note) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.notes[note.ID]
	if !ok {
		return &domain.NotFoundError{Message: "Note not found"}
	}
	updated := rec.value
	updated.Title = note.Title
	updated.Content = note.Content
	updated.FolderID = note.FolderID
	updated.Tags = note.Tags
	if updated.Tags == nil {
		updated.Tags = []string{}
	}
	updated.IsArchived = note.IsArchived
	updated.IsFavorite = note.IsFavorite
	updated.IsGlobal = note.IsGlobal
	updated.Type = note.Type
	updated.FileURL = note.FileURL
	updated.FileName = note.FileName
	updated.UpdatedAt = r.store.now()
	note.UpdatedAt = updated.UpdatedAt
	rec.value = cloneNote(updated)
	r.store.notes[note.ID] = rec
	return nil
}

func (r *NoteRepository) SetShareToken(ctx context.Context, id, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.notes[id]
	if !ok {
		return &domain.NotFoundError{Message: "Note not found"}
	}
	now := r.store.now()
	rec.value.ShareToken = &token
	rec.value.SharedAt = &now
	r.store.notes[id] = rec
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.notes[id]; !ok {
		return &domain.NotFoundError{Message: "Note not found"}
	}
	delete(r.store.notes, id)
	return nil
}

func (r *NoteRepository) DeleteByFolder(ctx context.Context, folderID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	deleted := 0
	for id, rec := range r.store.notes {
		if rec.value.InFolder(folderID) {
			delete(r.store.notes, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *NoteRepository) Count(ctx context.Context, ownerID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	count := 0
	for _, rec := range r.store.notes {
		if ownerID == "" || rec.value.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

// FolderRepository is an in-memory FolderRepository
type FolderRepository struct {
	store *Store
}

// NewFolderRepository creates a folder repository backed by store
func NewFolderRepository(store *Store) notebookRepo.FolderRepository {
	return &FolderRepository{store: store}
}

func (r *FolderRepository) Create(ctx context.Context, folder *notebook.Folder) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	folder.ID = uuid.NewString()
	stamp(&folder.CreatedAt, &folder.UpdatedAt, r.store.now())
	r.store.folders[folder.ID] = record[notebook.Folder]{value: *folder, seq: r.store.nextSeq()}
	return nil
}

func (r *FolderRepository) GetByID(ctx context.Context, id string) (*notebook.Folder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.folders[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "Folder not found"}
	}
	folder := rec.value
	return &folder, nil
}

func (r *FolderRepository) GetByShareToken(ctx context.Context, token string) (*notebook.Folder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, rec := range r.store.folders {
		if rec.value.ShareToken != nil && *rec.value.ShareToken == token {
			folder := rec.value
			return &folder, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "Shared folder not found"}
}

func (r *FolderRepository) ListChildren(ctx context.Context, parentID *string, ownerID string) ([]notebook.Folder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var recs []record[notebook.Folder]
	for _, rec := range r.store.folders {
		f := rec.value
		if ownerID != "" && f.OwnerID != ownerID {
			continue
		}
		if parentID == nil && f.ParentID != nil {
			continue
		}
		if parentID != nil && (f.ParentID == nil || *f.ParentID != *parentID) {
			continue
		}
		recs = append(recs, rec)
	}
	sortOldestFirst(recs, func(f notebook.Folder) time.Time { return f.CreatedAt })

	folders := make([]notebook.Folder, 0, len(recs))
	for _, rec := range recs {
		folders = append(folders, rec.value)
	}
	return folders, nil
}

func (r *FolderRepository) Update(ctx context.Context, folder *notebook.Folder) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.folders[folder.ID]
	if !ok {
		return &domain.NotFoundError{Message: "Folder not found"}
	}
	rec.value.Name = folder.Name
	rec.value.ParentID = folder.ParentID
	rec.value.UpdatedAt = r.store.now()
	folder.UpdatedAt = rec.value.UpdatedAt
	r.store.folders[folder.ID] = rec
	return nil
}

func (r *FolderRepository) SetShareToken(ctx context.Context, id, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.folders[id]
	if !ok {
		return &domain.NotFoundError{Message: "Folder not found"}
	}
	now := r.store.now()
	rec.value.ShareToken = &token
	rec.value.SharedAt = &now
	r.store.folders[id] = rec
	return nil
}

func (r *FolderRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.folders[id]; !ok {
		return &domain.NotFoundError{Message: "Folder not found"}
	}
	delete(r.store.folders, id)
	return nil
}

func (r *FolderRepository) Count(ctx context.Context, ownerID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	count := 0
	for _, rec := range r.store.folders {
		if ownerID == "" || rec.value.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func sortOldestFirst[T any](recs []record[T], ts func(T) time.Time) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := ts(recs[i].value), ts(recs[j].value)
		if !a.Equal(b) {
			return a.Before(b)
		}
		return recs[i].seq < recs[j].seq
	})
}

func cloneNote(n notebook.Note) notebook.Note {
	n.Tags = slices.Clone(n.Tags)
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return n
}
