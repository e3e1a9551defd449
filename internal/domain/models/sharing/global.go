package sharing

import (
	"encoding/json"
	"time"

	"cloudnote/internal/domain/models/notebook"
)

// Author is the display metadata copied onto every snapshot at share time
type Author struct {
	AuthorID       string  `json:"authorId" db:"author_id"`
	AuthorName     string  `json:"authorName" db:"author_name"`
	AuthorPhotoURL *string `json:"authorPhotoURL" db:"author_photo_url"`
}

// GlobalNote is a denormalized copy of a note published to the global feed
type GlobalNote struct {
	ID             string            `json:"id" db:"id"`
	OriginalNoteID string            `json:"originalNoteId" db:"original_note_id"`
	Title          string            `json:"title" db:"title"`
	Content        string            `json:"content" db:"content"`
	Type           notebook.NoteType `json:"type" db:"type"`
	FileURL        *string           `json:"fileUrl" db:"file_url"`
	FileName       *string           `json:"fileName" db:"file_name"`
	Author
	ShareToken string    `json:"shareToken" db:"share_token"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// ApplyNote overwrites the projected fields from the live note
func (g *GlobalNote) ApplyNote(note *notebook.Note) {
	g.Title = note.Title
	g.Content = note.Content
	g.Type = note.Type
	g.FileURL = note.FileURL
	g.FileName = note.FileName
}

// GlobalFolder is a published folder with its subtree frozen into Structure
type GlobalFolder struct {
	ID               string                   `json:"id" db:"id"`
	OriginalFolderID string                   `json:"originalFolderId" db:"original_folder_id"`
	Name             string                   `json:"name" db:"name"`
	NoteCount        int                      `json:"noteCount" db:"note_count"`
	Structure        notebook.FolderStructure `json:"structure" db:"structure"`
	Author
	ShareToken string    `json:"shareToken" db:"share_token"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// ShareResult is returned by the publish operations
type ShareResult struct {
	ID         string `json:"id"`
	ShareToken string `json:"shareToken"`
	Message    string `json:"message"`
}

// FeedItemType tags entries of the merged global feed
type FeedItemType string

const (
	FeedItemNote   FeedItemType = "note"
	FeedItemFolder FeedItemType = "folder"
)

// FeedItem is one entry of the global feed; exactly one of Note/Folder is set.
type FeedItem struct {
	ItemType FeedItemType
	Note     *GlobalNote
	Folder   *GlobalFolder
}

// CreatedAt returns the publish time of the wrapped snapshot
func (f FeedItem) CreatedAt() time.Time {
	if f.Note != nil {
		return f.Note.CreatedAt
	}
	if f.Folder != nil {
		return f.Folder.CreatedAt
	}
	return time.Time{}
}

// MarshalJSON flattens the wrapped snapshot and adds "itemType"
func (f FeedItem) MarshalJSON() ([]byte, error) {
	var inner any = f.Note
	if f.ItemType == FeedItemFolder {
		inner = f.Folder
	}

	raw, err := json.Marshal(inner)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}

	itemType, err := json.Marshal(f.ItemType)
	if err != nil {
		return nil, err
	}
	fields["itemType"] = itemType

	return json.Marshal(fields)
}
