package notebook

import "time"

// NoteType discriminates plain rich-text notes from PDF attachments
type NoteType string

const (
	NoteTypeText NoteType = "text"
	NoteTypePDF  NoteType = "pdf"
)

// Valid reports whether t is a known note type
func (t NoteType) Valid() bool {
	return t == NoteTypeText || t == NoteTypePDF
}

type Note struct {
	ID         string     `json:"id" db:"id"`
	OwnerID    string     `json:"ownerId" db:"owner_id"`
	Title      string     `json:"title" db:"title"`
	Content    string     `json:"content" db:"content"`     // Sanitized rich-text HTML
	FolderID   *string    `json:"folderId" db:"folder_id"` // NULL = root level
	Tags       []string   `json:"tags" db:"tags"`
	IsArchived bool       `json:"isArchived" db:"is_archived"`
	IsFavorite bool       `json:"isFavorite" db:"is_favorite"`
	IsGlobal   bool       `json:"isGlobal" db:"is_global"`
	Type       NoteType   `json:"type" db:"type"`
	FileURL    *string    `json:"fileUrl" db:"file_url"`
	FileName   *string    `json:"fileName" db:"file_name"`
	ShareToken *string    `json:"shareToken,omitempty" db:"share_token"`
	SharedAt   *time.Time `json:"sharedAt,omitempty" db:"shared_at"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
}

// InFolder reports whether the note lives directly in folderID
func (n *Note) InFolder(folderID string) bool {
	return n.FolderID != nil && *n.FolderID == folderID
}

// NoteSortField selects the timestamp notes are ordered by (newest first)
type NoteSortField string

const (
	SortByUpdatedAt NoteSortField = "updatedAt"
	SortByCreatedAt NoteSortField = "createdAt"
)

// NoteFilter narrows a listing of one owner's notes.
// FolderID nil means root-level notes only.
type NoteFilter struct {
	OwnerID    string
	FolderID   *string
	IsArchived bool
	IsFavorite *bool
	Tags       []string // any-match
	From       *time.Time
	To         *time.Time
	SortBy     NoteSortField
	Limit      int
}
