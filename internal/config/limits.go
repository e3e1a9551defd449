package config

const (
	// MaxNoteTitleLength is the maximum length for note titles.
	MaxNoteTitleLength = 200

	// MaxNoteContentBytes caps the stored rich-text markup of a single note (1MB).
	MaxNoteContentBytes = 1 << 20

	// MaxFileURLBytes caps fileUrl, which may carry a base64 data URL for small PDFs.
	MaxFileURLBytes = 1 << 20

	// MaxTags is the maximum number of tags on a note.
	MaxTags = 20

	// MaxTagLength is the maximum length of a single tag.
	MaxTagLength = 30

	// MaxFolderNameLength is the maximum length for folder names.
	MaxFolderNameLength = 100

	// DefaultNoteListLimit applies when GET /api/notes has no limit.
	DefaultNoteListLimit = 100

	// DefaultGlobalFeedLimit applies when GET /api/global has no limit.
	DefaultGlobalFeedLimit = 20

	// MaxUploadBytes is the largest PDF accepted by the upload endpoint (10MB).
	MaxUploadBytes = 10 << 20
)
