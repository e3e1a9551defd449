package content

import (
	"fmt"
	"time"

	"cloudnote/internal/domain/models/notebook"
	"cloudnote/internal/utils"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// MarkdownExporter renders notes as Markdown files with YAML frontmatter
type MarkdownExporter struct {
	sanitizer *HTMLSanitizer
	converter *md.Converter
}

// NewMarkdownExporter creates an exporter. HTML is sanitized before conversion.
func NewMarkdownExporter(sanitizer *HTMLSanitizer) *MarkdownExporter {
	return &MarkdownExporter{
		sanitizer: sanitizer,
		converter: md.NewConverter("", true, nil),
	}
}

type noteFrontmatter struct {
	Title     string   `yaml:"title"`
	Tags      []string `yaml:"tags,omitempty"`
	Type      string   `yaml:"type"`
	FileName  string   `yaml:"file,omitempty"`
	Favorite  bool     `yaml:"favorite,omitempty"`
	Archived  bool     `yaml:"archived,omitempty"`
	CreatedAt string   `yaml:"created"`
	UpdatedAt string   `yaml:"updated"`
}

// Export converts the note body to Markdown and prefixes its metadata
func (e *MarkdownExporter) Export(note *notebook.Note) ([]byte, error) {
	body, err := e.converter.ConvertString(e.sanitizer.Sanitize(note.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}

	meta := noteFrontmatter{
		Title:     note.Title,
		Tags:      note.Tags,
		Type:      string(note.Type),
		Favorite:  note.IsFavorite,
		Archived:  note.IsArchived,
		CreatedAt: note.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: note.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if note.FileName != nil {
		meta.FileName = *note.FileName
	}

	return utils.RenderFrontmatter(meta, body)
}
