package content

import (
	"strings"
	"testing"
	"time"

	"cloudnote/internal/domain/models/notebook"

	"gopkg.in/yaml.v3"
)

func TestHTMLSanitizer_StripsScripts(t *testing.T) {
	s := NewHTMLSanitizer()

	tests := []struct {
		name    string
		input   string
		absent  string
		present string
	}{
		{"script tag", `<p>hi</p><script>alert(1)</script>`, "<script", "<p>hi</p>"},
		{"event handler", `<img src="x.png" onerror="alert(1)">`, "onerror", `src="x.png"`},
		{"javascript url", `<a href="javascript:alert(1)">x</a>`, "javascript:", "x"},
		{"formatting kept", `<h1>T</h1><strong>b</strong>`, "", "<strong>b</strong>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Sanitize(tt.input)
			if tt.absent != "" && strings.Contains(got, tt.absent) {
				t.Errorf("Sanitize(%q) = %q, still contains %q", tt.input, got, tt.absent)
			}
			if !strings.Contains(got, tt.present) {
				t.Errorf("Sanitize(%q) = %q, missing %q", tt.input, got, tt.present)
			}
		})
	}
}

func TestMarkdownExporter_Export(t *testing.T) {
	e := NewMarkdownExporter(NewHTMLSanitizer())
	ts := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	out, err := e.Export(&notebook.Note{
		Title:     "Trip",
		Content:   "<h1>Plan</h1><p>Pack <strong>light</strong></p>",
		Tags:      []string{"travel"},
		Type:      notebook.NoteTypeText,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	parts := strings.SplitN(string(out), "---\n", 3)
	if len(parts) != 3 {
		t.Fatalf("export has no frontmatter block: %q", out)
	}
	var meta map[string]interface{}
	if err := yaml.Unmarshal([]byte(parts[1]), &meta); err != nil {
		t.Fatalf("frontmatter is not YAML: %v", err)
	}
	body := parts[2]
	if meta["title"] != "Trip" {
		t.Errorf("title = %v, want Trip", meta["title"])
	}
	if meta["created"] != "2026-02-03T04:05:06Z" {
		t.Errorf("created = %v", meta["created"])
	}
	if !strings.Contains(body, "# Plan") || !strings.Contains(body, "**light**") {
		t.Errorf("body = %q, want markdown heading and bold", body)
	}
}
