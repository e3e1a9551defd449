package utils

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type exportMeta struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags"`
}

func TestRenderFrontmatter(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantBody string
	}{
		{"body gains trailing newline", "# Groceries\n\n- milk", "# Groceries\n\n- milk\n"},
		{"newline kept", "# Groceries\n", "# Groceries\n"},
		{"empty body", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := RenderFrontmatter(exportMeta{Title: "Groceries: weekly", Tags: []string{"food", "home"}}, tt.body)
			if err != nil {
				t.Fatalf("RenderFrontmatter: %v", err)
			}

			parts := strings.SplitN(string(out), "---\n", 3)
			if len(parts) != 3 || parts[0] != "" {
				t.Fatalf("output is not delimited frontmatter: %q", out)
			}

			var meta exportMeta
			if err := yaml.Unmarshal([]byte(parts[1]), &meta); err != nil {
				t.Fatalf("frontmatter is not YAML: %v", err)
			}
			if meta.Title != "Groceries: weekly" {
				t.Errorf("title = %q, want %q", meta.Title, "Groceries: weekly")
			}
			if len(meta.Tags) != 2 {
				t.Errorf("tags = %v, want 2 entries", meta.Tags)
			}
			if got := strings.TrimPrefix(parts[2], "\n"); got != tt.wantBody {
				t.Errorf("body = %q, want %q", got, tt.wantBody)
			}
		})
	}
}
