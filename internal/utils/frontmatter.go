package utils

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// RenderFrontmatter serializes metadata as a YAML frontmatter block followed by body.
// Output format:
// ---
// title: Groceries
// tags: [food]
// ---
// # Markdown content here
func RenderFrontmatter(metadata any, body string) ([]byte, error) {
	header, err := yaml.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode YAML frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	if body != "" && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}
