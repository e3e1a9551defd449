package content

import (
	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer removes dangerous HTML elements and attributes from note bodies.
//
// Thread-safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer creates a sanitizer for rich-text editor output.
// Uses the UGC policy, plus inline styles for text alignment and color and
// data: images for pasted screenshots.
func NewHTMLSanitizer() *HTMLSanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()
	policy.AllowStyles("text-align", "color", "background-color").Globally()
	policy.AllowAttrs("data-checked", "data-type").OnElements("li", "ul")

	return &HTMLSanitizer{policy: policy}
}

// Sanitize strips scripts, event handlers and javascript: URLs while keeping formatting
func (s *HTMLSanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
