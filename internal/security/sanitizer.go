package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeText strips HTML, null bytes and surrounding whitespace from
// user-provided free text (bios, event descriptions, comments).
func SanitizeText(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	input = htmlPolicy.Sanitize(input)

	return strings.TrimSpace(input)
}

// SanitizeTextPtr sanitizes in place and drops pointers that become empty.
func SanitizeTextPtr(input *string) *string {
	if input == nil {
		return nil
	}

	cleaned := SanitizeText(*input)
	if cleaned == "" {
		return nil
	}

	return &cleaned
}
