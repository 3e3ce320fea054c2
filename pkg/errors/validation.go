package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLabelLength is the maximum number of runes in a node label.
const MaxLabelLength = 128

// ValidateLabel validates a node label supplied by a user or host.
//
// Rules:
//   - No empty or whitespace-only labels
//   - No control characters (labels are drawn on a single line)
//   - At most MaxLabelLength runes
//
// Uniqueness is checked by the graph model, not here.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return New(ErrCodeInvalidLabel, "label cannot be empty")
	}

	if utf8.RuneCountInString(label) > MaxLabelLength {
		return New(ErrCodeInvalidLabel, "label too long (max %d characters)", MaxLabelLength)
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLabel, "label contains invalid control characters")
		}
	}

	return nil
}

// hexColorRegex matches #rgb and #rrggbb colour literals.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates a colour literal used in canvas configuration.
// Only hex notation is accepted so every surface can interpret it.
func ValidateColor(field, color string) error {
	if color == "" {
		return New(ErrCodeConfiguration, "%s: colour cannot be empty", field)
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeConfiguration, "%s: invalid colour %q (want #rgb or #rrggbb)", field, color)
	}
	return nil
}
