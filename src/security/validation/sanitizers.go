package validation

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeName strips any markup from a user-supplied display name and
// trims surrounding whitespace.
func SanitizeName(name string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(name))
}
