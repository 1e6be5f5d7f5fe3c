package catalog

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRun     = regexp.MustCompile(`-{2,}`)
	slugPattern   = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Normalize maps a free-form identifier to the lookup form used for catalog keys:
// lowercased, trimmed, whitespace runs turned into one hyphen, and everything
// outside [a-z0-9-] removed. It is ASCII-only on purpose; server-generated keys are.
func Normalize(identifier string) string {
	s := strings.ToLower(strings.TrimSpace(identifier))
	s = whitespaceRun.ReplaceAllString(s, "-")
	return nonSlugChars.ReplaceAllString(s, "")
}

// Slugify derives a slug for a new room from its title. Unlike Normalize it also
// folds repeated hyphens and trims them from both ends.
func Slugify(title string) string {
	s := Normalize(title)
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ValidSlug reports whether s is acceptable as an admin-entered slug.
func ValidSlug(s string) bool { return slugPattern.MatchString(s) }
