package domain

import (
	"regexp"
	"strings"
)

var (
	slugInvalid    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// Slugify lowercases s, strips everything except ASCII letters, digits,
// whitespace and hyphens, then collapses whitespace and hyphen runs into a
// single hyphen. Slugify(Slugify(s)) == Slugify(s).
func Slugify(s string) string {
	out := strings.ToLower(strings.TrimSpace(s))
	out = slugInvalid.ReplaceAllString(out, "")
	out = slugWhitespace.ReplaceAllString(out, "-")
	out = slugHyphens.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}

// SlugFor picks the first candidate that produces a non-empty slug.
func SlugFor(candidates ...string) string {
	for _, c := range candidates {
		if s := Slugify(c); s != "" {
			return s
		}
	}
	return ""
}
