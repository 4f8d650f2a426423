package tools

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/gosimple/unidecode"
)

// SEOLength is the maximum length stored for meta title/description/keywords.
const SEOLength = 155

// Slugify normalizes a name into a URL key (lowercase, ascii, dash-separated).
func Slugify(name string) string {
	return slug.Make(name)
}

// Unaccent transliterates a label to plain ASCII for feed columns.
func Unaccent(s string) string {
	return strings.TrimSpace(unidecode.Unidecode(s))
}

// SEOLenght truncates a meta field to the maximum SEO length.
func SEOLenght(s string) string {
	if len(s) <= SEOLength {
		return s
	}
	cut := s[:SEOLength]
	// cut on the last word boundary when possible
	if i := strings.LastIndex(cut, " "); i > 0 {
		return cut[:i]
	}
	return cut
}
