// pmcquery builds Europe PMC search queries and cleans up what comes back.
package pmcquery

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	digitsOnly = regexp.MustCompile(`^\d+$`)
	markupTags = regexp.MustCompile(`<[^>]*>`)
)

// NormalizeID trims an article id and gives bare numeric ids the PMC prefix,
// so "9876543" and "PMC9876543" address the same record.
func NormalizeID(id string) string {
	clean := strings.TrimSpace(id)
	if digitsOnly.MatchString(clean) {
		clean = "PMC" + clean
	}
	return clean
}

// StripMarkup removes HTML/XML tags from free-text fields. Europe PMC
// abstracts routinely embed <h4>, <i> and similar inline markup.
func StripMarkup(text string) string {
	return markupTags.ReplaceAllString(text, "")
}

// SpecialtyQuery builds the quality-filtered search query for a specialty
// key ("Infectious_Diseases" becomes the search terms "Infectious Diseases").
func SpecialtyQuery(specialtyKey string) string {
	terms := strings.ReplaceAll(specialtyKey, "_", " ")
	return fmt.Sprintf(`(%s AND (review OR "randomized controlled trial" OR cohort)) AND HAS_ABSTRACT:y AND OPEN_ACCESS:y`, terms)
}

// IDQuery builds an exact-match query for a normalized article id.
func IDQuery(id string) string {
	return "ext_id:" + NormalizeID(id)
}
