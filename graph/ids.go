package graph

import (
	"strings"
	"unicode"
)

// Slug turns a free-text name into the identifier-safe form used in
// minted entity ids: lower-cased, words joined with "-", everything that
// is not a letter or digit dropped.
func Slug(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Identifier minting. Every id is a pure function of (sheet, row key) or
// (vocabulary, code), never of insertion order, so the same source
// database always yields the same graph.

// PersonID mints the id for a person entity, one per distinct
// name+language combination.
func PersonID(name, lang string) string {
	return "E21_" + Slug(name) + "." + strings.ToLower(lang)
}

// PublisherID mints the id for a corporate-body entity.
func PublisherID(name string) string {
	return "F11_" + Slug(name)
}

// PlaceID mints the id for a place entity from its gazetteer id.
func PlaceID(geonamesID string) string {
	return "E53_GN" + geonamesID
}

// IssueID mints the shared journal-issue key for (journal, year, issue).
func IssueID(pubName, year, issue string) string {
	return "J_" + Slug(pubName) + "." + year + "." + Slug(issue)
}

// ExpressionID mints the F2 id for a record or issue key.
func ExpressionID(yid string) string { return "F2_" + yid }

// ExpressionCreationID mints the F28 id paired with an expression.
func ExpressionCreationID(yid string) string { return "F28_" + yid }

// ManifestationID mints the F3 id for a record or issue key.
func ManifestationID(key string) string { return "F3_" + key }

// ManifestationCreationID mints the F30 id paired with a manifestation.
func ManifestationCreationID(key string) string { return "F30_" + key }

// WorkID mints the F1 id inferred for an underived expression.
func WorkID(yid string) string { return "F1_" + yid }

// WorkCreationID mints the F27 id paired with an inferred work.
func WorkCreationID(yid string) string { return "F27_" + yid }

// TimespanID mints the publication time-span id for a manifestation key.
func TimespanID(key string) string { return "E52_" + key + ".pub" }
