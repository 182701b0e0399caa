// Package normalize converts raw sheet rows into canonical records using
// per-sheet schemas: row-range gating, positional or header column
// mapping, combined pub-info decomposition and YID minting.
package normalize

// PersonName is one person name with an optional language tag. Names
// without a tag carry the NOLANG pseudo code.
type PersonName struct {
	Name string
	Lang string
}

// CanonicalRecord is the normalized, typed view of one source row.
// Every field the schema maps is present in Fields, possibly empty.
type CanonicalRecord struct {
	YID   string
	Sheet string

	// Fields holds the raw value of every canonical field the schema
	// produces.
	Fields map[string]string

	Title       string
	Authors     []PersonName
	Translators []PersonName

	// Publisher is the raw publisher cell; PubName and Place are the
	// extracted publisher name and verbatim city string.
	Publisher string
	PubName   string
	Place     string

	Year  string
	Issue string
	Page  string

	Language string
	TypeCode string

	// Refs are the normalized derivation references, trailing relation
	// markers preserved.
	Refs []string

	// Parts are the ids this record declares as its components, from
	// same-sheet reference ranges.
	Parts []string

	// PartOf is the id of the record this one is a component of, derived
	// from the YID's dotted structure. Empty for top-level records.
	PartOf string

	// ExpandedTitle is the title prefixed with every ancestor title, so
	// component titles make sense out of context. Equal to Title for
	// top-level records.
	ExpandedTitle string
}
