package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/litkg/litkg/config"
	"github.com/litkg/litkg/source"
)

// ErrSkip is returned for rows that carry no record: rows outside the
// schema's configured range, and rows failing the main-row gate on
// sheets with yid columns. Skipping is how header, footer and
// decorative rows are excluded.
var ErrSkip = errors.New("row carries no record")

var (
	yearRe       = regexp.MustCompile(`^(\d{4})(?:, )?`)
	refsSpaceRe  = regexp.MustCompile(`\. +(\d)`)
	personRe     = regexp.MustCompile(`^(.*?)(?: \(([A-Za-z]{2}(?:,[A-Za-z]{2})*)\))?$`)
	cityParensRe = regexp.MustCompile(`\((.+?)\)$`)
	cityColonRe  = regexp.MustCompile(`^(.*?):`)
)

// Normalizer applies one sheet schema to raw rows.
type Normalizer struct {
	schema config.SheetSchema
	cols   map[string]int

	pageSplitRe  *regexp.Regexp
	pageAfterRe  *regexp.Regexp
	pageBeforeRe *regexp.Regexp

	langPrefixes []string

	// lastMain is the most recent numeric main id, which component rows
	// marked "~" extend with their sub id.
	lastMain string

	// titles remembers every minted yid's title for expanded component
	// titles. Component rows always follow their containing row.
	titles map[string]string
}

// NewNormalizer binds a schema to a sheet's actual columns and compiles
// the combined-field patterns. langPrefixes are the language codes of
// all configured sheets, used to normalize cross-sheet references.
func NewNormalizer(schema config.SheetSchema, sheet *source.Sheet, langPrefixes []string) (*Normalizer, error) {
	n := &Normalizer{
		schema:       schema,
		cols:         make(map[string]int),
		langPrefixes: langPrefixes,
		titles:       make(map[string]string),
	}

	if len(schema.Columns) > 0 {
		for label, field := range schema.Columns {
			col, ok := sheet.HeaderIndex(label)
			if !ok {
				return nil, fmt.Errorf("sheet %s: column %q not found", schema.Name, label)
			}
			n.cols[field] = col
		}
	} else {
		for i, field := range schema.Order {
			if field == "-" {
				continue
			}
			n.cols[field] = schema.StartCol + i
		}
	}

	if schema.Combined != nil {
		if err := n.compilePagePatterns(schema.Combined.PageMarks); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", schema.Name, err)
		}
	}
	return n, nil
}

// compilePagePatterns builds the page-mark patterns. Page notation varies
// per sheet, so the mark list comes from the schema. Longer marks go
// first so "pp" wins over "p".
func (n *Normalizer) compilePagePatterns(marks []string) error {
	if len(marks) == 0 {
		return errors.New("combined rule needs at least one page mark")
	}

	sorted := make([]string, len(marks))
	copy(sorted, marks)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	quoted := make([]string, len(sorted))
	for i, m := range sorted {
		quoted[i] = regexp.QuoteMeta(m)
	}
	alt := strings.Join(quoted, "|")

	var err error
	n.pageSplitRe, err = regexp.Compile(
		`(?:, |^)(?:` + alt + `)\.(?: )?(?:\d|[A-Za-z])|(?:, |^)?(?:\d|[A-Za-z_])+ (?:` + alt + `)\.`)
	if err != nil {
		return fmt.Errorf("compile page-split pattern: %w", err)
	}
	n.pageAfterRe, err = regexp.Compile(`(?:` + alt + `)\. ?([0-9A-Za-z][0-9A-Za-z\-–./]*)`)
	if err != nil {
		return fmt.Errorf("compile page pattern: %w", err)
	}
	n.pageBeforeRe, err = regexp.Compile(`^([0-9A-Za-z_]+) (?:` + alt + `)\.`)
	if err != nil {
		return fmt.Errorf("compile page pattern: %w", err)
	}
	return nil
}

// Normalize converts one raw row into a canonical record, or ErrSkip for
// rows outside the schema's range or failing the main-row gate. Rows are
// keyed by their yid columns, so the minted YID matches the ids other
// rows reference; sheets without yid columns fall back to the row index.
// Malformed content never fails a row; the affected fields stay empty.
func (n *Normalizer) Normalize(row source.Row) (CanonicalRecord, error) {
	if !n.schema.Rows.Contains(row.Index) {
		return CanonicalRecord{}, fmt.Errorf("row %d: %w", row.Index, ErrSkip)
	}

	fields := make(map[string]string, len(n.cols))
	for field, col := range n.cols {
		fields[field] = row.Cell(col)
	}

	key := strconv.Itoa(row.Index)
	if _, keyed := n.cols["yid_main"]; keyed {
		var err error
		if key, err = n.rowKey(row.Index, fields); err != nil {
			return CanonicalRecord{}, err
		}
	}

	rec := CanonicalRecord{
		YID:       n.schema.Prefix + key,
		Sheet:     n.schema.Name,
		Fields:    fields,
		Title:     fields["title"],
		Publisher: fields["publisher"],
		TypeCode:  fields["type"],
		Language:  n.schema.Language,
	}
	if lang := fields["lang"]; lang != "" {
		rec.Language = lang
	}

	rec.Authors = ParsePersons(fields["author"])
	rec.Translators = ParsePersons(fields["translators"])
	rec.PubName, rec.Place = SplitPublisher(fields["publisher"])

	if n.schema.Combined != nil {
		rec.Year, rec.Issue, rec.Page = n.decompose(fields[n.schema.Combined.Field])
	}

	if refs := fields["refs"]; strings.HasPrefix(refs, "↑") {
		raw := strings.Trim(refs, "↑")
		raw, _, _ = strings.Cut(raw, " (")
		// Some refs carry a stray space before a sub-id.
		raw = refsSpaceRe.ReplaceAllString(raw, ".$1")
		rec.Refs, rec.Parts = NormalizeRef(raw, n.schema.Language, PrefixNonfiction, n.langPrefixes, PrefixOther)
	}

	rec.PartOf = parentID(rec.YID)
	n.titles[rec.YID] = rec.Title
	rec.ExpandedTitle = n.expandedTitle(rec.YID, rec.Title)

	return rec, nil
}

// rowKey resolves a row's local id from its yid columns. Main rows carry
// "@" in is_main and a numeric main id; component rows carry "~" in the
// main column and extend the nearest preceding main id with their sub
// id. Every other row is decoration and skipped.
func (n *Normalizer) rowKey(index int, fields map[string]string) (string, error) {
	isMain := strings.TrimSpace(fields["is_main"])
	yidMain := strings.TrimSpace(fields["yid_main"])
	yidSub := strings.TrimSpace(fields["yid_sub"])

	_, marked := n.cols["is_main"]
	continued := strings.Contains(yidMain, "~")
	main := (!marked || isMain == "@") && (isDigits(yidMain) || continued)
	if !main && !(continued && yidSub != "") {
		return "", fmt.Errorf("row %d: %w", index, ErrSkip)
	}

	if !continued {
		n.lastMain = yidMain
		return yidMain, nil
	}
	if n.lastMain == "" || yidSub == "" {
		return "", fmt.Errorf("row %d: component row has no preceding main id: %w", index, ErrSkip)
	}
	return n.lastMain + "." + yidSub, nil
}

// parentID derives the containing record's id from a dotted yid:
// "NFPL329.6" is a component of "NFPL329". Ids without a dot have no
// parent.
func parentID(yid string) string {
	base, _, _ := strings.Cut(yid, "÷")
	i := strings.LastIndex(base, ".")
	if i < 0 {
		return ""
	}
	return base[:i]
}

// expandedTitle prefixes a component's title with its ancestors' titles
// so it reads out of context.
func (n *Normalizer) expandedTitle(yid, title string) string {
	chain := []string{title}
	for parent := parentID(yid); parent != ""; parent = parentID(parent) {
		if t := n.titles[parent]; t != "" {
			chain = append([]string{t}, chain...)
		}
	}
	return strings.Join(chain, " | ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// decompose splits a combined "year, issue, page-marker" string. The
// issue is whatever sits between the year and the first page-mark match,
// however exotic its form; a row matching no mark keeps the remainder as
// issue with an empty page.
func (n *Normalizer) decompose(value string) (year, issue, page string) {
	m := yearRe.FindStringSubmatch(value)
	if m == nil {
		return "", "", ""
	}
	year = m[1]
	rest := value[len(m[0]):]
	if rest == "" {
		return year, "", ""
	}

	loc := n.pageSplitRe.FindStringIndex(rest)
	issueRaw := rest
	if loc != nil {
		issueRaw = rest[:loc[0]]
	}
	issue = strings.Trim(strings.TrimSpace(issueRaw), ".")
	// Repair parentheses left unbalanced by the cut.
	if missing := strings.Count(issue, "(") - strings.Count(issue, ")"); missing > 0 {
		issue += strings.Repeat(")", missing)
	}

	if loc != nil {
		region := strings.TrimPrefix(rest[loc[0]:], ", ")
		if pm := n.pageAfterRe.FindStringSubmatch(region); pm != nil {
			page = pm[1]
		} else if pm := n.pageBeforeRe.FindStringSubmatch(region); pm != nil {
			page = pm[1]
		}
	}
	return year, issue, page
}

// ParsePersons splits a person cell into names with language tags.
// Entries are separated by "; "; each entry may end with a parenthesized
// comma-separated code list, e.g. "Staudyngerowa J. (PL,DE)". Untagged
// names get the NOLANG pseudo code.
func ParsePersons(cell string) []PersonName {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}

	var persons []PersonName
	for _, entry := range strings.Split(cell, "; ") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		m := personRe.FindStringSubmatch(entry)
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		if m[2] == "" {
			persons = append(persons, PersonName{Name: name, Lang: "NOLANG"})
			continue
		}
		for _, lang := range strings.Split(m[2], ",") {
			persons = append(persons, PersonName{Name: name, Lang: strings.ToUpper(lang)})
		}
	}
	return persons
}

// SplitPublisher extracts the publisher name and the verbatim city
// string from a raw publisher cell like "Kraków: WL" or "Nurt (Poznań)".
func SplitPublisher(raw string) (name, city string) {
	name, _, _ = strings.Cut(raw, " (")
	if i := strings.LastIndex(name, ": "); i >= 0 {
		name = name[i+2:]
	}

	if m := cityParensRe.FindStringSubmatch(raw); m != nil {
		city = m[1]
		city, _, _ = strings.Cut(city, ":")
		city, _, _ = strings.Cut(city, ")")
	}
	if city == "" {
		if m := cityColonRe.FindStringSubmatch(raw); m != nil {
			city = m[1]
		}
	}
	return strings.TrimSpace(name), strings.TrimSpace(city)
}
