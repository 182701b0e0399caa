// Package graph assembles the knowledge graph: it mints stable entity
// identifiers, creates ontology-typed nodes and relation edges for each
// resolved record, deduplicates entities structurally and infers works
// for underived expressions.
package graph

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/c360studio/semstreams/message"

	"github.com/litkg/litkg/reference"
	"github.com/litkg/litkg/resolve"
	"github.com/litkg/litkg/vocabulary/lkg"
)

// Entity is an ontology-typed node with its property triples.
type Entity struct {
	ID      string
	Type    lkg.EntityType
	Label   string
	Triples []message.Triple
}

// Edge is a typed relation between two entity ids.
type Edge struct {
	Subject   string
	Predicate string
	Object    string
}

// Relation markers carried at the end of normalized references.
const (
	markerCitation = '-'
	markerReduced  = '>'
	markerExtended = '<'
	markerAltered  = '!'
)

var (
	refLangRe = regexp.MustCompile(`^[A-Za-z]+`)
	lettersRe = regexp.MustCompile(`[A-Za-z]+`)
)

// Builder accumulates entities and edges. Entity identity is structural
// (same class, same natural key): adding a second record that references
// an already-seen person, place or language augments edges onto the
// existing entity. Not safe for concurrent use.
type Builder struct {
	source string
	now    time.Time
	logger *slog.Logger

	entities map[string]*Entity
	edges    map[Edge]struct{}

	// appCount tracks the per-parent appellation ordinal.
	appCount map[string]int

	// citationOnly marks expressions whose reference is a bare citation;
	// they never get an inferred work.
	citationOnly map[string]bool

	// stubs marks expressions created only as reference targets, so
	// links never dangle. A later record for the same id claims it.
	stubs map[string]bool
}

// NewBuilder creates an empty builder. source tags every emitted triple;
// the timestamp is fixed once so two builds of the same input differ
// only in metadata, never in structure.
func NewBuilder(source string, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		source:       source,
		now:          time.Now().UTC(),
		logger:       logger,
		entities:     make(map[string]*Entity),
		edges:        make(map[Edge]struct{}),
		appCount:     make(map[string]int),
		citationOnly: make(map[string]bool),
		stubs:        make(map[string]bool),
	}
}

// ensure returns the entity for an id, creating it when unseen.
func (b *Builder) ensure(id string, t lkg.EntityType, label string) (*Entity, bool) {
	if e, ok := b.entities[id]; ok {
		return e, false
	}
	e := &Entity{ID: id, Type: t, Label: label}
	b.entities[id] = e
	return e, true
}

func (b *Builder) prop(e *Entity, predicate string, object any) {
	b.propTyped(e, predicate, object, "")
}

func (b *Builder) propTyped(e *Entity, predicate string, object any, datatype string) {
	e.Triples = append(e.Triples, message.Triple{
		Subject:    e.ID,
		Predicate:  predicate,
		Object:     object,
		Source:     b.source,
		Timestamp:  b.now,
		Confidence: 1.0,
		Datatype:   datatype,
	})
}

func (b *Builder) addEdge(subject, predicate, object string) {
	b.edges[Edge{Subject: subject, Predicate: predicate, Object: object}] = struct{}{}
}

// languageID returns the language entity id for a code, or "" when the
// code has no registered language entity. Language edges never dangle.
func (b *Builder) languageID(code string) string {
	if code == "" || code == reference.NoLanguage {
		return ""
	}
	id := "E56_" + strings.ToUpper(code)
	if _, ok := b.entities[id]; !ok {
		return ""
	}
	return id
}

// addAppellation creates a name, title or identifier node under a parent
// and wires both directions. The ordinal in the id is per parent, so it
// is a function of the record alone.
func (b *Builder) addAppellation(parentID, value string, class lkg.EntityType, langID, typeID string, detected bool) string {
	b.appCount[parentID]++
	id := fmt.Sprintf("%s.app.%d", parentID, b.appCount[parentID])

	e, _ := b.ensure(id, class, value)
	b.prop(e, lkg.AppellationContent, value)
	if detected {
		b.prop(e, lkg.AppellationDetected, true)
	}

	if class == lkg.EntityTypeTitle {
		b.addEdge(parentID, lkg.RelHasTitle, id)
		b.addEdge(id, lkg.RelIsTitleOf, parentID)
	} else {
		b.addEdge(parentID, lkg.RelIsIdentifiedBy, id)
		b.addEdge(id, lkg.RelIdentifies, parentID)
	}
	if langID != "" {
		b.addEdge(id, lkg.RelHasLanguage, langID)
	}
	if typeID != "" {
		b.addEdge(id, lkg.RelHasType, typeID)
	}
	return id
}

// ensureBuiltinType registers one of the structural type concepts the
// pipeline itself needs (YID, ISO code markers).
func (b *Builder) ensureBuiltinType(code, label string) string {
	id := "E55_" + code
	if e, created := b.ensure(id, lkg.EntityTypeType, label); created {
		b.prop(e, lkg.MetaLabel, "E55 "+label)
		b.prop(e, lkg.MetaPrefLabel, label)
	}
	return id
}

// AddTypes registers the controlled-type vocabulary upfront so type
// edges always have a target.
func (b *Builder) AddTypes(entries []reference.TypeEntry) {
	for _, entry := range entries {
		e, created := b.ensure(entry.GraphID, lkg.EntityTypeType, entry.Label)
		if !created {
			continue
		}
		b.prop(e, lkg.MetaLabel, "E55 "+entry.Label)
		b.prop(e, lkg.MetaPrefLabel, entry.Label)
	}
}

// AddLanguages registers the language vocabulary upfront. The NOLANG
// pseudo code gets no entity; records without a language simply carry no
// language edge.
func (b *Builder) AddLanguages(entries []reference.LanguageEntry) {
	isoType := b.ensureBuiltinType("ISO_639_1", "ISO 639-1")
	for _, entry := range entries {
		if entry.Code == reference.NoLanguage {
			continue
		}
		e, created := b.ensure(entry.GraphID, lkg.EntityTypeLanguage, entry.Label)
		if !created {
			continue
		}
		b.prop(e, lkg.MetaLabel, "E56 "+entry.Label)
		b.prop(e, lkg.MetaPrefLabel, entry.Label)
		if entry.WikidataID != "" {
			b.prop(e, lkg.MetaSameAs, lkg.WikidataNamespace+entry.WikidataID)
		}
		b.addAppellation(entry.GraphID, entry.Code, lkg.EntityTypeIdentifier, "", isoType, false)
	}
}

func (b *Builder) ensurePlace(rp resolve.ResolvedPlace) string {
	id := PlaceID(rp.GeonamesID)
	e, created := b.ensure(id, lkg.EntityTypePlace, rp.Name)
	if !created {
		return id
	}

	name := rp.Name
	if rp.HasInfo && rp.Info.Name != "" {
		name = rp.Info.Name
	}
	label := name
	if rp.HasInfo && rp.Info.Country != "" {
		label = name + ", " + rp.Info.Country
	}
	e.Label = label

	b.prop(e, lkg.MetaLabel, "E53 "+label+" (GEO: "+rp.GeonamesID+")")
	b.prop(e, lkg.MetaPrefLabel, name)
	b.prop(e, lkg.MetaSameAs, lkg.GeonamesNamespace+rp.GeonamesID+"/")
	if rp.HasInfo && rp.Info.WikidataID != "" {
		b.prop(e, lkg.MetaSameAs, lkg.WikidataNamespace+rp.Info.WikidataID)
	}

	enApp := b.addAppellation(id, name, lkg.EntityTypeAppellation, b.languageID("EN"), "", false)
	if rp.HasInfo && rp.Info.NamePL != "" && rp.Info.NamePL != name {
		plApp := b.addAppellation(id, rp.Info.NamePL, lkg.EntityTypeAppellation, b.languageID("PL"), "", false)
		b.addEdge(enApp, lkg.RelHasAlternativeForm, plApp)
		b.addEdge(plApp, lkg.RelHasAlternativeForm, enApp)
	}
	return id
}

func (b *Builder) ensurePerson(name, lang string) string {
	id := PersonID(name, lang)
	e, created := b.ensure(id, lkg.EntityTypePerson, name)
	if !created {
		return id
	}
	b.prop(e, lkg.MetaLabel, "E21 "+name)
	b.prop(e, lkg.MetaPrefLabel, name)
	b.prop(e, lkg.MetaAltLabel, name)
	b.addAppellation(id, name, lkg.EntityTypeAppellation, b.languageID(lang), "", false)
	return id
}

func (b *Builder) ensurePublisher(name string) string {
	id := PublisherID(name)
	e, created := b.ensure(id, lkg.EntityTypeCorporateBody, name)
	if !created {
		return id
	}
	b.prop(e, lkg.MetaLabel, "F11 "+name)
	b.prop(e, lkg.MetaPrefLabel, name)
	b.prop(e, lkg.MetaAltLabel, name)
	b.addAppellation(id, name, lkg.EntityTypeAppellation, "", "", false)
	return id
}

// AddRecord creates the expression, its creation event, the embodying
// manifestation with its creation event, and all relation edges for one
// resolved record.
func (b *Builder) AddRecord(rec resolve.Resolved) {
	yid := rec.YID
	f2ID := ExpressionID(yid)

	f2, created := b.ensure(f2ID, lkg.EntityTypeExpression, rec.Title)
	if !created && b.stubs[f2ID] {
		// A real record claims the stub made for a forward reference. The
		// stub carried only a placeholder label.
		delete(b.stubs, f2ID)
		f2.Label = rec.Title
		f2.Triples = nil
		created = true
	}

	langID := ""
	if rec.LanguageResolved {
		langID = b.languageID(rec.Language.Code)
	}

	if created {
		b.prop(f2, lkg.MetaLabel, "F2 "+rec.Title+" (YID: "+yid+")")
		b.prop(f2, lkg.MetaPrefLabel, rec.Title)
		b.prop(f2, lkg.MetaHiddenLabel, lettersRe.ReplaceAllString(yid, ""))
		if exp := strings.ReplaceAll(rec.ExpandedTitle, "| ", ""); exp != "" {
			b.prop(f2, lkg.MetaAltLabel, exp)
		}
		if rec.Title != "" {
			b.addAppellation(f2ID, rec.Title, lkg.EntityTypeTitle, langID, "", rec.LanguageDetected)
		}
	}
	if langID != "" {
		b.addEdge(f2ID, lkg.RelHasLanguage, langID)
	}
	if rec.TypeResolved {
		b.addEdge(f2ID, lkg.RelHasType, rec.Type.GraphID)
	}

	yidType := b.ensureBuiltinType("YID", "YID")
	yidApp := b.addAppellation(f2ID, yid, lkg.EntityTypeIdentifier, "", yidType, false)

	f28ID := ExpressionCreationID(yid)
	f28, f28Created := b.ensure(f28ID, lkg.EntityTypeExpressionCreation, "F28 "+rec.Title)
	if f28Created {
		b.prop(f28, lkg.MetaLabel, "F28 "+rec.Title+" (YID: "+yid+")")
	}
	b.addEdge(f28ID, lkg.RelCreatedExpression, f2ID)
	b.addEdge(f2ID, lkg.RelExpressionWasCreatedBy, f28ID)

	for _, a := range rec.Authors {
		b.addEdge(f28ID, lkg.RelWrittenBy, b.ensurePerson(a.Name, a.Lang))
	}
	for _, tr := range rec.Translators {
		b.addEdge(f28ID, lkg.RelTranslatedBy, b.ensurePerson(tr.Name, tr.Lang))
	}

	for _, ref := range rec.Refs {
		b.linkDerivation(f2ID, yid, ref)
	}
	for _, part := range rec.Parts {
		partID := b.ensureExpressionTarget(part)
		b.addEdge(f2ID, lkg.RelHasComponent, partID)
		b.addEdge(partID, lkg.RelIsComponentOf, f2ID)
	}

	if rec.PartOf != "" {
		// A component has no publication of its own; it appears inside
		// its containing record's manifestation.
		parentF2 := b.ensureExpressionTarget(rec.PartOf)
		b.addEdge(parentF2, lkg.RelHasComponent, f2ID)
		b.addEdge(f2ID, lkg.RelIsComponentOf, parentF2)
		return
	}

	b.addManifestation(rec, f2ID, yidApp)
}

// ensureExpressionTarget returns the expression entity for a referenced
// yid, creating a claimable stub when no record has described it yet.
func (b *Builder) ensureExpressionTarget(ref string) string {
	id := ExpressionID(ref)
	if _, ok := b.entities[id]; !ok {
		stub, _ := b.ensure(id, lkg.EntityTypeExpression, ref)
		b.prop(stub, lkg.MetaLabel, "F2 (YID: "+ref+")")
		b.stubs[id] = true
	}
	return id
}

func (b *Builder) addManifestation(rec resolve.Resolved, f2ID, yidApp string) {
	var pubID string
	if rec.PubName != "" {
		pubID = b.ensurePublisher(rec.PubName)
		for _, rp := range rec.Places {
			b.addEdge(pubID, lkg.RelHasResidence, b.ensurePlace(rp))
		}
	}

	var f3ID string
	if rec.Issue != "" && rec.PubName != "" {
		// Periodical appearance: the journal issue is the manifestation,
		// shared by every expression it embodies.
		key := IssueID(rec.PubName, rec.Year, rec.Issue)
		f3ID = ManifestationID(key)
		if _, ok := b.entities[f3ID]; !ok {
			b.addIssue(key, rec, pubID)
		}
	} else {
		f3ID = ManifestationID(rec.YID)
		f3, created := b.ensure(f3ID, lkg.EntityTypeManifestation, rec.Title)
		if created {
			labelParts := []string{rec.Title}
			if rec.PubName != "" {
				labelParts = append(labelParts, rec.PubName)
			}
			if rec.Year != "" {
				labelParts = append(labelParts, rec.Year)
			}
			b.prop(f3, lkg.MetaLabel, "F3 "+rec.Title+" (YID: "+rec.YID+")")
			b.prop(f3, lkg.MetaPrefLabel, strings.Join(labelParts, ", "))
		}

		f30ID := ManifestationCreationID(rec.YID)
		f30, created := b.ensure(f30ID, lkg.EntityTypeManifestationCreation, "F30 "+rec.Title)
		if created {
			b.prop(f30, lkg.MetaLabel, "F30 "+rec.Title+" (YID: "+rec.YID+")")
		}
		b.addEdge(f30ID, lkg.RelCreatedManifestation, f3ID)
		b.addEdge(f3ID, lkg.RelWasCreatedThrough, f30ID)
		if pubID != "" {
			b.addEdge(f30ID, lkg.RelPublishedBy, pubID)
		}
		if rec.Year != "" {
			b.addTimespan(rec.YID, rec.Year, f30ID)
		}
		for _, rp := range rec.Places {
			b.addEdge(f30ID, lkg.RelTookPlaceAt, b.ensurePlace(rp))
		}
	}

	b.addEdge(f3ID, lkg.RelEmbodies, f2ID)
	b.addEdge(f2ID, lkg.RelIsEmbodiedIn, f3ID)
	b.addEdge(f3ID, lkg.RelIsIdentifiedBy, yidApp)
	b.addEdge(yidApp, lkg.RelIdentifies, f3ID)
}

// addIssue creates the shared journal-issue manifestation for a
// (journal, year, issue) key.
func (b *Builder) addIssue(key string, rec resolve.Resolved, pubID string) {
	f3ID := ManifestationID(key)
	name := rec.PubName + ", " + rec.Year + ", " + rec.Issue

	f3, _ := b.ensure(f3ID, lkg.EntityTypeManifestation, name)
	b.prop(f3, lkg.MetaLabel, "F3 "+name)
	b.prop(f3, lkg.MetaPrefLabel, name)
	b.addAppellation(f3ID, name, lkg.EntityTypeAppellation, "", "", false)
	journalType := b.ensureBuiltinType("Journal_Name", "Journal Name")
	b.addAppellation(f3ID, rec.PubName, lkg.EntityTypeIdentifier, "", journalType, false)
	numberType := b.ensureBuiltinType("Journal_Number", "Journal Number")
	b.addAppellation(f3ID, rec.Issue, lkg.EntityTypeIdentifier, "", numberType, false)

	f30ID := ManifestationCreationID(key)
	f30, _ := b.ensure(f30ID, lkg.EntityTypeManifestationCreation, "F30 "+name)
	b.prop(f30, lkg.MetaLabel, "F30 "+name)
	b.addEdge(f30ID, lkg.RelCreatedManifestation, f3ID)
	b.addEdge(f3ID, lkg.RelWasCreatedThrough, f30ID)
	if pubID != "" {
		b.addEdge(f30ID, lkg.RelPublishedBy, pubID)
	}
	if rec.Year != "" {
		b.addTimespan(key, rec.Year, f30ID)
	}
	for _, rp := range rec.Places {
		b.addEdge(f30ID, lkg.RelTookPlaceAt, b.ensurePlace(rp))
	}
}

func (b *Builder) addTimespan(key, year, eventID string) {
	id := TimespanID(key)
	e, created := b.ensure(id, lkg.EntityTypeTimespan, year)
	if created {
		b.prop(e, lkg.MetaLabel, "E52 "+year)
		b.propTyped(e, lkg.TimespanBegin, year, "xsd:gYear")
		b.propTyped(e, lkg.TimespanEnd, year, "xsd:gYear")
	}
	b.addEdge(eventID, lkg.RelHasTimeSpan, id)
}

// linkDerivation links an expression to the expression it derives from.
// Trailing marker characters select the precise relation; a bare
// citation ("-") creates no link and suppresses work inference for the
// citing expression. Cross-sheet references additionally mark a
// translation.
func (b *Builder) linkDerivation(f2ID, ownYID, ref string) {
	var rels []string
	for len(ref) > 0 {
		last := ref[len(ref)-1]
		if last >= '0' && last <= '9' {
			break
		}
		switch last {
		case markerCitation:
			b.citationOnly[f2ID] = true
			return
		case markerReduced:
			rels = append(rels, lkg.RelIsReducedFormOf)
		case markerExtended:
			rels = append(rels, lkg.RelIsExtendedFormOf)
		case markerAltered:
			rels = append(rels, lkg.RelIsAlteredFormOf)
		}
		ref = ref[:len(ref)-1]
	}
	if ref == "" {
		return
	}

	if refLang := nfLanguage(ref); refLang != "" && refLang != nfLanguage(ownYID) {
		rels = append(rels, lkg.RelIsTranslationOf)
	}

	// Forward or dangling references get a stub so the edge has a
	// target. A later record for the same id claims it.
	targetID := b.ensureExpressionTarget(ref)

	if len(rels) == 0 {
		b.addEdge(f2ID, lkg.RelIsDerivativeOf, targetID)
		return
	}
	for _, rel := range rels {
		b.addEdge(f2ID, rel, targetID)
	}
}

// nfLanguage extracts the sheet language code from a non-fiction id like
// "NFPL329.6.1".
func nfLanguage(id string) string {
	rest, ok := strings.CutPrefix(id, normalizePrefixNF)
	if !ok {
		return ""
	}
	return refLangRe.FindString(rest)
}

const normalizePrefixNF = "NF"

// derivationPredicates are the relations that make an expression a
// derivative of another.
var derivationPredicates = map[string]bool{
	lkg.RelIsDerivativeOf:   true,
	lkg.RelIsTranslationOf:  true,
	lkg.RelIsAlteredFormOf:  true,
	lkg.RelIsReducedFormOf:  true,
	lkg.RelIsExtendedFormOf: true,
}

// InferWorks creates an F1 work and F27 work-creation for every
// expression that derives from nothing, and makes all its transitive
// derivatives realise the same work. Citation-only expressions and
// reference stubs get no work.
func (b *Builder) InferWorks() {
	outgoing := make(map[string]bool)
	reverse := make(map[string][]string)
	authorEdges := make(map[string][]Edge)
	for edge := range b.edges {
		if derivationPredicates[edge.Predicate] {
			outgoing[edge.Subject] = true
			reverse[edge.Object] = append(reverse[edge.Object], edge.Subject)
		}
		if edge.Predicate == lkg.RelWrittenBy || edge.Predicate == lkg.RelTranslatedBy {
			authorEdges[edge.Subject] = append(authorEdges[edge.Subject], edge)
		}
	}

	ids := make([]string, 0, len(b.entities))
	for id := range b.entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	works := 0
	for _, f2ID := range ids {
		e := b.entities[f2ID]
		if e.Type != lkg.EntityTypeExpression || outgoing[f2ID] || b.citationOnly[f2ID] || b.stubs[f2ID] {
			continue
		}
		yid := strings.TrimPrefix(f2ID, "F2_")
		f1ID := WorkID(yid)
		f27ID := WorkCreationID(yid)
		f28ID := ExpressionCreationID(yid)

		f1, created := b.ensure(f1ID, lkg.EntityTypeWork, e.Label)
		if !created {
			continue
		}
		works++
		b.prop(f1, lkg.MetaLabel, "F1 "+e.Label+" (YID: "+yid+")")
		b.prop(f1, lkg.MetaPrefLabel, e.Label)

		b.addEdge(f1ID, lkg.RelIsRealisedIn, f2ID)
		b.addEdge(f2ID, lkg.RelRealises, f1ID)

		f27, _ := b.ensure(f27ID, lkg.EntityTypeWorkCreation, "F27 "+e.Label)
		b.prop(f27, lkg.MetaLabel, "F27 "+e.Label+" (YID: "+yid+")")
		b.addEdge(f27ID, lkg.RelCreatedWork, f1ID)
		b.addEdge(f1ID, lkg.RelWorkWasCreatedBy, f27ID)

		if _, ok := b.entities[f28ID]; ok {
			b.addEdge(f28ID, lkg.RelCreatedRealisationOf, f1ID)
			b.addEdge(f1ID, lkg.RelWasRealisedThrough, f28ID)
			// The work creation inherits the expression creation's agents.
			for _, ae := range authorEdges[f28ID] {
				b.addEdge(f27ID, ae.Predicate, ae.Object)
			}
		}

		// All transitive derivatives realise the same work.
		visited := map[string]bool{f2ID: true}
		queue := append([]string(nil), reverse[f2ID]...)
		for len(queue) > 0 {
			d := queue[0]
			queue = queue[1:]
			if visited[d] {
				continue
			}
			visited[d] = true
			b.addEdge(f1ID, lkg.RelIsRealisedIn, d)
			b.addEdge(d, lkg.RelRealises, f1ID)
			dF28 := ExpressionCreationID(strings.TrimPrefix(d, "F2_"))
			if _, ok := b.entities[dF28]; ok {
				b.addEdge(dF28, lkg.RelCreatedRealisationOf, f1ID)
				b.addEdge(f1ID, lkg.RelWasRealisedThrough, dF28)
			}
			queue = append(queue, reverse[d]...)
		}
	}

	b.logger.Info("Inferred works", slog.Int("works", works))
}

// Build returns the accumulated entities and edges in deterministic
// order: entities by id, edges by subject, predicate, object.
func (b *Builder) Build() ([]Entity, []Edge) {
	entities := make([]Entity, 0, len(b.entities))
	for _, e := range b.entities {
		entities = append(entities, *e)
	}
	sort.Slice(entities, func(i, j int) bool { return entities[i].ID < entities[j].ID })

	edges := make([]Edge, 0, len(b.edges))
	for edge := range b.edges {
		edges = append(edges, edge)
	}
	sort.Slice(edges, func(i, j int) bool {
		a, c := edges[i], edges[j]
		if a.Subject != c.Subject {
			return a.Subject < c.Subject
		}
		if a.Predicate != c.Predicate {
			return a.Predicate < c.Predicate
		}
		return a.Object < c.Object
	})

	b.logger.Info("Built graph",
		slog.Int("entities", len(entities)),
		slog.Int("edges", len(edges)))
	return entities, edges
}

// AddSameAs records an external-identity statement on an entity. Used by
// wikidata enrichment.
func (b *Builder) AddSameAs(entityID, externalIRI string) bool {
	e, ok := b.entities[entityID]
	if !ok {
		return false
	}
	b.prop(e, lkg.MetaSameAs, externalIRI)
	return true
}
