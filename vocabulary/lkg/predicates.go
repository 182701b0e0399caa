package lkg

import (
	"github.com/c360studio/semstreams/vocabulary"

	"github.com/litkg/litkg/vocabulary/crm"
	"github.com/litkg/litkg/vocabulary/lrmoo"
)

// Metadata predicates carried by most entities.
const (
	// MetaLabel is the technical display label (rdfs:label).
	MetaLabel = "bib.meta.label"

	// MetaPrefLabel is the preferred UI label (skos:prefLabel).
	MetaPrefLabel = "bib.meta.pref_label"

	// MetaAltLabel carries searchable name variants (skos:altLabel).
	MetaAltLabel = "bib.meta.alt_label"

	// MetaHiddenLabel carries the numeric sort key (skos:hiddenLabel).
	MetaHiddenLabel = "bib.meta.hidden_label"

	// MetaSameAs links an entity to an external authority record.
	MetaSameAs = "bib.meta.same_as"
)

// Appellation predicates.
const (
	// AppellationContent is the literal value of a name, title or
	// identifier (crm:P190).
	AppellationContent = "bib.appellation.content"

	// AppellationDetected marks a language tag produced by automatic
	// detection rather than source data.
	AppellationDetected = "bib.appellation.detected"
)

// Time-span predicates. Values are xsd:gYear strings.
const (
	TimespanBegin = "bib.timespan.begin"
	TimespanEnd   = "bib.timespan.end"
)

// Relationship predicates between entities. Objects are entity ids.
const (
	RelIsIdentifiedBy = "bib.rel.is_identified_by"
	RelIdentifies     = "bib.rel.identifies"
	RelHasType        = "bib.rel.has_type"
	RelHasTimeSpan    = "bib.rel.has_time_span"
	RelTookPlaceAt    = "bib.rel.took_place_at"
	RelHasLanguage    = "bib.rel.has_language"
	RelHasResidence   = "bib.rel.has_residence"
	RelHasTitle       = "bib.rel.has_title"
	RelIsTitleOf      = "bib.rel.is_title_of"

	RelHasAlternativeForm = "bib.rel.has_alternative_form"

	RelIsRealisedIn = "bib.rel.is_realised_in"
	RelRealises     = "bib.rel.realises"

	RelEmbodies     = "bib.rel.embodies"
	RelIsEmbodiedIn = "bib.rel.is_embodied_in"

	RelHasComponent  = "bib.rel.has_component"
	RelIsComponentOf = "bib.rel.is_component_of"

	RelCreatedWork      = "bib.rel.created_work"
	RelWorkWasCreatedBy = "bib.rel.work_was_created_by"

	RelCreatedExpression      = "bib.rel.created_expression"
	RelExpressionWasCreatedBy = "bib.rel.expression_was_created_by"

	RelCreatedRealisationOf = "bib.rel.created_realisation_of"
	RelWasRealisedThrough   = "bib.rel.was_realised_through"

	RelCreatedManifestation = "bib.rel.created_manifestation"
	RelWasCreatedThrough    = "bib.rel.was_created_through"

	RelIsDerivativeOf = "bib.rel.is_derivative_of"

	RelWrittenBy    = "bib.rel.written_by"
	RelTranslatedBy = "bib.rel.translated_by"
	RelPublishedBy  = "bib.rel.published_by"

	RelIsTranslationOf  = "bib.rel.is_translation_of"
	RelIsAlteredFormOf  = "bib.rel.is_altered_form_of"
	RelIsReducedFormOf  = "bib.rel.is_reduced_form_of"
	RelIsExtendedFormOf = "bib.rel.is_extended_form_of"
)

// PredicateIRIMap maps dotted predicates to their ontology IRIs for RDF
// export. Unmapped predicates fall back to the lkg-core namespace.
var PredicateIRIMap = map[string]string{
	MetaLabel:       RDFSLabel,
	MetaPrefLabel:   SKOSPrefLabel,
	MetaAltLabel:    SKOSAltLabel,
	MetaHiddenLabel: SKOSHiddenLabel,
	MetaSameAs:      OWLSameAs,

	AppellationContent: crm.PropHasSymbolicContent,

	TimespanBegin: crm.PropBeginOfBegin,
	TimespanEnd:   crm.PropEndOfEnd,

	RelIsIdentifiedBy: crm.PropIsIdentifiedBy,
	RelIdentifies:     crm.PropIdentifies,
	RelHasType:        crm.PropHasType,
	RelHasTimeSpan:    crm.PropHasTimeSpan,
	RelTookPlaceAt:    crm.PropTookPlaceAt,
	RelHasLanguage:    crm.PropHasLanguage,
	RelHasResidence:   crm.PropHasResidence,
	RelHasTitle:       crm.PropHasTitle,
	RelIsTitleOf:      crm.PropIsTitleOf,

	RelHasAlternativeForm: crm.PropHasAlternativeForm,

	RelIsRealisedIn: lrmoo.PropIsRealisedIn,
	RelRealises:     lrmoo.PropRealises,
	RelEmbodies:     lrmoo.PropEmbodies,
	RelIsEmbodiedIn: lrmoo.PropIsEmbodiedIn,

	RelHasComponent:  lrmoo.PropHasComponent,
	RelIsComponentOf: lrmoo.PropIsComponentOf,

	RelCreatedWork:      lrmoo.PropCreatedWork,
	RelWorkWasCreatedBy: lrmoo.PropWorkWasCreatedBy,

	RelCreatedExpression:      lrmoo.PropCreatedExpression,
	RelExpressionWasCreatedBy: lrmoo.PropExpressionWasCreatedBy,

	RelCreatedRealisationOf: lrmoo.PropCreatedRealisationOf,
	RelWasRealisedThrough:   lrmoo.PropWasRealisedThrough,

	RelCreatedManifestation: lrmoo.PropCreatedManifestation,
	RelWasCreatedThrough:    lrmoo.PropWasCreatedThrough,

	RelIsDerivativeOf: lrmoo.PropIsDerivativeOf,

	RelWrittenBy:    PropWrittenBy,
	RelTranslatedBy: PropTranslatedBy,
	RelPublishedBy:  PropPublishedBy,

	RelIsTranslationOf:  PropIsTranslationOf,
	RelIsAlteredFormOf:  PropIsAlteredFormOf,
	RelIsReducedFormOf:  PropIsReducedFormOf,
	RelIsExtendedFormOf: PropIsExtendedFormOf,
}

// GetPredicateIRI returns the ontology IRI for a dotted predicate.
// Unmapped predicates resolve into the lkg-core namespace.
func GetPredicateIRI(predicate string) string {
	if iri, ok := PredicateIRIMap[predicate]; ok {
		return iri
	}
	return Namespace + predicate
}

func init() {
	vocabulary.Register(MetaLabel,
		vocabulary.WithDescription("Technical display label"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RDFSLabel))

	vocabulary.Register(MetaPrefLabel,
		vocabulary.WithDescription("Preferred UI label"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SKOSPrefLabel))

	vocabulary.Register(MetaAltLabel,
		vocabulary.WithDescription("Searchable name variant"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SKOSAltLabel))

	vocabulary.Register(MetaHiddenLabel,
		vocabulary.WithDescription("Numeric sort key"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SKOSHiddenLabel))

	vocabulary.Register(MetaSameAs,
		vocabulary.WithDescription("External authority record IRI"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(OWLSameAs))

	vocabulary.Register(AppellationContent,
		vocabulary.WithDescription("Literal value of a name, title or identifier"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(crm.PropHasSymbolicContent))

	vocabulary.Register(AppellationDetected,
		vocabulary.WithDescription("Language tag produced by automatic detection"),
		vocabulary.WithDataType("bool"),
		vocabulary.WithIRI(Namespace+"languageAutoDetected"))

	vocabulary.Register(TimespanBegin,
		vocabulary.WithDescription("Begin of the begin, xsd:gYear"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(crm.PropBeginOfBegin))

	vocabulary.Register(TimespanEnd,
		vocabulary.WithDescription("End of the end, xsd:gYear"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(crm.PropEndOfEnd))
}
