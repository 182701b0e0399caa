// Package lkg provides the project extension vocabulary for the literary
// knowledge graph: the lkg-core namespace with authorship and derivation
// properties that CIDOC CRM and LRMoo do not cover, entity instance IRIs,
// and the dotted predicates the pipeline uses internally.
package lkg

// Namespace is the base IRI prefix for lkg-core extension terms.
const Namespace = "http://lkg.org.pl/ns/lkg-core/"

// EntityNamespace is the base IRI for graph entity instances.
const EntityNamespace = "http://lkg.org.pl/entity/"

// External namespaces referenced through sameAs and label statements.
const (
	GeonamesNamespace = "https://sws.geonames.org/"
	WikidataNamespace = "http://www.wikidata.org/entity/"

	RDFType       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	RDFSLabel     = "http://www.w3.org/2000/01/rdf-schema#label"
	OWLSameAs     = "http://www.w3.org/2002/07/owl#sameAs"
	SKOSPrefLabel = "http://www.w3.org/2004/02/skos/core#prefLabel"
	SKOSAltLabel  = "http://www.w3.org/2004/02/skos/core#altLabel"
	SKOSHiddenLabel = "http://www.w3.org/2004/02/skos/core#hiddenLabel"
	XSDGYear      = "http://www.w3.org/2001/XMLSchema#gYear"
)

// Authorship property IRIs (subproperties of crm:P14_carried_out_by).
const (
	PropComposedBy   = Namespace + "S141_composed_by"
	PropWrittenBy    = Namespace + "S142_written_by"
	PropTranslatedBy = Namespace + "S143_translated_by"
	PropEditedBy     = Namespace + "S144_edited_by"
	PropPublishedBy  = Namespace + "S145_published_by"
	PropPerformedBy  = Namespace + "S146_performed_by"
	PropDirectedBy   = Namespace + "S147_directed_by"
)

// Derivation property IRIs between expressions. None is transitive; all
// are asymmetric and irreflexive.
const (
	// PropIsTranslationOf links an expression to the expression in another
	// language that it was translated from.
	PropIsTranslationOf = Namespace + "S761_is_translation_of"

	// PropIsAlteredFormOf marks content modified beyond regular translation
	// or editing alterations.
	PropIsAlteredFormOf = Namespace + "S762_is_altered_form_of"

	// PropIsReducedFormOf marks a significantly reduced version.
	PropIsReducedFormOf = Namespace + "S763_is_reduced_form_of"

	// PropIsExtendedFormOf marks a significantly extended version.
	PropIsExtendedFormOf = Namespace + "S764_is_extended_form_of"
)
