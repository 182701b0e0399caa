// Package crm provides CIDOC CRM class and property IRIs used by the
// knowledge graph. Only the subset the pipeline emits is declared here;
// the ontology itself is maintained externally.
package crm

// Namespace is the base IRI prefix for CIDOC CRM terms.
const Namespace = "http://www.cidoc-crm.org/cidoc-crm/"

// Class IRIs for CIDOC CRM entity types.
const (
	// ClassPerson represents a human being (E21).
	ClassPerson = Namespace + "E21_Person"

	// ClassTitle represents a proper title of a work or expression (E35).
	ClassTitle = Namespace + "E35_Title"

	// ClassAppellation represents any name or designation (E41).
	ClassAppellation = Namespace + "E41_Appellation"

	// ClassIdentifier represents a code-like identifier (E42).
	ClassIdentifier = Namespace + "E42_Identifier"

	// ClassTimeSpan represents a temporal extent (E52).
	ClassTimeSpan = Namespace + "E52_Time-Span"

	// ClassPlace represents a geometric extent such as a city (E53).
	ClassPlace = Namespace + "E53_Place"

	// ClassType represents a controlled-vocabulary concept (E55).
	ClassType = Namespace + "E55_Type"

	// ClassLanguage represents a natural language (E56).
	ClassLanguage = Namespace + "E56_Language"
)

// Property IRIs for CIDOC CRM relations.
const (
	PropIsIdentifiedBy = Namespace + "P1_is_identified_by"
	PropIdentifies     = Namespace + "P1i_identifies"
	PropHasType        = Namespace + "P2_has_type"
	PropHasTimeSpan    = Namespace + "P4_has_time-span"
	PropTookPlaceAt    = Namespace + "P7_took_place_at"

	PropHasLanguage = Namespace + "P72_has_language"
	PropHasResidence = Namespace + "P74_has_current_or_former_residence"

	// PropBeginOfBegin and PropEndOfEnd bound an E52 Time-Span.
	PropBeginOfBegin = Namespace + "P82a_begin_of_the_begin"
	PropEndOfEnd     = Namespace + "P82b_end_of_the_end"

	PropHasTitle  = Namespace + "P102_has_title"
	PropIsTitleOf = Namespace + "P102i_is_title_of"

	PropHasAlternativeForm = Namespace + "P139_has_alternative_form"

	// PropHasSymbolicContent carries the literal value of an appellation.
	PropHasSymbolicContent = Namespace + "P190_has_symbolic_content"
)
