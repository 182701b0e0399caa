// Package lrmoo provides LRMoo (object-oriented IFLA LRM) class and
// property IRIs for the work-expression-manifestation model.
package lrmoo

// Namespace is the base IRI prefix for LRMoo terms.
const Namespace = "http://iflastandards.info/ns/lrm/lrmoo/"

// Class IRIs for LRMoo entity types.
const (
	// ClassWork is the distinct intellectual creation (F1).
	ClassWork = Namespace + "F1_Work"

	// ClassExpression is a realisation of a work in a given language (F2).
	ClassExpression = Namespace + "F2_Expression"

	// ClassManifestation is a publication embodying expressions (F3).
	ClassManifestation = Namespace + "F3_Manifestation"

	// ClassCorporateBody is an organisation such as a publisher (F11).
	ClassCorporateBody = Namespace + "F11_Corporate_Body"

	// ClassWorkCreation is the event that created a work (F27).
	ClassWorkCreation = Namespace + "F27_Work_Creation"

	// ClassExpressionCreation is the event that created an expression (F28).
	ClassExpressionCreation = Namespace + "F28_Expression_Creation"

	// ClassManifestationCreation is the publication event (F30).
	ClassManifestationCreation = Namespace + "F30_Manifestation_Creation"
)

// Property IRIs for LRMoo relations.
const (
	PropIsRealisedIn = Namespace + "R3_is_realised_in"
	PropRealises     = Namespace + "R3i_realises"

	PropEmbodies     = Namespace + "R4_embodies"
	PropIsEmbodiedIn = Namespace + "R4i_is_embodied_in"

	PropHasComponent  = Namespace + "R5_has_component"
	PropIsComponentOf = Namespace + "R5i_is_component_of"

	PropCreatedWork      = Namespace + "R16_created"
	PropWorkWasCreatedBy = Namespace + "R16i_was_created_by"

	PropCreatedExpression      = Namespace + "R17_created"
	PropExpressionWasCreatedBy = Namespace + "R17i_was_created_by"

	PropCreatedRealisationOf = Namespace + "R19_created_a_realisation_of"
	PropWasRealisedThrough   = Namespace + "R19i_was_realised_through"

	PropCreatedManifestation = Namespace + "R24_created"
	PropWasCreatedThrough    = Namespace + "R24i_was_created_through"

	PropIsDerivativeOf = Namespace + "R76_is_derivative_of"
)
