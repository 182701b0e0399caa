package lkg

import (
	"github.com/litkg/litkg/vocabulary/crm"
	"github.com/litkg/litkg/vocabulary/lrmoo"
)

// EntityType identifies the ontology class of a graph entity.
type EntityType string

// Entity type constants.
const (
	// EntityTypePerson is a human agent (author, translator).
	EntityTypePerson EntityType = "person"
	// EntityTypePlace is a place of publication.
	EntityTypePlace EntityType = "place"
	// EntityTypeLanguage is a natural language.
	EntityTypeLanguage EntityType = "language"
	// EntityTypeType is a controlled-vocabulary concept.
	EntityTypeType EntityType = "type"
	// EntityTypeTitle is a proper title of an expression.
	EntityTypeTitle EntityType = "title"
	// EntityTypeAppellation is a free-form name.
	EntityTypeAppellation EntityType = "appellation"
	// EntityTypeIdentifier is a code-like identifier such as a YID.
	EntityTypeIdentifier EntityType = "identifier"
	// EntityTypeTimespan is a temporal extent of an event.
	EntityTypeTimespan EntityType = "timespan"
	// EntityTypeWork is the distinct intellectual creation.
	EntityTypeWork EntityType = "work"
	// EntityTypeWorkCreation is the event that created a work.
	EntityTypeWorkCreation EntityType = "work_creation"
	// EntityTypeExpression is a realisation of a work in one language.
	EntityTypeExpression EntityType = "expression"
	// EntityTypeExpressionCreation is the event that created an expression.
	EntityTypeExpressionCreation EntityType = "expression_creation"
	// EntityTypeManifestation is a publication (book edition or journal issue).
	EntityTypeManifestation EntityType = "manifestation"
	// EntityTypeManifestationCreation is the publication event.
	EntityTypeManifestationCreation EntityType = "manifestation_creation"
	// EntityTypeCorporateBody is an organisation such as a publisher.
	EntityTypeCorporateBody EntityType = "corporate_body"
)

// ClassMap maps entity types to their ontology class IRIs.
var ClassMap = map[EntityType]string{
	EntityTypePerson:      crm.ClassPerson,
	EntityTypePlace:       crm.ClassPlace,
	EntityTypeLanguage:    crm.ClassLanguage,
	EntityTypeType:        crm.ClassType,
	EntityTypeTitle:       crm.ClassTitle,
	EntityTypeAppellation: crm.ClassAppellation,
	EntityTypeIdentifier:  crm.ClassIdentifier,
	EntityTypeTimespan:    crm.ClassTimeSpan,

	EntityTypeWork:                  lrmoo.ClassWork,
	EntityTypeWorkCreation:          lrmoo.ClassWorkCreation,
	EntityTypeExpression:            lrmoo.ClassExpression,
	EntityTypeExpressionCreation:    lrmoo.ClassExpressionCreation,
	EntityTypeManifestation:         lrmoo.ClassManifestation,
	EntityTypeManifestationCreation: lrmoo.ClassManifestationCreation,
	EntityTypeCorporateBody:         lrmoo.ClassCorporateBody,
}

// ClassIRI returns the ontology class IRI for an entity type, or the
// lkg-core namespace fallback for unknown types.
func ClassIRI(t EntityType) string {
	if iri, ok := ClassMap[t]; ok {
		return iri
	}
	return Namespace + string(t)
}

// EntityIRI converts a local entity id into its instance IRI.
func EntityIRI(id string) string {
	return EntityNamespace + id
}
