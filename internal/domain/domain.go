package domain

import "github.com/yungbote/mapping-manager/internal/domain/mapping"

const (
	InvalidReasonDeleted = mapping.InvalidReasonDeleted
	InvalidReasonUpdated = mapping.InvalidReasonUpdated
	RelationshipMapsTo   = mapping.RelationshipMapsTo
	FirstLocalConceptID  = mapping.FirstLocalConceptID
	DateLayout           = mapping.DateLayout
)

var SentinelExpiry = mapping.SentinelExpiry

type Concept = mapping.Concept
type ConceptDraft = mapping.ConceptDraft
type NaturalKey = mapping.NaturalKey
type ConceptRelationship = mapping.ConceptRelationship
type TargetConcept = mapping.TargetConcept

var (
	NewActiveConcept      = mapping.NewActiveConcept
	NewActiveRelationship = mapping.NewActiveRelationship
	DateOf                = mapping.DateOf
)
