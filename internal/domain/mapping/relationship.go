package mapping

import (
	"time"

	"gorm.io/datatypes"
)

// RelationshipMapsTo is the only relationship kind recorded by the registry.
const RelationshipMapsTo = "Maps to"

// ConceptRelationship is one version of a "maps to" edge from a local concept to a target
// terminology concept. Historical versions share concept_id_1 with the active one.
type ConceptRelationship struct {
	ConceptID1     int64          `gorm:"column:concept_id_1;not null;index" json:"concept_id_1"`
	ConceptID2     int64          `gorm:"column:concept_id_2;not null" json:"concept_id_2"`
	RelationshipID string         `gorm:"column:relationship_id;not null" json:"relationship_id"`
	ValidStartDate datatypes.Date `gorm:"column:valid_start_date;not null" json:"valid_start_date"`
	ValidEndDate   datatypes.Date `gorm:"column:valid_end_date;not null" json:"valid_end_date"`
	InvalidReason  *string        `gorm:"column:invalid_reason" json:"invalid_reason"`
}

func (ConceptRelationship) TableName() string { return "concept_relationship" }

func (r *ConceptRelationship) Active() bool {
	return r != nil && r.InvalidReason == nil
}

// NewActiveRelationship builds the active "maps to" version inserted by Create and Retarget.
func NewActiveRelationship(sourceID, targetID int64, asOf, expiry time.Time) *ConceptRelationship {
	return &ConceptRelationship{
		ConceptID1:     sourceID,
		ConceptID2:     targetID,
		RelationshipID: RelationshipMapsTo,
		ValidStartDate: DateOf(asOf),
		ValidEndDate:   DateOf(expiry),
	}
}
