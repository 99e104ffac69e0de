package mapping

import "gorm.io/datatypes"

// TargetConcept is a row of the externally owned standard terminology (OMOP concept shape).
// The registry only ever reads it; the table name is configured at wiring time.
type TargetConcept struct {
	ConceptID       int64          `gorm:"column:concept_id;primaryKey" json:"concept_id" yaml:"concept_id"`
	ConceptName     string         `gorm:"column:concept_name" json:"concept_name" yaml:"concept_name"`
	DomainID        string         `gorm:"column:domain_id" json:"domain_id" yaml:"domain_id"`
	VocabularyID    string         `gorm:"column:vocabulary_id" json:"vocabulary_id" yaml:"vocabulary_id"`
	ConceptClassID  string         `gorm:"column:concept_class_id" json:"concept_class_id" yaml:"concept_class_id"`
	StandardConcept *string        `gorm:"column:standard_concept" json:"standard_concept" yaml:"standard_concept"`
	ConceptCode     string         `gorm:"column:concept_code" json:"concept_code" yaml:"concept_code"`
	ValidStartDate  datatypes.Date `gorm:"column:valid_start_date" json:"valid_start_date" yaml:"-"`
	ValidEndDate    datatypes.Date `gorm:"column:valid_end_date" json:"valid_end_date" yaml:"-"`
	InvalidReason   *string        `gorm:"column:invalid_reason" json:"invalid_reason" yaml:"invalid_reason"`
}
