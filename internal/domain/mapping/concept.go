package mapping

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	// InvalidReasonDeleted marks a concept (and the edges it sourced) as deleted.
	InvalidReasonDeleted = "D"
	// InvalidReasonUpdated marks a relationship superseded by a retarget.
	InvalidReasonUpdated = "U"

	// FirstLocalConceptID is where the identity sequence for locally defined concepts starts.
	FirstLocalConceptID int64 = 2_000_000_000
)

// SentinelExpiry is the open-ended valid_end_date of the currently valid version.
var SentinelExpiry = time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC)

// Concept is a locally defined coded entity owned by this registry.
type Concept struct {
	ConceptID       int64          `gorm:"column:concept_id;primaryKey" json:"concept_id"`
	ConceptName     string         `gorm:"column:concept_name;not null" json:"concept_name"`
	DomainID        string         `gorm:"column:domain_id;not null" json:"domain_id"`
	VocabularyID    string         `gorm:"column:vocabulary_id;not null" json:"vocabulary_id"`
	ConceptClassID  string         `gorm:"column:concept_class_id;not null" json:"concept_class_id"`
	StandardConcept *string        `gorm:"column:standard_concept" json:"standard_concept"`
	ConceptCode     string         `gorm:"column:concept_code;not null" json:"concept_code"`
	ValidStartDate  datatypes.Date `gorm:"column:valid_start_date;not null" json:"valid_start_date"`
	ValidEndDate    datatypes.Date `gorm:"column:valid_end_date;not null" json:"valid_end_date"`
	InvalidReason   *string        `gorm:"column:invalid_reason" json:"invalid_reason"`
}

func (Concept) TableName() string { return "concept" }

// Active reports whether the concept is the currently valid version.
func (c *Concept) Active() bool {
	return c != nil && c.InvalidReason == nil
}

func (c *Concept) NaturalKey() NaturalKey {
	if c == nil {
		return NaturalKey{}
	}
	return NaturalKey{
		DomainID:       c.DomainID,
		VocabularyID:   c.VocabularyID,
		ConceptCode:    c.ConceptCode,
		ConceptClassID: c.ConceptClassID,
	}
}

// NaturalKey identifies a concept's real-world meaning independent of its surrogate id.
// It is unique among active concepts only.
type NaturalKey struct {
	DomainID       string
	VocabularyID   string
	ConceptCode    string
	ConceptClassID string
}

func (k NaturalKey) Normalize() NaturalKey {
	return NaturalKey{
		DomainID:       strings.TrimSpace(k.DomainID),
		VocabularyID:   strings.TrimSpace(k.VocabularyID),
		ConceptCode:    strings.TrimSpace(k.ConceptCode),
		ConceptClassID: strings.TrimSpace(k.ConceptClassID),
	}
}

func (k NaturalKey) Complete() bool {
	n := k.Normalize()
	return n.DomainID != "" && n.VocabularyID != "" && n.ConceptCode != "" && n.ConceptClassID != ""
}

// ConceptDraft carries the caller-supplied descriptive fields of a new concept.
type ConceptDraft struct {
	ConceptName     string
	DomainID        string
	VocabularyID    string
	ConceptClassID  string
	ConceptCode     string
	StandardConcept *string
}

func (d ConceptDraft) NaturalKey() NaturalKey {
	return NaturalKey{
		DomainID:       d.DomainID,
		VocabularyID:   d.VocabularyID,
		ConceptCode:    d.ConceptCode,
		ConceptClassID: d.ConceptClassID,
	}.Normalize()
}

// Normalize trims every field; an all-blank standard_concept becomes nil.
func (d ConceptDraft) Normalize() ConceptDraft {
	out := ConceptDraft{
		ConceptName:    strings.TrimSpace(d.ConceptName),
		DomainID:       strings.TrimSpace(d.DomainID),
		VocabularyID:   strings.TrimSpace(d.VocabularyID),
		ConceptClassID: strings.TrimSpace(d.ConceptClassID),
		ConceptCode:    strings.TrimSpace(d.ConceptCode),
	}
	if d.StandardConcept != nil {
		if sc := strings.TrimSpace(*d.StandardConcept); sc != "" {
			out.StandardConcept = &sc
		}
	}
	return out
}

// NewActiveConcept builds the row inserted by Create. The identity is left to the store.
func NewActiveConcept(d ConceptDraft, asOf time.Time) *Concept {
	d = d.Normalize()
	return &Concept{
		ConceptName:     d.ConceptName,
		DomainID:        d.DomainID,
		VocabularyID:    d.VocabularyID,
		ConceptClassID:  d.ConceptClassID,
		ConceptCode:     d.ConceptCode,
		StandardConcept: d.StandardConcept,
		ValidStartDate:  DateOf(asOf),
		ValidEndDate:    DateOf(SentinelExpiry),
	}
}

// DateOf truncates t to its UTC calendar day.
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.UTC().Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
