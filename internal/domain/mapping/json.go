package mapping

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the wire form of validity dates.
const DateLayout = "2006-01-02"

func formatDate(d datatypes.Date) string {
	return time.Time(d).UTC().Format(DateLayout)
}

func (c Concept) MarshalJSON() ([]byte, error) {
	type plain Concept
	return json.Marshal(struct {
		plain
		ValidStartDate string `json:"valid_start_date"`
		ValidEndDate   string `json:"valid_end_date"`
	}{plain(c), formatDate(c.ValidStartDate), formatDate(c.ValidEndDate)})
}

func (r ConceptRelationship) MarshalJSON() ([]byte, error) {
	type plain ConceptRelationship
	return json.Marshal(struct {
		plain
		ValidStartDate string `json:"valid_start_date"`
		ValidEndDate   string `json:"valid_end_date"`
	}{plain(r), formatDate(r.ValidStartDate), formatDate(r.ValidEndDate)})
}

func (t TargetConcept) MarshalJSON() ([]byte, error) {
	type plain TargetConcept
	return json.Marshal(struct {
		plain
		ValidStartDate string `json:"valid_start_date"`
		ValidEndDate   string `json:"valid_end_date"`
	}{plain(t), formatDate(t.ValidStartDate), formatDate(t.ValidEndDate)})
}
