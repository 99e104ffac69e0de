package mapping

import (
	"testing"
	"time"
)

func TestConceptDraftNormalize(t *testing.T) {
	blank := "   "
	d := ConceptDraft{
		ConceptName:     "  FBC_Haemoglobin ",
		DomainID:        " LIMS.BloodResults",
		VocabularyID:    "GSTT ",
		ConceptClassID:  "Observable Entity",
		ConceptCode:     " FBC_Hb_Mass ",
		StandardConcept: &blank,
	}.Normalize()
	if d.ConceptName != "FBC_Haemoglobin" || d.DomainID != "LIMS.BloodResults" || d.ConceptCode != "FBC_Hb_Mass" {
		t.Fatalf("unexpected normalized draft: %+v", d)
	}
	if d.StandardConcept != nil {
		t.Fatalf("blank standard_concept should normalize to nil, got %q", *d.StandardConcept)
	}
	if !d.NaturalKey().Complete() {
		t.Fatalf("expected complete natural key: %+v", d.NaturalKey())
	}
}

func TestNaturalKeyComplete(t *testing.T) {
	cases := []struct {
		name string
		key  NaturalKey
		want bool
	}{
		{"complete", NaturalKey{"d", "v", "c", "k"}, true},
		{"missing domain", NaturalKey{"", "v", "c", "k"}, false},
		{"blank code", NaturalKey{"d", "v", "  ", "k"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.key.Complete(); got != tc.want {
				t.Fatalf("Complete: want=%v got=%v", tc.want, got)
			}
		})
	}
}

func TestNewActiveConceptWindow(t *testing.T) {
	asOf := time.Date(2026, 3, 4, 17, 30, 0, 0, time.FixedZone("X", 5*3600))
	c := NewActiveConcept(ConceptDraft{ConceptName: "a", DomainID: "d", VocabularyID: "v", ConceptClassID: "k", ConceptCode: "c"}, asOf)
	if !c.Active() {
		t.Fatalf("new concept must be active")
	}
	if c.ConceptID != 0 {
		t.Fatalf("identity must be left to the store, got %d", c.ConceptID)
	}
	start := time.Time(c.ValidStartDate)
	if start.Year() != 2026 || start.Month() != 3 || start.Day() != 4 || start.Hour() != 0 {
		t.Fatalf("unexpected start date: %v", start)
	}
	if !time.Time(c.ValidEndDate).Equal(SentinelExpiry) {
		t.Fatalf("unexpected end date: %v", time.Time(c.ValidEndDate))
	}
}

func TestNewActiveRelationship(t *testing.T) {
	r := NewActiveRelationship(FirstLocalConceptID, 37171451, time.Now(), SentinelExpiry)
	if !r.Active() || r.RelationshipID != RelationshipMapsTo {
		t.Fatalf("unexpected relationship: %+v", r)
	}
	if r.ConceptID1 != FirstLocalConceptID || r.ConceptID2 != 37171451 {
		t.Fatalf("unexpected endpoints: %+v", r)
	}
}
