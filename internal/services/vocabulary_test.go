package services

import (
	"context"
	"strings"
	"testing"
	"time"

	repotest "github.com/yungbote/mapping-manager/internal/data/repos/testutil"
)

const seedYAML = `
concepts:
  - concept_id: 3000963
    concept_name: Hemoglobin [Mass/volume] in Blood
    domain_id: Measurement
    vocabulary_id: LOINC
    concept_class_id: Lab Test
    standard_concept: S
    concept_code: 718-7
    valid_start_date: 1970-01-01
  - concept_id: 37208644
    concept_name: Already present
    domain_id: Measurement
    vocabulary_id: SNOMED
    concept_class_id: Observable Entity
    concept_code: "1022431000000105"
`

func TestVocabularyLoadSkipsExisting(t *testing.T) {
	f, _ := newRegistryFixture(t)
	svc := NewVocabularyService(repotest.Logger(t), f.targets)
	ctx := context.Background()

	n, err := svc.Load(ctx, strings.NewReader(seedYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 1 {
		t.Fatalf("inserted: want=1 got=%d", n)
	}
	got, err := f.targets.GetByID(ctx, nil, 3000963)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ConceptCode != "718-7" || got.StandardConcept == nil || *got.StandardConcept != "S" {
		t.Fatalf("loaded row: unexpected %+v", got)
	}
	if end := time.Time(got.ValidEndDate); end.Year() != 2099 {
		t.Fatalf("missing valid_end_date defaults to the sentinel, got %v", end)
	}
	existing, err := f.targets.GetByID(ctx, nil, repotest.TargetHaemoglobin)
	if err != nil {
		t.Fatalf("GetByID existing: %v", err)
	}
	if existing.ConceptName == "Already present" {
		t.Fatalf("existing target must not be overwritten")
	}
}

func TestVocabularyLoadRejectsBadRows(t *testing.T) {
	f, _ := newRegistryFixture(t)
	svc := NewVocabularyService(repotest.Logger(t), f.targets)
	bad := "concepts:\n  - concept_id: 0\n    concept_name: x\n    concept_code: y\n"
	if _, err := svc.Load(context.Background(), strings.NewReader(bad)); err == nil {
		t.Fatalf("expected error for non-positive concept_id")
	}
	badDate := "concepts:\n  - concept_id: 5\n    concept_name: x\n    concept_code: y\n    valid_start_date: yesterday\n"
	if _, err := svc.Load(context.Background(), strings.NewReader(badDate)); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}
