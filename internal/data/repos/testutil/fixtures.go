package testutil

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/mapping-manager/internal/domain"
)

// Well-known OMOP targets used across tests.
const (
	TargetHaemoglobinMass int64 = 37171451
	TargetHaemoglobin     int64 = 37208644
	TargetPlatelets       int64 = 3024929
)

func SeedTarget(tb testing.TB, ctx context.Context, tx *gorm.DB, id int64, name string) *types.TargetConcept {
	tb.Helper()
	standard := "S"
	tc := &types.TargetConcept{
		ConceptID:       id,
		ConceptName:     name,
		DomainID:        "Measurement",
		VocabularyID:    "SNOMED",
		ConceptClassID:  "Observable Entity",
		StandardConcept: &standard,
		ConceptCode:     name,
		ValidStartDate:  types.DateOf(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)),
		ValidEndDate:    types.DateOf(types.SentinelExpiry),
	}
	if err := tx.WithContext(ctx).Table(VocabularyTable).Create(tc).Error; err != nil {
		tb.Fatalf("seed target concept: %v", err)
	}
	return tc
}

// SeedTargets inserts the well-known targets.
func SeedTargets(tb testing.TB, ctx context.Context, tx *gorm.DB) {
	tb.Helper()
	SeedTarget(tb, ctx, tx, TargetHaemoglobinMass, "Haemoglobin mass")
	SeedTarget(tb, ctx, tx, TargetHaemoglobin, "Haemoglobin")
	SeedTarget(tb, ctx, tx, TargetPlatelets, "Platelets")
}

func HaemoglobinDraft() types.ConceptDraft {
	return types.ConceptDraft{
		ConceptName:    "FBC_Haemoglobin",
		DomainID:       "LIMS.BloodResults",
		VocabularyID:   "GSTT",
		ConceptClassID: "Observable Entity",
		ConceptCode:    "FBC_Hb_Mass",
	}
}

func DraftWithCode(code string) types.ConceptDraft {
	d := HaemoglobinDraft()
	d.ConceptName = "FBC_" + code
	d.ConceptCode = code
	return d
}

func PtrString(v string) *string { return &v }
