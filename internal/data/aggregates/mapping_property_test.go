package aggregates_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"

	repotest "github.com/yungbote/mapping-manager/internal/data/repos/testutil"
	types "github.com/yungbote/mapping-manager/internal/domain"
	domainagg "github.com/yungbote/mapping-manager/internal/domain/aggregates"
)

var propertyTargets = []int64{repotest.TargetHaemoglobinMass, repotest.TargetHaemoglobin, repotest.TargetPlatelets, 555}

// Random command sequences over a small set of natural keys must keep every concept with
// at most one active edge, deleted concepts with none, and concepts never reactivated.
func TestMappingAggregateInvariantsHold(t *testing.T) {
	db := repotest.DB(t)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		tx := db.Begin()
		if tx.Error != nil {
			rt.Fatalf("begin: %v", tx.Error)
		}
		defer tx.Rollback()
		repotest.SeedTargets(t, ctx, tx)
		f := buildFixture(t, tx, nil)

		var ids []int64
		deleted := map[int64]bool{}
		steps := rapid.IntRange(1, 25).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			f.clock.Advance(time.Duration(rapid.IntRange(0, 48).Draw(rt, "hours")) * time.Hour)
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				code := fmt.Sprintf("K%d", rapid.IntRange(0, 3).Draw(rt, "key"))
				target := rapid.SampledFrom(propertyTargets).Draw(rt, "target")
				res, err := f.agg.CreateConcept(ctx, domainagg.CreateConceptInput{Draft: repotest.DraftWithCode(code), TargetID: target})
				switch {
				case err == nil:
					ids = append(ids, res.ConceptID)
				case domainagg.IsAny(err, domainagg.CodeConflict, domainagg.CodeTargetNotFound):
				default:
					rt.Fatalf("create: %v", err)
				}
			case 1:
				if len(ids) == 0 {
					continue
				}
				id := rapid.SampledFrom(ids).Draw(rt, "retarget_id")
				target := rapid.SampledFrom(propertyTargets).Draw(rt, "new_target")
				_, err := f.agg.RetargetConcept(ctx, domainagg.RetargetConceptInput{SourceID: id, NewTargetID: target})
				if err != nil && !domainagg.IsAny(err, domainagg.CodeNotFound, domainagg.CodeTargetNotFound) {
					rt.Fatalf("retarget: %v", err)
				}
				if deleted[id] && !domainagg.IsCode(err, domainagg.CodeNotFound) {
					rt.Fatalf("retarget of deleted concept %d: want not_found, got %v", id, err)
				}
			case 2:
				if len(ids) == 0 {
					continue
				}
				id := rapid.SampledFrom(ids).Draw(rt, "delete_id")
				_, err := f.agg.DeleteConcept(ctx, domainagg.DeleteConceptInput{ConceptID: id})
				if deleted[id] {
					if !domainagg.IsCode(err, domainagg.CodeNotFound) {
						rt.Fatalf("second delete of %d: want not_found, got %v", id, err)
					}
					continue
				}
				if err != nil {
					rt.Fatalf("delete %d: %v", id, err)
				}
				deleted[id] = true
			}
		}

		keys := map[types.NaturalKey]int64{}
		for _, id := range ids {
			c, err := f.concepts.GetByID(ctx, nil, id)
			if err != nil {
				rt.Fatalf("GetByID(%d): %v", id, err)
			}
			active, err := f.relationships.CountActive(ctx, nil, id)
			if err != nil {
				rt.Fatalf("CountActive(%d): %v", id, err)
			}
			if deleted[id] {
				if c.InvalidReason == nil || *c.InvalidReason != types.InvalidReasonDeleted {
					rt.Fatalf("concept %d: want D, got %v", id, c.InvalidReason)
				}
				if active != 0 {
					rt.Fatalf("deleted concept %d keeps %d active edges", id, active)
				}
				continue
			}
			if c.InvalidReason != nil {
				rt.Fatalf("concept %d reactivated or stamped %q", id, *c.InvalidReason)
			}
			if active != 1 {
				rt.Fatalf("concept %d: want exactly one active edge, got %d", id, active)
			}
			if other, ok := keys[c.NaturalKey()]; ok {
				rt.Fatalf("concepts %d and %d share an active natural key", other, id)
			}
			keys[c.NaturalKey()] = id
		}
	})
}
