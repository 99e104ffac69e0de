package aggregates

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/mapping-manager/internal/data/repos/concept"
	"github.com/yungbote/mapping-manager/internal/data/repos/relationship"
	"github.com/yungbote/mapping-manager/internal/data/repos/vocabulary"
	types "github.com/yungbote/mapping-manager/internal/domain"
	domainagg "github.com/yungbote/mapping-manager/internal/domain/aggregates"
	"github.com/yungbote/mapping-manager/internal/platform/dbctx"
)

type MappingAggregateDeps struct {
	Base BaseDeps

	Concepts      concept.ConceptRepo
	Relationships relationship.RelationshipRepo
	Targets       vocabulary.TargetLookup
}

type mappingAggregate struct {
	deps MappingAggregateDeps
}

func NewMappingAggregate(deps MappingAggregateDeps) domainagg.MappingAggregate {
	deps.Base = deps.Base.withDefaults()
	return &mappingAggregate{deps: deps}
}

func (a *mappingAggregate) Contract() domainagg.Contract {
	return domainagg.MappingAggregateContract
}

func (a *mappingAggregate) configured(op string) error {
	if a.deps.Concepts == nil || a.deps.Relationships == nil || a.deps.Targets == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "mapping aggregate repos not configured", nil)
	}
	return nil
}

func (a *mappingAggregate) CreateConcept(ctx context.Context, in domainagg.CreateConceptInput) (domainagg.CreateConceptResult, error) {
	const op = "Registry.Mapping.Create"
	var out domainagg.CreateConceptResult
	start := time.Now()
	base := a.deps.Base
	if err := a.configured(op); err != nil {
		return out, observeWrite(base, op, start, err)
	}
	draft := in.Draft.Normalize()
	key := draft.NaturalKey()
	if !key.Complete() {
		return out, observeWrite(base, op, start, domainagg.NewError(domainagg.CodeValidation, op, "domain_id, vocabulary_id, concept_code and concept_class_id are required", nil))
	}
	if draft.ConceptName == "" {
		return out, observeWrite(base, op, start, domainagg.NewError(domainagg.CodeValidation, op, "missing concept_name", nil))
	}
	if in.TargetID <= 0 {
		return out, observeWrite(base, op, start, domainagg.NewError(domainagg.CodeTargetNotFound, op, fmt.Sprintf("target concept %d does not exist", in.TargetID), nil))
	}
	now := base.Clock.Now()

	// The pre-checks run outside the write transaction. Two concurrent creates of one
	// natural key can both pass them; the active natural-key index rejects the loser.
	if err := a.precheckCreate(ctx, key, in.TargetID); err != nil {
		return out, observeWrite(base, op, start, err)
	}

	err := base.Runner.InTx(ctx, func(dbc dbctx.Context) error {
		id, err := a.deps.Concepts.Insert(dbc.Ctx, dbc.Tx, types.NewActiveConcept(draft, now))
		if err != nil {
			return err
		}
		if err := a.deps.Relationships.Insert(dbc.Ctx, dbc.Tx, id, in.TargetID, now, types.SentinelExpiry); err != nil {
			return err
		}
		out = domainagg.CreateConceptResult{ConceptID: id, TargetID: in.TargetID, CreatedAt: now}
		return nil
	})
	if err = observeWrite(base, op, start, err); err != nil {
		return domainagg.CreateConceptResult{}, err
	}
	base.Log.Info("Concept created", "concept_id", out.ConceptID, "target_id", out.TargetID)
	return out, nil
}

func (a *mappingAggregate) precheckCreate(ctx context.Context, key types.NaturalKey, targetID int64) error {
	dup, err := a.deps.Concepts.FindActiveDuplicate(ctx, nil, key)
	if err != nil {
		return err
	}
	if dup != nil {
		return ConflictError(fmt.Sprintf("active concept %d already holds this natural key", dup.ConceptID))
	}
	ok, err := a.deps.Targets.Exists(ctx, nil, targetID)
	if err != nil {
		return err
	}
	return RequireTargetExists(ok, fmt.Sprintf("target concept %d does not exist", targetID))
}

func (a *mappingAggregate) RetargetConcept(ctx context.Context, in domainagg.RetargetConceptInput) (domainagg.RetargetConceptResult, error) {
	const op = "Registry.Mapping.Retarget"
	var out domainagg.RetargetConceptResult
	base := a.deps.Base
	if err := a.configured(op); err != nil {
		return out, observeWrite(base, op, time.Now(), err)
	}
	if in.SourceID <= 0 {
		return out, observeWrite(base, op, time.Now(), domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("concept %d has no active mapping", in.SourceID), nil))
	}

	now := base.Clock.Now()
	err := executeWrite(ctx, base, op, func(dbc dbctx.Context) error {
		superseded, err := a.deps.Relationships.InvalidateAllActive(dbc.Ctx, dbc.Tx, in.SourceID, types.InvalidReasonUpdated, now)
		if err != nil {
			return err
		}
		if err := RequireRowsAffected(superseded, fmt.Sprintf("concept %d has no active mapping", in.SourceID)); err != nil {
			return err
		}
		ok, err := a.deps.Targets.Exists(dbc.Ctx, dbc.Tx, in.NewTargetID)
		if err != nil {
			return err
		}
		if err := RequireTargetExists(ok, fmt.Sprintf("target concept %d does not exist", in.NewTargetID)); err != nil {
			return err
		}
		if err := a.deps.Relationships.Insert(dbc.Ctx, dbc.Tx, in.SourceID, in.NewTargetID, now, types.SentinelExpiry); err != nil {
			return err
		}
		out = domainagg.RetargetConceptResult{
			SourceID:     in.SourceID,
			TargetID:     in.NewTargetID,
			Superseded:   superseded,
			RetargetedAt: now,
		}
		return nil
	})
	if err != nil {
		return domainagg.RetargetConceptResult{}, err
	}
	if out.Superseded > 1 {
		base.Log.Warn("Retarget superseded more than one active edge", "concept_id", in.SourceID, "superseded", out.Superseded)
	}
	base.Log.Info("Concept retargeted", "concept_id", in.SourceID, "target_id", in.NewTargetID)
	return out, nil
}

func (a *mappingAggregate) DeleteConcept(ctx context.Context, in domainagg.DeleteConceptInput) (domainagg.DeleteConceptResult, error) {
	const op = "Registry.Mapping.Delete"
	var out domainagg.DeleteConceptResult
	base := a.deps.Base
	if err := a.configured(op); err != nil {
		return out, observeWrite(base, op, time.Now(), err)
	}
	if in.ConceptID <= 0 {
		return out, observeWrite(base, op, time.Now(), domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("concept %d is not active", in.ConceptID), nil))
	}

	now := base.Clock.Now()
	err := executeWrite(ctx, base, op, func(dbc dbctx.Context) error {
		changed, err := a.deps.Concepts.Invalidate(dbc.Ctx, dbc.Tx, in.ConceptID, types.InvalidReasonDeleted, now)
		if err != nil {
			return err
		}
		if err := RequireGuardHit(changed, fmt.Sprintf("concept %d is not active", in.ConceptID)); err != nil {
			return err
		}
		// Only active edges change; superseded versions keep their 'U' stamp.
		edges, err := a.deps.Relationships.InvalidateAllActive(dbc.Ctx, dbc.Tx, in.ConceptID, types.InvalidReasonDeleted, now)
		if err != nil {
			return err
		}
		out = domainagg.DeleteConceptResult{ConceptID: in.ConceptID, InvalidatedEdges: edges, DeletedAt: now}
		return nil
	})
	if err != nil {
		return domainagg.DeleteConceptResult{}, err
	}
	base.Log.Info("Concept deleted", "concept_id", in.ConceptID, "invalidated_edges", out.InvalidatedEdges)
	return out, nil
}
