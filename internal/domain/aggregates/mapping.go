package aggregates

import (
	"context"
	"time"

	"github.com/yungbote/mapping-manager/internal/domain/mapping"
)

var MappingAggregateContract = Contract{
	Name:             "Registry.MappingAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes: "Owns the concept lifecycle and its maps-to edge versions; at most one active edge " +
		"per source concept, concepts never reactivate.",
}

// MappingAggregate owns the versioning rules of a concept and its mapping edge.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeConflict, CodeNotFound, CodeTargetNotFound, CodeRetryable, CodeInternal.
type MappingAggregate interface {
	Aggregate

	// CreateConcept inserts an active concept and its first active edge atomically.
	CreateConcept(ctx context.Context, in CreateConceptInput) (CreateConceptResult, error)

	// RetargetConcept supersedes the active edge of a source concept with a new version.
	RetargetConcept(ctx context.Context, in RetargetConceptInput) (RetargetConceptResult, error)

	// DeleteConcept invalidates a concept and cascades to its active edges.
	DeleteConcept(ctx context.Context, in DeleteConceptInput) (DeleteConceptResult, error)
}

type CreateConceptInput struct {
	Draft    mapping.ConceptDraft
	TargetID int64
}

type CreateConceptResult struct {
	ConceptID int64
	TargetID  int64
	CreatedAt time.Time
}

type RetargetConceptInput struct {
	SourceID    int64
	NewTargetID int64
}

type RetargetConceptResult struct {
	SourceID     int64
	TargetID     int64
	Superseded   int64
	RetargetedAt time.Time
}

type DeleteConceptInput struct {
	ConceptID int64
}

type DeleteConceptResult struct {
	ConceptID        int64
	InvalidatedEdges int64
	DeletedAt        time.Time
}
