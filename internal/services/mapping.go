package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/yungbote/mapping-manager/internal/data/repos/concept"
	"github.com/yungbote/mapping-manager/internal/data/repos/relationship"
	types "github.com/yungbote/mapping-manager/internal/domain"
	domainagg "github.com/yungbote/mapping-manager/internal/domain/aggregates"
	"github.com/yungbote/mapping-manager/internal/observability"
	"github.com/yungbote/mapping-manager/internal/platform/logger"
)

// MappingService is the registry entry point for handlers and commands. Writes go through
// the mapping aggregate; reads query the table repos with their active-only filters.
type MappingService interface {
	CreateConcept(ctx context.Context, draft types.ConceptDraft, targetID int64) (int64, error)
	RetargetConcept(ctx context.Context, sourceID, targetID int64) error
	DeleteConcept(ctx context.Context, conceptID int64) error

	ListConcepts(ctx context.Context) ([]*types.Concept, error)
	GetConcept(ctx context.Context, conceptID int64) (*types.Concept, error)
	GetActiveTarget(ctx context.Context, conceptID int64) (*types.TargetConcept, error)
	ListRelationships(ctx context.Context) ([]*types.ConceptRelationship, error)
	ListRelationshipsForConcept(ctx context.Context, conceptID int64) ([]*types.ConceptRelationship, error)
}

type mappingService struct {
	log           *logger.Logger
	agg           domainagg.MappingAggregate
	concepts      concept.ConceptRepo
	relationships relationship.RelationshipRepo
	tracer        trace.Tracer
}

func NewMappingService(
	baseLog *logger.Logger,
	agg domainagg.MappingAggregate,
	concepts concept.ConceptRepo,
	relationships relationship.RelationshipRepo,
) MappingService {
	return &mappingService{
		log:           baseLog.With("service", "MappingService"),
		agg:           agg,
		concepts:      concepts,
		relationships: relationships,
		tracer:        observability.Tracer(),
	}
}

func (s *mappingService) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "mapping."+name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(domainagg.CodeOf(err)))
	}
	span.End()
}

func (s *mappingService) CreateConcept(ctx context.Context, draft types.ConceptDraft, targetID int64) (id int64, err error) {
	ctx, span := s.span(ctx, "create", attribute.Int64("target_id", targetID))
	defer func() { endSpan(span, err) }()

	res, err := s.agg.CreateConcept(ctx, domainagg.CreateConceptInput{Draft: draft, TargetID: targetID})
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.Int64("concept_id", res.ConceptID))
	return res.ConceptID, nil
}

func (s *mappingService) RetargetConcept(ctx context.Context, sourceID, targetID int64) (err error) {
	ctx, span := s.span(ctx, "retarget", attribute.Int64("concept_id", sourceID), attribute.Int64("target_id", targetID))
	defer func() { endSpan(span, err) }()

	_, err = s.agg.RetargetConcept(ctx, domainagg.RetargetConceptInput{SourceID: sourceID, NewTargetID: targetID})
	return err
}

func (s *mappingService) DeleteConcept(ctx context.Context, conceptID int64) (err error) {
	ctx, span := s.span(ctx, "delete", attribute.Int64("concept_id", conceptID))
	defer func() { endSpan(span, err) }()

	_, err = s.agg.DeleteConcept(ctx, domainagg.DeleteConceptInput{ConceptID: conceptID})
	return err
}

func (s *mappingService) ListConcepts(ctx context.Context) (out []*types.Concept, err error) {
	ctx, span := s.span(ctx, "list_concepts")
	defer func() { endSpan(span, err) }()

	out, err = s.concepts.ListActive(ctx, nil)
	return out, readError("Registry.ListConcepts", err)
}

// GetConcept returns the row whether or not it has been invalidated.
func (s *mappingService) GetConcept(ctx context.Context, conceptID int64) (out *types.Concept, err error) {
	ctx, span := s.span(ctx, "get_concept", attribute.Int64("concept_id", conceptID))
	defer func() { endSpan(span, err) }()

	out, err = s.concepts.GetByID(ctx, nil, conceptID)
	if err != nil {
		return nil, readError("Registry.GetConcept", err, fmt.Sprintf("concept %d does not exist", conceptID))
	}
	return out, nil
}

func (s *mappingService) GetActiveTarget(ctx context.Context, conceptID int64) (out *types.TargetConcept, err error) {
	ctx, span := s.span(ctx, "get_active_target", attribute.Int64("concept_id", conceptID))
	defer func() { endSpan(span, err) }()

	out, err = s.relationships.GetActiveTarget(ctx, nil, conceptID)
	if err != nil {
		return nil, readError("Registry.GetActiveTarget", err, fmt.Sprintf("concept %d has no active mapping", conceptID))
	}
	return out, nil
}

func (s *mappingService) ListRelationships(ctx context.Context) (out []*types.ConceptRelationship, err error) {
	ctx, span := s.span(ctx, "list_relationships")
	defer func() { endSpan(span, err) }()

	out, err = s.relationships.ListAll(ctx, nil)
	return out, readError("Registry.ListRelationships", err)
}

func (s *mappingService) ListRelationshipsForConcept(ctx context.Context, conceptID int64) (out []*types.ConceptRelationship, err error) {
	ctx, span := s.span(ctx, "list_concept_relationships", attribute.Int64("concept_id", conceptID))
	defer func() { endSpan(span, err) }()

	if _, err = s.concepts.GetByID(ctx, nil, conceptID); err != nil {
		return nil, readError("Registry.ListConceptRelationships", err, fmt.Sprintf("concept %d does not exist", conceptID))
	}
	out, err = s.relationships.ListBySource(ctx, nil, conceptID)
	return out, readError("Registry.ListConceptRelationships", err)
}

// readError classifies read path failures: a missing row is NotFound, anything else is an
// opaque store failure.
func readError(op string, err error, notFound ...string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		msg := "not found"
		if len(notFound) > 0 {
			msg = notFound[0]
		}
		return domainagg.NewError(domainagg.CodeNotFound, op, msg, err)
	}
	return domainagg.Wrap(domainagg.CodeStoreFailure, op, err)
}
