package relationship

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/mapping-manager/internal/domain"
	"github.com/yungbote/mapping-manager/internal/platform/logger"
)

// RelationshipRepo is the Relationship Ledger of "maps to" edge versions.
type RelationshipRepo interface {
	// GetActiveTarget joins the active edge of sourceID to the target terminology row.
	// gorm.ErrRecordNotFound covers both "never mapped" and "source deleted".
	GetActiveTarget(ctx context.Context, tx *gorm.DB, sourceID int64) (*types.TargetConcept, error)
	// InvalidateAllActive closes every active edge of sourceID and returns how many it closed.
	InvalidateAllActive(ctx context.Context, tx *gorm.DB, sourceID int64, reason string, asOf time.Time) (int64, error)
	// Insert adds a new active "maps to" edge valid from asOf until expiry.
	Insert(ctx context.Context, tx *gorm.DB, sourceID, targetID int64, asOf, expiry time.Time) error
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.ConceptRelationship, error)
	// ListBySource returns every version sourced by sourceID, superseded ones first.
	ListBySource(ctx context.Context, tx *gorm.DB, sourceID int64) ([]*types.ConceptRelationship, error)
	CountActive(ctx context.Context, tx *gorm.DB, sourceID int64) (int64, error)
}

type relationshipRepo struct {
	db              *gorm.DB
	log             *logger.Logger
	vocabularyTable string
}

func NewRelationshipRepo(db *gorm.DB, baseLog *logger.Logger, vocabularyTable string) RelationshipRepo {
	repoLog := baseLog.With("repo", "RelationshipRepo")
	return &relationshipRepo{db: db, log: repoLog, vocabularyTable: strings.TrimSpace(vocabularyTable)}
}

func (r *relationshipRepo) GetActiveTarget(ctx context.Context, tx *gorm.DB, sourceID int64) (*types.TargetConcept, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.TargetConcept
	if err := transaction.WithContext(ctx).
		Table(r.vocabularyTable+" AS ct").
		Select("ct.*").
		Joins("INNER JOIN concept_relationship cr ON cr.concept_id_2 = ct.concept_id").
		Where("cr.concept_id_1 = ? AND cr.invalid_reason IS NULL", sourceID).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *relationshipRepo) InvalidateAllActive(ctx context.Context, tx *gorm.DB, sourceID int64, reason string, asOf time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return 0, errors.New("invalid reason is required")
	}
	res := transaction.WithContext(ctx).
		Model(&types.ConceptRelationship{}).
		Where("concept_id_1 = ? AND invalid_reason IS NULL", sourceID).
		Updates(map[string]any{
			"valid_end_date": types.DateOf(asOf),
			"invalid_reason": reason,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 1 {
		r.log.Warn("More than one active relationship invalidated", "concept_id_1", sourceID, "rows", res.RowsAffected)
	}
	return res.RowsAffected, nil
}

func (r *relationshipRepo) Insert(ctx context.Context, tx *gorm.DB, sourceID, targetID int64, asOf, expiry time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if sourceID <= 0 || targetID <= 0 {
		return errors.New("source and target ids are required")
	}
	return transaction.WithContext(ctx).
		Create(types.NewActiveRelationship(sourceID, targetID, asOf, expiry)).Error
}

func (r *relationshipRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.ConceptRelationship, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	results := []*types.ConceptRelationship{}
	if err := transaction.WithContext(ctx).
		Order("concept_id_1 ASC").
		Order("CASE WHEN invalid_reason IS NULL THEN 1 ELSE 0 END ASC").
		Order("valid_start_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *relationshipRepo) ListBySource(ctx context.Context, tx *gorm.DB, sourceID int64) ([]*types.ConceptRelationship, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	results := []*types.ConceptRelationship{}
	if err := transaction.WithContext(ctx).
		Where("concept_id_1 = ?", sourceID).
		Order("CASE WHEN invalid_reason IS NULL THEN 1 ELSE 0 END ASC").
		Order("valid_start_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *relationshipRepo) CountActive(ctx context.Context, tx *gorm.DB, sourceID int64) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ConceptRelationship{}).
		Where("concept_id_1 = ? AND invalid_reason IS NULL", sourceID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
