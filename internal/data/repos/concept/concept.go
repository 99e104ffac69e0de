package concept

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/mapping-manager/internal/domain"
	"github.com/yungbote/mapping-manager/internal/platform/logger"
)

// ConceptRepo is the Concept Store. Every method runs on tx when given, otherwise on the
// repo's pool.
type ConceptRepo interface {
	// FindActiveDuplicate returns the active concept holding key, or nil.
	FindActiveDuplicate(ctx context.Context, tx *gorm.DB, key types.NaturalKey) (*types.Concept, error)
	// Insert stores c as active and returns the identity the store assigned (or c's own,
	// when set). Identity or active natural-key collisions surface as the driver's
	// unique-violation error.
	Insert(ctx context.Context, tx *gorm.DB, c *types.Concept) (int64, error)
	// GetByID returns the row in any state; gorm.ErrRecordNotFound when absent.
	GetByID(ctx context.Context, tx *gorm.DB, conceptID int64) (*types.Concept, error)
	// GetActive returns the row only while active; gorm.ErrRecordNotFound otherwise.
	GetActive(ctx context.Context, tx *gorm.DB, conceptID int64) (*types.Concept, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Concept, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Concept, error)
	// Invalidate closes the validity window of an active row. It reports false when the
	// row is absent or already invalidated.
	Invalidate(ctx context.Context, tx *gorm.DB, conceptID int64, reason string, asOf time.Time) (bool, error)
}

type conceptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConceptRepo(db *gorm.DB, baseLog *logger.Logger) ConceptRepo {
	repoLog := baseLog.With("repo", "ConceptRepo")
	return &conceptRepo{db: db, log: repoLog}
}

func (r *conceptRepo) FindActiveDuplicate(ctx context.Context, tx *gorm.DB, key types.NaturalKey) (*types.Concept, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	key = key.Normalize()

	var results []*types.Concept
	if err := transaction.WithContext(ctx).
		Where("domain_id = ? AND vocabulary_id = ? AND concept_code = ? AND concept_class_id = ?",
			key.DomainID, key.VocabularyID, key.ConceptCode, key.ConceptClassID).
		Where("invalid_reason IS NULL").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *conceptRepo) Insert(ctx context.Context, tx *gorm.DB, c *types.Concept) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if c == nil {
		return 0, errors.New("concept is required")
	}
	if !c.Active() {
		return 0, errors.New("only active concepts can be inserted")
	}
	if err := transaction.WithContext(ctx).Create(c).Error; err != nil {
		return 0, err
	}
	return c.ConceptID, nil
}

func (r *conceptRepo) GetByID(ctx context.Context, tx *gorm.DB, conceptID int64) (*types.Concept, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.Concept
	if err := transaction.WithContext(ctx).
		Where("concept_id = ?", conceptID).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *conceptRepo) GetActive(ctx context.Context, tx *gorm.DB, conceptID int64) (*types.Concept, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.Concept
	if err := transaction.WithContext(ctx).
		Where("concept_id = ? AND invalid_reason IS NULL", conceptID).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *conceptRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Concept, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	results := []*types.Concept{}
	if err := transaction.WithContext(ctx).
		Where("invalid_reason IS NULL").
		Order("concept_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *conceptRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Concept, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	results := []*types.Concept{}
	if err := transaction.WithContext(ctx).
		Order("concept_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *conceptRepo) Invalidate(ctx context.Context, tx *gorm.DB, conceptID int64, reason string, asOf time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return false, errors.New("invalid reason is required")
	}
	res := transaction.WithContext(ctx).
		Model(&types.Concept{}).
		Where("concept_id = ? AND invalid_reason IS NULL", conceptID).
		Updates(map[string]any{
			"valid_end_date": types.DateOf(asOf),
			"invalid_reason": reason,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 1 {
		r.log.Error("Concept invalidation touched more than one row", "concept_id", conceptID, "rows", res.RowsAffected)
	}
	return res.RowsAffected > 0, nil
}
