package vocabulary

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/mapping-manager/internal/domain"
	"github.com/yungbote/mapping-manager/internal/platform/logger"
)

// TargetLookup answers whether a target terminology concept exists.
type TargetLookup interface {
	Exists(ctx context.Context, tx *gorm.DB, targetID int64) (bool, error)
}

// TargetRepo reads the externally owned terminology table. LoadMissing exists only for
// seeding development databases.
type TargetRepo interface {
	TargetLookup
	GetByID(ctx context.Context, tx *gorm.DB, targetID int64) (*types.TargetConcept, error)
	LoadMissing(ctx context.Context, tx *gorm.DB, concepts []*types.TargetConcept) (int64, error)
	Table() string
}

type targetRepo struct {
	db    *gorm.DB
	log   *logger.Logger
	table string
}

func NewTargetRepo(db *gorm.DB, baseLog *logger.Logger, table string) TargetRepo {
	repoLog := baseLog.With("repo", "TargetRepo")
	return &targetRepo{db: db, log: repoLog, table: strings.TrimSpace(table)}
}

func (r *targetRepo) Table() string { return r.table }

func (r *targetRepo) Exists(ctx context.Context, tx *gorm.DB, targetID int64) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if targetID <= 0 {
		return false, nil
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Table(r.table).
		Where("concept_id = ?", targetID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *targetRepo) GetByID(ctx context.Context, tx *gorm.DB, targetID int64) (*types.TargetConcept, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.TargetConcept
	if err := transaction.WithContext(ctx).
		Table(r.table).
		Where("concept_id = ?", targetID).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *targetRepo) LoadMissing(ctx context.Context, tx *gorm.DB, concepts []*types.TargetConcept) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(concepts) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Table(r.table).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "concept_id"}}, DoNothing: true}).
		CreateInBatches(concepts, 500)
	if res.Error != nil {
		return 0, res.Error
	}
	r.log.Info("Loaded target concepts", "requested", len(concepts), "inserted", res.RowsAffected)
	return res.RowsAffected, nil
}
