package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/mapping-manager/internal/data/aggregates"
	domainagg "github.com/yungbote/mapping-manager/internal/domain/aggregates"
	"github.com/yungbote/mapping-manager/internal/observability"
	"github.com/yungbote/mapping-manager/internal/platform/logger"
	"github.com/yungbote/mapping-manager/internal/platform/objectstore"
	"github.com/yungbote/mapping-manager/internal/services"
)

type Services struct {
	Mapping    services.MappingService
	Vocabulary services.VocabularyService
}

func wireServices(db *gorm.DB, log *logger.Logger, repos Repos, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")
	agg := aggregates.NewMappingAggregate(aggregates.MappingAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:    db,
			Log:   log,
			Hooks: aggregates.NewRegistryHooks(metrics),
		},
		Concepts:      repos.Concepts,
		Relationships: repos.Relationships,
		Targets:       repos.TargetLookup,
	})
	if err := requireContracts(log, agg); err != nil {
		return Services{}, err
	}
	return Services{
		Mapping:    services.NewMappingService(log, agg, repos.Concepts, repos.Relationships),
		Vocabulary: services.NewVocabularyService(log, repos.Targets),
	}, nil
}

// requireContracts refuses to start with an aggregate whose contract lets writes escape
// its transaction.
func requireContracts(log *logger.Logger, aggs ...domainagg.Aggregate) error {
	for _, agg := range aggs {
		c := agg.Contract()
		if err := c.Validate(); err != nil {
			return fmt.Errorf("aggregate contract: %w", err)
		}
		log.Debug("Aggregate contract accepted", "aggregate", c.Name, "tx", c.WriteTxOwnership, "reads", c.ReadPolicy)
	}
	return nil
}

// NewAuditExport opens the configured sink. The caller closes the returned sink.
func (a *App) NewAuditExport(ctx context.Context) (services.AuditExportService, objectstore.Sink, error) {
	sink, err := objectstore.Open(ctx, a.Cfg.Export)
	if err != nil {
		return nil, nil, fmt.Errorf("open export sink: %w", err)
	}
	svc := services.NewAuditExportService(a.Log, aggregates.NewGormReadTxRunner(a.DB), a.Repos.Concepts, a.Repos.Relationships, sink, nil, a.Cfg.ExportPrefix)
	return svc, sink, nil
}
