package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/mapping-manager/internal/data/aggregates"
	"github.com/yungbote/mapping-manager/internal/data/repos/concept"
	"github.com/yungbote/mapping-manager/internal/data/repos/relationship"
	"github.com/yungbote/mapping-manager/internal/data/repos/vocabulary"
	"github.com/yungbote/mapping-manager/internal/observability"
	"github.com/yungbote/mapping-manager/internal/platform/logger"
)

type Repos struct {
	Concepts      concept.ConceptRepo
	Relationships relationship.RelationshipRepo
	Targets       vocabulary.TargetRepo
	// TargetLookup is the cached existence check used by the write path.
	TargetLookup vocabulary.TargetLookup
}

func wireRepos(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients, metrics *observability.Metrics) Repos {
	log.Info("Wiring repos...")
	targets := vocabulary.NewTargetRepo(db, log, cfg.VocabularyTable)

	return Repos{
		Concepts:      concept.NewConceptRepo(db, log),
		Relationships: relationship.NewRelationshipRepo(db, log, cfg.VocabularyTable),
		Targets:       targets,
		TargetLookup: vocabulary.NewCachedLookup(targets, clients.Redis, vocabulary.CachedLookupConfig{
			TTL:         cfg.VocabularyTTL,
			RedisPrefix: cfg.RedisPrefix,
		}, log, aggregates.NewRegistryHooks(metrics)),
	}
}
