package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/mapping-manager/internal/http/handlers"
	"github.com/yungbote/mapping-manager/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Concept *httpH.ConceptHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) (Handlers, error) {
	log.Info("Wiring handlers...")
	sqlDB, err := db.DB()
	if err != nil {
		return Handlers{}, err
	}
	return Handlers{
		Health:  httpH.NewHealthHandler(sqlDB),
		Concept: httpH.NewConceptHandler(services.Mapping),
	}, nil
}
