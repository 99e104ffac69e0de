package app

import (
	apphttp "github.com/yungbote/mapping-manager/internal/http"
	"github.com/yungbote/mapping-manager/internal/observability"
	"github.com/yungbote/mapping-manager/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *apphttp.Server {
	return apphttp.NewServer(cfg.HTTPAddr, apphttp.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    cfg.Otel.ServiceName,
		AllowedOrigins: cfg.AllowedOrigins,
		ConceptHandler: handlers.Concept,
		HealthHandler:  handlers.Health,
	})
}
