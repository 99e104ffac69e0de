package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/mapping-manager/internal/http/handlers"
	httpMW "github.com/yungbote/mapping-manager/internal/http/middleware"
	"github.com/yungbote/mapping-manager/internal/observability"
	"github.com/yungbote/mapping-manager/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	ServiceName    string
	AllowedOrigins []string

	ConceptHandler *httpH.ConceptHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "mapping-manager"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log))
	if cfg.Metrics != nil {
		r.Use(httpMW.Metrics(cfg.Metrics, "/metrics", "/heartbeat"))
	}
	r.Use(httpMW.CORS(cfg.AllowedOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/heartbeat", cfg.HealthHandler.Heartbeat)
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	// Registry
	if cfg.ConceptHandler != nil {
		r.GET("/concepts", cfg.ConceptHandler.ListConcepts)
		r.POST("/concept", cfg.ConceptHandler.CreateConcept)
		r.GET("/concept/:concept_id", cfg.ConceptHandler.GetConcept)
		r.PATCH("/concept/:concept_id", cfg.ConceptHandler.RetargetConcept)
		r.DELETE("/concept/:concept_id", cfg.ConceptHandler.DeleteConcept)
		r.GET("/concept/:concept_id/target", cfg.ConceptHandler.GetActiveTarget)
		r.GET("/concept/:concept_id/relationships", cfg.ConceptHandler.ListConceptRelationships)
		r.GET("/concept_relationships", cfg.ConceptHandler.ListRelationships)
	}

	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	return r
}
