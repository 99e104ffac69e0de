package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mapping-manager/internal/http/response"
)

var errStoreUnavailable = errors.New("store unavailable")

// Pinger reports store reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler { return &HealthHandler{db: db} }

// GET /heartbeat
func (h *HealthHandler) Heartbeat(c *gin.Context) {
	c.Status(http.StatusOK)
}

// GET /healthcheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			_ = c.Error(err)
			response.RespondError(c, http.StatusServiceUnavailable, "store_unavailable", errStoreUnavailable)
			return
		}
	}
	c.String(http.StatusOK, "ok")
}
