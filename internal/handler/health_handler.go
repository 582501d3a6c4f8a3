package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	appErrors "github.com/agenda-cultural/agenda-api/pkg/errors"
	"github.com/agenda-cultural/agenda-api/pkg/response"
)

// HealthHandler reports liveness and dependency readiness.
type HealthHandler struct {
	db    *sqlx.DB
	redis *redis.Client
}

// NewHealthHandler constructs a HealthHandler. redis may be nil when
// the cache is disabled.
func NewHealthHandler(db *sqlx.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	response.OK(c, "ok", gin.H{"estado": "activo", "timestamp": time.Now().UTC()})
}

// Ready handles GET /ready, pinging each dependency.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	deps := gin.H{}

	if err := h.db.PingContext(ctx); err != nil {
		deps["mysql"] = "down"
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "base de datos no disponible"))
		return
	}
	deps["mysql"] = "up"

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			deps["redis"] = "down"
		} else {
			deps["redis"] = "up"
		}
	}

	response.OK(c, "ready", deps)
}
