package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_portal/internal/utils"
)

var startTime = time.Now()

// Pinger is any dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	deps map[string]Pinger
}

// NewHealthHandler creates a new HealthHandler. Nil dependencies are reported
// as "disabled".
func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// GetHealth responds with service and dependency status. The portal stays
// healthy when optional dependencies are down.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	deps := gin.H{}
	for name, p := range h.deps {
		switch {
		case p == nil:
			deps[name] = "disabled"
		case p.Ping(ctx) != nil:
			deps[name] = "disconnected"
		default:
			deps[name] = "connected"
		}
	}

	utils.Success(c, http.StatusOK, "Service is healthy", gin.H{
		"status":       "healthy",
		"version":      "1.0.0",
		"uptime":       int(time.Since(startTime).Seconds()),
		"dependencies": deps,
	})
}
