package interaction

import (
	"net/http"

	"github.com/GenturixHub/genturix-alerts/internal/errors"
	"github.com/GenturixHub/genturix-alerts/internal/logger"
	"github.com/gin-gonic/gin"
)

// Event is the platform callback for a notification interaction.
type Event struct {
	Kind   string            `json:"kind" binding:"required"` // "click" or "close"
	Action string            `json:"action"`                  // "", "view", "acknowledge" or "dismiss"
	Data   map[string]string `json:"data"`
}

// Handler exposes the interaction endpoints of the background context.
type Handler struct {
	router *Router
}

// NewHandler creates an interaction handler.
func NewHandler(router *Router) *Handler {
	return &Handler{router: router}
}

// HandleEvent receives a click or close callback and routes it.
func (h *Handler) HandleEvent(c *gin.Context) {
	var event Event
	if err := c.ShouldBindJSON(&event); err != nil {
		errors.AbortWithBadRequest(c, "invalid interaction event", map[string]interface{}{
			"reason": err.Error(),
		})
		return
	}

	ctx := logger.WithRequestID(c.Request.Context(), logger.GenerateRequestID())
	if event.Data == nil {
		event.Data = map[string]string{}
	}

	switch event.Kind {
	case "click":
		h.router.HandleClick(ctx, event.Action, event.Data)
	case "close":
		h.router.HandleClose(ctx, event.Data)
	default:
		errors.AbortWithBadRequest(c, "unknown event kind", map[string]interface{}{
			"kind": event.Kind,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleStop broadcasts an explicit stop signal to all open instances.
func (h *Handler) HandleStop(c *gin.Context) {
	var body struct {
		Data map[string]string `json:"data"`
	}
	// An empty body is a valid "just stop everything".
	_ = c.ShouldBindJSON(&body)
	if body.Data == nil {
		body.Data = map[string]string{}
	}

	ctx := logger.WithRequestID(c.Request.Context(), logger.GenerateRequestID())
	if err := h.router.StopAll(ctx, body.Data); err != nil {
		errors.AbortWithInternal(c, "failed to broadcast stop signal", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
