package push

import (
	"context"
	"io"
	"net/http"

	"github.com/GenturixHub/genturix-alerts/internal/logger"
	"github.com/gin-gonic/gin"
)

// Dispatcher consumes opaque push bodies. Implemented by the notify service.
type Dispatcher interface {
	Dispatch(ctx context.Context, raw []byte)
}

// Handler exposes the push ingestion endpoint of the background context.
type Handler struct {
	dispatcher Dispatcher
	logger     *logger.Logger
}

// NewHandler creates a push ingestion handler.
func NewHandler(dispatcher Dispatcher, logger *logger.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		logger:     logger.WithComponent("push-handler"),
	}
}

// HandleIncoming receives a push message and hands it to the dispatcher.
//
// The response is 202 regardless of payload shape: a malformed body degrades
// to a generic alert inside the receiver, it is never bounced back to the
// push gateway where a retry loop would gain nothing.
func (h *Handler) HandleIncoming(c *gin.Context) {
	ctx := logger.WithRequestID(c.Request.Context(), logger.GenerateRequestID())

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.WithContext(ctx).Warn("failed to read push body, dispatching defaults")
		raw = nil
	}

	h.dispatcher.Dispatch(ctx, raw)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}
