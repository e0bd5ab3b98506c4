package push

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/GenturixHub/genturix-alerts/internal/logger"
	"github.com/gin-gonic/gin"
)

type recordingDispatcher struct {
	mu     sync.Mutex
	bodies [][]byte
}

func (r *recordingDispatcher) Dispatch(_ context.Context, raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bodies = append(r.bodies, raw)
}

func setupPushRouter(dispatcher Dispatcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	log := logger.New(logger.Config{Level: slog.LevelError})
	router.POST("/push", NewHandler(dispatcher, log).HandleIncoming)
	return router
}

func TestHandleIncomingAcceptsJSON(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	router := setupPushRouter(dispatcher)

	body := []byte(`{"title":"PANIC","data":{"type":"panic_alert"}}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/push", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}
	if len(dispatcher.bodies) != 1 || !bytes.Equal(dispatcher.bodies[0], body) {
		t.Errorf("expected raw body handed to dispatcher, got %q", dispatcher.bodies)
	}
}

func TestHandleIncomingAcceptsGarbage(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	router := setupPushRouter(dispatcher)

	for _, body := range []string{"", "not json", `{"truncated`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/push", bytes.NewBufferString(body))
		router.ServeHTTP(w, req)

		if w.Code != http.StatusAccepted {
			t.Errorf("body %q: expected 202, got %d", body, w.Code)
		}
	}
	if len(dispatcher.bodies) != 3 {
		t.Errorf("every body must reach the dispatcher, got %d", len(dispatcher.bodies))
	}
}
