package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ecitizen/handlers"
	"ecitizen/models"
	"ecitizen/services/catalog"
	"ecitizen/services/dialogue"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := dialogue.NewMemorySessionStore(time.Hour, time.Minute, zap.NewNop())
	t.Cleanup(func() { store.Close() })
	svc := dialogue.NewDialogueService(store, dialogue.NewOrchestrator(catalog.Default(), zap.NewNop()), nil, models.LanguageEnglish, zap.NewNop())

	hb := handlers.NewHandlerBundle(
		handlers.NewVoiceHandler(svc, models.LanguageEnglish, zap.NewNop()),
		handlers.NewServicesHandler(catalog.Default(), "https://www.ecitizen.go.ke", models.LanguageEnglish),
	)
	r := gin.New()
	RegisterRoutes(r, hb)
	return r
}

func TestRegisterRoutes(t *testing.T) {
	r := newRouter(t)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/services", "", http.StatusOK},
		{http.MethodGet, "/api/services/passport", "", http.StatusOK},
		{http.MethodPost, "/api/session", `{"language":"en"}`, http.StatusCreated},
		{http.MethodPost, "/api/voice/text", `{"session_id":"abc","text":"book a passport"}`, http.StatusOK},
		{http.MethodGet, "/api/session/abc/status", "", http.StatusOK},
		{http.MethodDelete, "/api/session/abc", "", http.StatusOK},
		{http.MethodPost, "/api/session/abc/end", "", http.StatusOK},
		{http.MethodPost, "/api/session/abc/end", "", http.StatusNotFound},
		{http.MethodGet, "/api/session/a:b/status", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tt.want, w.Code, "%s %s", tt.method, tt.path)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/voice/text", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
