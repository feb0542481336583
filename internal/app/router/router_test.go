package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	founditemshandler "finditnow_backend/internal/feature/founditems/transport/handler"
	"finditnow_backend/internal/feature/itemsearch/domain/entity"
	itemsearchhandler "finditnow_backend/internal/feature/itemsearch/transport/handler"
	"finditnow_backend/internal/platform/logging"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubSearch struct{}

func (stubSearch) Search(ctx context.Context, body []byte) ([]entity.MatchResult, error) {
	return []entity.MatchResult{{Key: "a.jpg", Labels: []entity.Label{{Name: "Umbrella", Confidence: 99}}}}, nil
}

type stubItems struct{}

func (stubItems) List(ctx context.Context) ([]string, error) { return []string{"a.jpg"}, nil }

func (stubItems) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	return nil
}

func (stubItems) Delete(ctx context.Context, key string) error { return nil }

func newTestRouter() *gin.Engine {
	return NewRouter(
		itemsearchhandler.NewSearchHandler(stubSearch{}, time.Second, 1<<20),
		founditemshandler.NewFoundItemsHandler(stubItems{}, 1<<20),
		nil,
	)
}

func TestNewRouter_Routes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodHead, "/healthz", "", http.StatusOK},
		{http.MethodOptions, "/healthz", "", http.StatusNoContent},
		{http.MethodGet, "/readyz", "", http.StatusOK},
		{http.MethodPost, "/search-item", "aGVsbG8=", http.StatusOK},
		{http.MethodGet, "/found-items", "", http.StatusOK},
		{http.MethodPut, "/found-items/a.jpg", "jpeg", http.StatusCreated},
		{http.MethodDelete, "/found-items/a.jpg", "", http.StatusOK},
		{http.MethodGet, "/unknown", "", http.StatusNotFound},
	}

	r := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get(logging.HeaderRequestID))
		})
	}
}

func TestNewRouter_SearchPreflight(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodOptions, "/search-item", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestNewRouter_SearchEnvelope(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/search-item", strings.NewReader("aGVsbG8="))
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST", w.Header().Get("Access-Control-Allow-Methods"))
	assert.JSONEq(t, `[{"Image":"a.jpg","Labels":[{"Label":"Umbrella","Confidence":99}]}]`, w.Body.String())
}
