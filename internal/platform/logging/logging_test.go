package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ParseLevel(tt.in))
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger("info", "json", &buf)
	logger.Debug("hidden")
	logger.Info("scan finished", "matches", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "scan finished", entry["msg"])
	assert.EqualValues(t, 2, entry["matches"])
}

func TestNewLogger_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewLogger("debug", "text", &buf).Debug("visible", "key", "a.jpg")

	assert.Contains(t, buf.String(), "msg=visible")
	assert.Contains(t, buf.String(), "key=a.jpg")
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFrom(c))
	})
	return r
}

func TestRequestID_Generated(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := w.Header().Get(HeaderRequestID)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, w.Body.String())
}

func TestRequestID_Propagated(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "client-supplied")
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)

	assert.Equal(t, "client-supplied", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "client-supplied", w.Body.String())
}

func TestRequestID_TooLongReplaced(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("x", maxRequestIDLength+1))
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)

	_, err := uuid.Parse(w.Header().Get(HeaderRequestID))
	assert.NoError(t, err)
}
