package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerAttachesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	h := chimw.RequestID(Logger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short"))
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	var inner, outer map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inner))
	require.NoError(t, json.Unmarshal(lines[1], &outer))
	assert.Equal(t, "inside", inner["message"])
	assert.NotEmpty(t, inner["request_id"])
	assert.Equal(t, inner["request_id"], outer["request_id"])
	assert.Equal(t, "warn", outer["level"])
	assert.EqualValues(t, 418, outer["status"])
	assert.EqualValues(t, 5, outer["bytes"])
	assert.Equal(t, "/api/v1/stats", outer["path"])
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORS([]string{"https://portal.example.org"})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/sos", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Authorization")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := preflight("https://portal.example.org")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "https://portal.example.org", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.MethodPost, rec.Header().Get("Access-Control-Allow-Methods"))

	rec = preflight("https://evil.example.com")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAnyOrigin(t *testing.T) {
	h := CORS(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="log.txt"`)
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/attachments/1/download", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}
