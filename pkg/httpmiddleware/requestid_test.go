package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var fromCtx string
	handler := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		fromCtx = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	echoed := rec.Header().Get("X-Request-ID")
	require.NotEmpty(t, echoed)
	assert.Equal(t, echoed, fromCtx)

	_, err := uuid.Parse(echoed)
	assert.NoError(t, err)
}

func TestRequestID_ReusesValidHeader(t *testing.T) {
	handler := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-trace-42")
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "upstream-trace-42", rec.Header().Get("X-Request-ID"))
}

func TestRequestID_ReplacesInvalidHeader(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"control characters", "bad\x00id"},
		{"non ascii", "идентификатор"},
		{"too long", strings.Repeat("a", 129)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-ID", tt.id)
			handler.ServeHTTP(rec, req)

			echoed := rec.Header().Get("X-Request-ID")
			assert.NotEqual(t, tt.id, echoed)
			_, err := uuid.Parse(echoed)
			assert.NoError(t, err)
		})
	}
}

func TestRequestIDFromContext_WithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, RequestIDFromContext(req.Context()))
}
