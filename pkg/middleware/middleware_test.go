package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Brownie44l1/waste-classifier-api/pkg/api"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), HTTPLogger(), HTTPRecovery())
	r.POST("/", handlers...)
	return r
}

func serve(r *gin.Engine, body string, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	for k, v := range header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}
	r.ServeHTTP(w, req)
	return w
}

func TestHTTPRecovery(t *testing.T) {
	tests := []struct {
		name       string
		handler    gin.HandlerFunc
		wantStatus int
		wantBody   string
	}{
		{
			name:       "api error",
			handler:    func(c *gin.Context) { c.Error(api.NewServiceUnavailable("model not loaded")) },
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"detail":"model not loaded"}`,
		},
		{
			name:       "plain error",
			handler:    func(c *gin.Context) { c.Error(errors.New("boom")) },
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"detail":"boom"}`,
		},
		{
			name:       "panic",
			handler:    func(c *gin.Context) { panic("nil map") },
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"detail":"nil map"}`,
		},
		{
			name:       "no error",
			handler:    func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) },
			wantStatus: http.StatusOK,
			wantBody:   `{"ok":true}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newRouter(tt.handler), "", nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestRequestID(t *testing.T) {
	r := newRouter(func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := serve(r, "", http.Header{RequestIDHeader: {"abc-123"}})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())

	w = serve(r, "", nil)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())
}

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		require.NoError(t, err)
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, "small", nil).Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(r, "far too large a body", nil).Code)
}
