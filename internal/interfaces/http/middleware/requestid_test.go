package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestIDTestRouter(capture *string) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		if capture != nil {
			*capture = GetRequestID(c)
		}
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	var captured string
	router := requestIDTestRouter(&captured)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	echoed := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, echoed)
	_, err := uuid.Parse(echoed)
	assert.NoError(t, err)
	assert.Equal(t, echoed, captured)
}

func TestRequestID_HonorsCallerSupplied(t *testing.T) {
	var captured string
	router := requestIDTestRouter(&captured)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-abc-123", captured)
}
