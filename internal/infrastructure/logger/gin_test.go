package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func findEntry(logs []observer.LoggedEntry, msg string) *observer.LoggedEntry {
	for i := range logs {
		if logs[i].Message == msg {
			return &logs[i]
		}
	}
	return nil
}

func fieldMap(e *observer.LoggedEntry) map[string]zapcore.Field {
	m := make(map[string]zapcore.Field, len(e.Context))
	for _, f := range e.Context {
		m[f.Key] = f
	}
	return m
}

func TestGinMiddleware_LogsRequestLine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-123")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/dossiers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/dossiers?statut=NOUVEAU", nil)
	req.Header.Set("X-Actor-ID", "agent-7")
	req.Header.Set("X-Actor-Role", "AGENT")
	router.ServeHTTP(w, req)

	entry := findEntry(recorded.All(), "request completed")
	require.NotNil(t, entry)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)

	fields := fieldMap(entry)
	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "latency")
	assert.Contains(t, fields, "client_ip")
	assert.Equal(t, "statut=NOUVEAU", fields["query"].String)
	assert.Equal(t, "agent-7", fields["actor_id"].String)
	assert.Equal(t, "AGENT", fields["actor_role"].String)
	assert.Equal(t, "req-123", fields["request_id"].String)
}

func TestGinMiddleware_LevelTracksStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"2xx is info", http.StatusOK, zapcore.InfoLevel},
		{"4xx is warn", http.StatusUnprocessableEntity, zapcore.WarnLevel},
		{"5xx is error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.InfoLevel)
			router := gin.New()
			router.Use(GinMiddleware(zap.New(core)))
			router.GET("/x", func(c *gin.Context) { c.Status(tt.status) })

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/x", nil)
			router.ServeHTTP(w, req)

			entry := findEntry(recorded.All(), "request completed")
			require.NotNil(t, entry)
			assert.Equal(t, tt.level, entry.Level)
		})
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/boom", nil)
	assert.NotPanics(t, func() {
		router.ServeHTTP(w, req)
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	entry := findEntry(recorded.All(), "panic recovered")
	require.NotNil(t, entry)
}

func TestGetGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, _ := observer.New(zapcore.InfoLevel)

	var scoped *zap.Logger
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/x", func(c *gin.Context) {
		scoped = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/x", nil)
	router.ServeHTTP(w, req)

	assert.NotNil(t, scoped)
}

func TestGetGinLogger_FallsBackToNop(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var scoped *zap.Logger
	router := gin.New()
	router.GET("/x", func(c *gin.Context) {
		scoped = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/x", nil)
	router.ServeHTTP(w, req)

	require.NotNil(t, scoped)
	assert.NotPanics(t, func() { scoped.Info("x") })
}
