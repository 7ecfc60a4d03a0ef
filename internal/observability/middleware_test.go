package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLoggerWritesOneLinePerRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/ping/:id", func(c *gin.Context) {
		FromContext(c.Request.Context()).Info("inside handler")
		c.Status(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping/1", nil)
	req.Header.Set(requestIDHeader, "req-42")
	r.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(requestIDHeader))
	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "inside handler", entries[0].Message)
		assert.Equal(t, "req-42", entries[0].ContextMap()["requestId"])

		completed := entries[1].ContextMap()
		assert.Equal(t, "/ping/:id", completed["path"])
		assert.EqualValues(t, http.StatusTeapot, completed["status"])
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	}
}

func TestFromContextDefaultsToNop(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.NotNil(t, FromContext(req.Context()))
}
