package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetaContext(t *testing.T) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c
}

func TestSetCacheHitAndExtractMeta(t *testing.T) {
	c := newMetaContext(t)

	assert.Nil(t, ExtractMeta(c))

	SetCacheHit(c, true)
	meta := ExtractMeta(c)
	require.NotNil(t, meta)
	assert.Equal(t, true, meta[cacheHitKey])
}

func TestExtractMetaNilContext(t *testing.T) {
	assert.Nil(t, ExtractMeta(nil))
}

func TestWithResponseMetaStampsProcessingTime(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(WithResponseMeta())

	var meta map[string]interface{}
	r.GET("/", func(c *gin.Context) {
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, meta)
	_, ok := meta["processing_time_ms"]
	assert.True(t, ok)
}
