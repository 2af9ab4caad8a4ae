package middleware

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"linkboard/backend/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	req, _ := http.NewRequest("GET", "/id", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	generated := resp.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, resp.Body.String())

	req, _ = http.NewRequest("GET", "/id", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, "abc-123", resp.Header().Get(RequestIDHeader))
}

func TestLangMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(LangMiddleware())
	router.GET("/lang", func(c *gin.Context) {
		c.String(http.StatusOK, common.LangFromContext(c.Request.Context()))
	})

	req, _ := http.NewRequest("GET", "/lang", nil)
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, "zh-CN", resp.Body.String())

	req, _ = http.NewRequest("GET", "/lang", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, common.DefaultLang, resp.Body.String())
}

func TestGzipRoundTrip(t *testing.T) {
	router := gin.New()
	router.Use(GzipDecodeMiddleware(), GzipEncodeMiddleware())
	router.POST("/echo", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.Data(http.StatusOK, "text/plain", body)
	})

	var compressed bytes.Buffer
	zw := gzip.NewWriter(&compressed)
	_, err := zw.Write([]byte(`{"query":"{ feed { count } }"}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	req, _ := http.NewRequest("POST", "/echo", &compressed)
	req.Header.Set("Content-Encoding", "gzip")
	req.Header.Set("Accept-Encoding", "gzip")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "gzip", resp.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(resp.Body)
	require.NoError(t, err)
	decoded, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, `{"query":"{ feed { count } }"}`, string(decoded))
}

func TestGzipDecodeRejectsGarbage(t *testing.T) {
	router := gin.New()
	router.Use(GzipDecodeMiddleware())
	router.POST("/echo", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest("POST", "/echo", bytes.NewBufferString("not gzip"))
	req.Header.Set("Content-Encoding", "gzip")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRateLimit(t *testing.T) {
	router := gin.New()
	router.Use(rateLimitFactory(2, time.Hour))
	router.GET("/limited", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest("GET", "/limited", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		codes = append(codes, resp.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// other clients have their own bucket
	req, _ := http.NewRequest("GET", "/limited", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRateLimiterSweepsIdleClientsOncePerWindow(t *testing.T) {
	limiter := newIPRateLimiter(2, time.Minute)
	start := limiter.lastSweep
	for i := 0; i < 2000; i++ {
		limiter.visitors[fmt.Sprintf("10.1.%d.%d", i/256, i%256)] = &visitor{lastSeen: start.Add(-2 * time.Minute)}
	}

	// inside the window nothing is scanned, however many clients are tracked
	limiter.cleanup(start.Add(30 * time.Second))
	assert.Len(t, limiter.visitors, 2000)

	require.True(t, limiter.allow("10.0.0.1"))
	assert.Len(t, limiter.visitors, 2001)
	limiter.visitors["10.0.0.1"].lastSeen = start.Add(50 * time.Second)

	limiter.cleanup(start.Add(61 * time.Second))
	assert.Len(t, limiter.visitors, 1)
	assert.Contains(t, limiter.visitors, "10.0.0.1")
	assert.Equal(t, start.Add(61*time.Second), limiter.lastSweep)
}

func TestCORSPreflight(t *testing.T) {
	router := gin.New()
	router.Use(CORS())
	router.POST("/graphql", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest("OPTIONS", "/graphql", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.NotEmpty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}
