package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-scheduling-server/internal/config"
	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sessionRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(SessionMiddleware(cfg))
	r.GET("/whoami", func(c *gin.Context) {
		id, _ := GetProfessionalIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"professionalId": id})
	})
	return r
}

func TestSessionMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret", JWTExpirationMinutes: 5}
	token, err := utils.GenerateAccessToken(&models.Professional{BaseModel: models.BaseModel{ID: "pro-1"}}, cfg)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantID     string
	}{
		{name: "no header passes", wantStatus: http.StatusOK},
		{name: "valid token", header: "Bearer " + token, wantStatus: http.StatusOK, wantID: "pro-1"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-token", wantStatus: http.StatusUnauthorized},
	}

	r := sessionRouter(cfg)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.wantID, body["professionalId"])
			}
		})
	}
}

func TestRequestIDAndLogging(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestID(), Logging(logger.NewWithOutput("info", &buf)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, generated)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, generated, line["request_id"])
	assert.Equal(t, "/ping", line["path"])
	assert.EqualValues(t, http.StatusNoContent, line["status"])

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "caller-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "caller-id", w.Header().Get("X-Request-ID"))
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := gin.New()
	r.Use(RateLimit(NewRateLimiter(ctx, 0.001, 2)))
	r.POST("/book", func(c *gin.Context) { c.Status(http.StatusCreated) })

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/book", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, call("10.0.0.1"))
	assert.Equal(t, http.StatusCreated, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusCreated, call("10.0.0.2"))
}

func TestRateLimitNilLimiterAllowsAll(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(nil))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
