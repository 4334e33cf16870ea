package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleErrorMapsKinds(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.NotFound("lead not found"), http.StatusNotFound},
		{apperr.InvalidTransition("closed"), http.StatusUnprocessableEntity},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		if !HandleError(c, tc.err) {
			t.Fatalf("HandleError(%v) returned false", tc.err)
		}
		if w.Code != tc.want {
			t.Errorf("HandleError(%v) status = %d, want %d", tc.err, w.Code, tc.want)
		}
	}
}

func TestRateLimitRejectsBurstOverflow(t *testing.T) {
	limiter := NewPerMinuteLimiter(2, logger.Discard())
	engine := gin.New()
	engine.Use(limiter.RateLimit())
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		engine.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent {
		t.Fatalf("first two requests should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("third request should be limited, got %d", codes[2])
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/ping", func(c *gin.Context) {
		if c.Request.Context().Value(logger.RequestIDKey) == nil {
			t.Error("request id missing from context")
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	engine.ServeHTTP(w, req)

	if got := w.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("request id header = %q, want abc-123", got)
	}
}

func TestErrorBodyCarriesRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/missing", func(c *gin.Context) {
		HandleError(c, apperr.NotFound("lead not found"))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	engine.ServeHTTP(w, req)

	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.RequestID != "req-42" || body.Kind != apperr.KindNotFound.String() {
		t.Fatalf("body = %+v", body)
	}
}
