package httpmiddleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, req)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		order = append(order, "handler")
	}), mw("a"), mw("b"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "handler" {
		t.Fatalf("unexpected order: %v", order)
	}
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), RequestID())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rec.Header().Get("X-Request-ID"); len(got) != 32 {
		t.Fatalf("generated id: got %q", got)
	}

	// 上游带了 ID 就原样透传
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "upstream-id" {
		t.Fatalf("echoed id: got %q", got)
	}
}

func TestAccessLog_LogsStatusAndPath(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("nope"))
	}), RequestID(), AccessLog())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/abc123", nil))

	out := buf.String()
	for _, want := range []string{`"msg":"access"`, `"path":"/abc123"`, `"status":404`, `"bytes":4`} {
		if !strings.Contains(out, want) {
			t.Fatalf("access log missing %s: %s", want, out)
		}
	}
	// 链路里带了 RequestID 时，日志要能关联到响应头里的同一个 ID
	id := rec.Header().Get("X-Request-ID")
	if id == "" || !strings.Contains(out, id) {
		t.Fatalf("access log missing request id %q: %s", id, out)
	}
}

func TestResponseWriter_RecordsStatusAndSize(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusOK) // 第二次写应被忽略
	rw.Write([]byte("nope"))

	if rw.Status() != http.StatusNotFound {
		t.Fatalf("Status: got %d", rw.Status())
	}
	if rw.Size() != 4 {
		t.Fatalf("Size: got %d", rw.Size())
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("recorder code: got %d", rec.Code)
	}
}

func TestRateLimit_NilLimiterPassesThrough(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), RateLimit(nil, "test", 1, time.Minute))

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i, rec.Code)
		}
	}
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"direct", "203.0.113.9:1234", nil, "203.0.113.9"},
		{"trusted proxy forwards", "127.0.0.1:1234", map[string]string{"X-Forwarded-For": "203.0.113.10, 10.0.0.1"}, "203.0.113.10"},
		{"trusted proxy real-ip", "10.0.0.2:1234", map[string]string{"X-Real-IP": "203.0.113.11"}, "203.0.113.11"},
		{"untrusted source cannot spoof", "203.0.113.9:1234", map[string]string{"X-Forwarded-For": "198.51.100.1"}, "203.0.113.9"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tc.remoteAddr
		for k, v := range tc.headers {
			req.Header.Set(k, v)
		}
		if got := ClientIP(req); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
