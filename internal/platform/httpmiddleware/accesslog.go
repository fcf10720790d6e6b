package httpmiddleware

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const requestIDHeader = "X-Request-ID"

func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id := req.Header.Get(requestIDHeader)
			if id == "" {
				id = generateReqID()
				if id == "" {
					id = strconv.FormatInt(time.Now().UnixNano(), 10)
				}
				req.Header.Set(requestIDHeader, id)
			}
			w.Header().Set(requestIDHeader, id)

			next.ServeHTTP(w, req)
		})
	}
}

func generateReqID() string {
	src := make([]byte, 16)
	if _, err := rand.Read(src); err != nil {
		return ""
	}
	return hex.EncodeToString(src) // 32 个十六进制字符
}

func AccessLog() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, req)

			slog.Info("access",
				"request_id", req.Header.Get(requestIDHeader),
				"method", req.Method,
				"path", req.URL.Path,
				"status", rw.Status(),
				"bytes", rw.Size(),
				"latency_ms", time.Since(start).Milliseconds())
		})
	}
}
