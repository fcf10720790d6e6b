// Package httpmiddleware 提供 net/http 形式的通用中间件：
// 请求 ID、访问日志、指标、限流。
package httpmiddleware

import "net/http"

type Middleware func(http.Handler) http.Handler

// Chain 依次套上中间件：Chain(h, a, b) 等价于 a(b(h))。
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// responseWriter 记录写出的状态码和字节数，给日志和指标用。
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	size        int
	wroteHeader bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func (rw *responseWriter) Status() int {
	return rw.statusCode
}

func (rw *responseWriter) Size() int {
	return rw.size
}
