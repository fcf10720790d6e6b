package httpmiddleware

import (
	"net/http"
	"strconv"
	"time"

	"sheetlink.local/internal/platform/metrics"
)

// Metrics 按路由模板记录请求数/耗时/在途数。
// route 传注册时的模板（如 /{id}），不要传真实 path，避免高基数 label。
func Metrics(route string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			metrics.HTTPInflightRequests.Inc()
			defer metrics.HTTPInflightRequests.Dec()

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, req)

			metrics.HTTPRequestsTotal.WithLabelValues(req.Method, route, strconv.Itoa(rw.Status())).Inc()
			metrics.HTTPRequestDurationSeconds.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
