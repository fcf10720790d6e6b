// Package httpapi 是短链服务的 HTTP 展示层。
//
// handler 只做“翻译”：把 Resolver 的终态映射成 HTTP 响应，
// 把查询参数翻译成 QR 渲染调用。领域逻辑都在 internal/app/sheetlink。
package httpapi

import (
	"net/http"
	"time"

	"sheetlink.local/internal/app/sheetlink"
	"sheetlink.local/internal/app/sheetlink/qr"
	"sheetlink.local/internal/platform/httpmiddleware"
	"sheetlink.local/internal/platform/ratelimit"
)

type RouteConfig struct {
	Limiter         *ratelimit.Limiter // nil = 不限流
	RateLimitPerMin int
}

// RegisterPublicRoutes 挂载对外路由：
//
//	GET /            landing 页
//	GET /{id}        短链跳转（Resolver 驱动）
//	GET /api/v1/qr   二维码渲染
//	GET /healthz
func RegisterPublicRoutes(mux *http.ServeMux, res *sheetlink.Resolver, renderer qr.Renderer, rc RouteConfig) {
	window := time.Minute
	limited := func(route string, h http.Handler) http.Handler {
		return httpmiddleware.Chain(h,
			httpmiddleware.RequestID(),
			httpmiddleware.AccessLog(),
			httpmiddleware.Metrics(route),
			httpmiddleware.RateLimit(rc.Limiter, route, rc.RateLimitPerMin, window),
		)
	}

	mux.Handle("GET /{$}", httpmiddleware.Chain(NewLandingHandler(),
		httpmiddleware.RequestID(),
		httpmiddleware.AccessLog(),
		httpmiddleware.Metrics("/")))
	mux.Handle("GET /{id}", limited("/{id}", NewRedirectHandler(res)))
	mux.Handle("GET /api/v1/qr", limited("/api/v1/qr", NewQRHandler(renderer)))

	mux.Handle("GET /healthz", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))

	// 避免 favicon 刷出一堆无意义的 404 日志
	mux.Handle("GET /favicon.ico", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}
