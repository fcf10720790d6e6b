package httpapi

import (
	"html/template"
	"net/http"

	"sheetlink.local/internal/app/sheetlink"
	"sheetlink.local/internal/platform/metrics"
)

// httpSink 把 Resolver 的终态翻译成 HTTP 响应。
// 每个请求一个实例，不跨请求复用。
type httpSink struct {
	w http.ResponseWriter
}

func (s *httpSink) NoOp() {
	// 根路径不会走到跳转 handler，这里兜底回 landing
	s.w.Header().Set("Location", "/")
	s.w.WriteHeader(http.StatusFound)
}

func (s *httpSink) NotFound() {
	s.w.Header().Set("Content-Type", "text/html; charset=utf-8")
	s.w.WriteHeader(http.StatusNotFound)
	notFoundPage.Execute(s.w, nil)
}

func (s *httpSink) Redirect(target string) {
	s.w.Header().Set("Location", target)
	s.w.WriteHeader(http.StatusFound)
}

func (s *httpSink) Error(kind sheetlink.Kind, message string) {
	status := http.StatusServiceUnavailable
	switch kind {
	case sheetlink.KindAuth:
		status = http.StatusForbidden
	case sheetlink.KindData:
		status = http.StatusInternalServerError
	case sheetlink.KindNetwork:
		status = http.StatusBadGateway
	}
	s.w.Header().Set("Content-Type", "text/html; charset=utf-8")
	s.w.WriteHeader(status)
	errorPage.Execute(s.w, map[string]string{"Message": message})
}

// NewRedirectHandler 把 GET /{id} 交给 Resolver，终态通过 httpSink 直接写回响应。
func NewRedirectHandler(res *sheetlink.Resolver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		out := res.Resolve(req.Context(), "/"+req.PathValue("id"), &httpSink{w: w})
		metrics.ResolveOutcomes.WithLabelValues(out.Kind.String()).Inc()
		if out.Kind == sheetlink.OutcomeRedirect {
			metrics.ShortlinkRedirects.Inc()
		}
	})
}

func NewLandingHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		landingPage.Execute(w, nil)
	})
}

var landingPage = template.Must(template.New("landing").Parse(`<!doctype html>
<html lang="zh">
<head><meta charset="utf-8"><title>sheetlink</title></head>
<body>
<h1>sheetlink</h1>
<p>短链目录由表格维护。访问 /短码 跳转；/api/v1/qr?data=... 生成二维码。</p>
</body>
</html>
`))

var notFoundPage = template.Must(template.New("404").Parse(`<!doctype html>
<html lang="zh">
<head><meta charset="utf-8"><title>未找到</title></head>
<body><h1>404</h1><p>这条短链不存在。</p></body>
</html>
`))

var errorPage = template.Must(template.New("error").Parse(`<!doctype html>
<html lang="zh">
<head><meta charset="utf-8"><title>出错了</title></head>
<body><h1>出错了</h1><p>{{.Message}}</p></body>
</html>
`))
