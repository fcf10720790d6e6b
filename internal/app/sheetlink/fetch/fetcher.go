// Package fetch 负责拉取表格的 CSV 导出并把失败映射成错误分类。
package fetch

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"sheetlink.local/internal/app/sheetlink"
	"sheetlink.local/internal/platform/metrics"
)

const DefaultTimeout = 5 * time.Second

// Fetcher 对一个固定的 CSV 导出地址做 HTTP GET。
//
// 错误分类（全部是 sheetlink.ServiceError）：
// - 401/403            -> KindAuth     表格没开放访问
// - 404/410            -> KindData     地址配错或表格被删
// - 5xx                -> KindService
// - 其它非 200、传输层失败（DNS/连接/超时）-> KindNetwork
// - 200 但响应体为空白  -> KindData
type Fetcher struct {
	url    string
	client *http.Client
}

func New(csvURL string, timeout time.Duration, traced bool) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := http.DefaultTransport
	if traced {
		transport = otelhttp.NewTransport(transport)
	}
	return &Fetcher{
		url: csvURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Fetch 返回 CSV 原始文本。调用方负责解析与校验。
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	raw, err := f.fetch(ctx)
	if err != nil {
		kind, _ := sheetlink.KindOf(err)
		metrics.SheetFetchesTotal.WithLabelValues(kind.String() + "_error").Inc()
		return "", err
	}
	metrics.SheetFetchesTotal.WithLabelValues("ok").Inc()
	return raw, nil
}

func (f *Fetcher) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", sheetlink.WrapError(sheetlink.KindNetwork, "build sheet request", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := f.client.Do(req)
	if err != nil {
		// 超时、DNS、连接拒绝都走这里，和 HTTP 层失败区分开
		return "", sheetlink.WrapError(sheetlink.KindNetwork, "sheet fetch failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fallthrough to body read
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", sheetlink.NewError(sheetlink.KindAuth, "sheet access denied (status %d)", resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return "", sheetlink.NewError(sheetlink.KindData, "sheet not found (status %d)", resp.StatusCode)
	case resp.StatusCode >= 500:
		return "", sheetlink.NewError(sheetlink.KindService, "sheet endpoint failed (status %d)", resp.StatusCode)
	default:
		return "", sheetlink.NewError(sheetlink.KindNetwork, "unexpected sheet response (status %d)", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", sheetlink.WrapError(sheetlink.KindNetwork, "read sheet response", err)
	}
	if strings.TrimSpace(string(body)) == "" {
		return "", sheetlink.NewError(sheetlink.KindData, "sheet response body is empty")
	}
	return string(body), nil
}
