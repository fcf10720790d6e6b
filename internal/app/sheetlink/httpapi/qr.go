package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"sheetlink.local/internal/app/sheetlink/qr"
)

// NewQRHandler 渲染二维码 PNG。
//
//	GET /api/v1/qr?data=<内容>&size=<边长像素>
//
// data 必填（最长 2048 字节）；size 可选，默认 256，范围 64~1024。
func NewQRHandler(renderer qr.Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		data := req.URL.Query().Get("data")
		if data == "" {
			http.Error(w, "missing data parameter", http.StatusBadRequest)
			return
		}

		size := qr.DefaultSize
		if v := req.URL.Query().Get("size"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "invalid size parameter", http.StatusBadRequest)
				return
			}
			size = n
		}

		png, err := renderer.Render(data, size)
		if err != nil {
			if errors.Is(err, qr.ErrBadInput) {
				http.Error(w, "invalid qr input", http.StatusBadRequest)
				return
			}
			http.Error(w, "qr render failed", http.StatusInternalServerError)
			return
		}

		// 同样的 data+size 永远渲染出同样的图，放心给客户端缓存
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Write(png)
	})
}
