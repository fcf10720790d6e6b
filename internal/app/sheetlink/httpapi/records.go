package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"sheetlink.local/internal/app/sheetlink"
	"sheetlink.local/internal/app/sheetlink/cache"
)

// Catalog 是诊断接口需要的数据服务能力（由 repo.SheetRepo 实现）。
type Catalog interface {
	sheetlink.Lister
	Status(ctx context.Context) cache.Status
}

type recordItem struct {
	ID          string `json:"id"`
	To          string `json:"to"`
	Description string `json:"description"`
	Title       string `json:"title,omitempty"`
}

type recordsResponse struct {
	Records []recordItem `json:"records"`
	Cache   cacheStatus  `json:"cache"`
}

type cacheStatus struct {
	HasData bool `json:"has_data"`
	Fresh   bool `json:"fresh"`
	Stale   bool `json:"stale"`
	Expired bool `json:"expired"`
}

// NewRecordsHandler 是给运维用的诊断接口（只挂在 admin mux 上）：
// 当前记录集 + 缓存新鲜度。错误这里直接暴露分类名，不走用户文案。
func NewRecordsHandler(c Catalog) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		records, err := c.GetAllRecords(req.Context())
		if err != nil {
			kind, _ := sheetlink.KindOf(err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]string{"error": kind.String()})
			return
		}

		st := c.Status(req.Context())
		resp := recordsResponse{
			Records: make([]recordItem, 0, len(records)),
			Cache: cacheStatus{
				HasData: st.HasData,
				Fresh:   st.Fresh,
				Stale:   st.Stale,
				Expired: st.Expired,
			},
		}
		for _, rec := range records {
			resp.Records = append(resp.Records, recordItem{
				ID:          rec.ID,
				To:          rec.To,
				Description: rec.Description,
				Title:       rec.Title,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})
}

// NewInvalidateHandler 手动清缓存，下一次请求强制重新拉表。
func NewInvalidateHandler(inv sheetlink.Invalidator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if err := inv.Invalidate(req.Context()); err != nil {
			http.Error(w, "invalidate failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
