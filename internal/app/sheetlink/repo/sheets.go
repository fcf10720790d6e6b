// Package repo 把 Fetcher + Parser + Validator + Cache 编排成
// 其它组件获取目录数据的唯一入口。
package repo

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"sheetlink.local/internal/app/sheetlink"
	"sheetlink.local/internal/app/sheetlink/cache"
	"sheetlink.local/internal/platform/metrics"
)

// Fetcher 是 SheetRepo 需要的拉取能力（由 fetch.Fetcher 实现）。
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// SheetRepo 是表格目录的数据服务。
//
// 读取策略：
// - 缓存 fresh：直接返回，零网络请求
// - 缓存 stale：先刷新；网络/服务类失败降级用旧数据并告警，
//   数据/权限类失败照常向上抛（旧数据掩盖不了表格或凭证的问题）
// - 缓存为空或 expired：必须拉取；expired 且失败是网络/服务类时
//   允许拿过期数据做最后兜底，其余情况错误向上传播
//
// 并发：同一时刻的多个刷新请求用 singleflight 合并成一次拉取。
type SheetRepo struct {
	fetcher Fetcher
	store   *cache.Store
	group   singleflight.Group
}

func NewSheetRepo(fetcher Fetcher, store *cache.Store) *SheetRepo {
	return &SheetRepo{
		fetcher: fetcher,
		store:   store,
	}
}

// GetAllRecords 返回当前完整记录集。
func (s *SheetRepo) GetAllRecords(ctx context.Context) ([]sheetlink.URLRecord, error) {
	snap, st := s.store.Get(ctx)
	if st.Fresh {
		return snap.Records, nil
	}

	records, err := s.refresh(ctx)
	if err == nil {
		return records, nil
	}

	if st.HasData && sheetlink.IsTransient(err) {
		// 临时基础设施故障不能打断一个已经在工作的跳转目录
		slog.Warn("sheet refresh failed, serving cached records",
			"err", err, "stale", st.Stale, "expired", st.Expired, "records", len(snap.Records))
		metrics.CacheOperations.WithLabelValues("memory", "fallback").Inc()
		return snap.Records, nil
	}
	return nil, err
}

// FindByID 在当前记录集里按短码做线性扫描，返回第一个匹配
//（表格里出现重复短码时，排在前面的生效）。
// 找不到返回 (nil, nil)：没有这条记录是正常结果，不是错误。
func (s *SheetRepo) FindByID(ctx context.Context, id string) (*sheetlink.URLRecord, error) {
	records, err := s.GetAllRecords(ctx)
	if err != nil {
		return nil, err
	}
	// 布隆过滤器说不在就一定不在，省掉扫描
	if !s.store.MightContain(id) {
		return nil, nil
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, nil
}

// Invalidate 清空缓存，下一次调用强制重新拉取表格。
func (s *SheetRepo) Invalidate(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Status 暴露缓存新鲜度，给诊断接口用。
func (s *SheetRepo) Status(ctx context.Context) cache.Status {
	return s.store.Status(ctx)
}

// refresh 拉取 -> 解析 -> 校验 -> 整体换缓存。
// 并发调用合并到一次在途拉取上，所有等待者共享同一个结果。
func (s *SheetRepo) refresh(ctx context.Context) ([]sheetlink.URLRecord, error) {
	v, err, _ := s.group.Do("sheet", func() (any, error) {
		raw, err := s.fetcher.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		rows, err := sheetlink.ParseCSV(raw)
		if err != nil {
			return nil, err
		}
		records, err := sheetlink.ValidateRows(rows)
		if err != nil {
			return nil, err
		}
		s.store.Put(ctx, records)
		slog.Info("目录已刷新", "records", len(records))
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]sheetlink.URLRecord), nil
}
