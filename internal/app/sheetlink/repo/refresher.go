package repo

import (
	"context"
	"log/slog"
	"time"
)

// Run 是后台刷新循环：周期性刷新表格快照，直到 ctx 结束。
// 让 stale 窗口大多在请求路径之外被补上，用户请求基本总是命中 fresh 缓存。
//
// 刷新失败只告警不退出 —— 请求路径上的 stale 降级逻辑会兜住。
func (s *SheetRepo) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if _, err := s.refresh(rctx); err != nil {
				slog.Warn("后台刷新失败", "err", err)
			}
			cancel()
		}
	}
}
