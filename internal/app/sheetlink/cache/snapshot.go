package cache

import (
	"time"

	"sheetlink.local/internal/app/sheetlink"
)

// Snapshot 是最近一次成功拉取并校验过的完整记录集。
// 只会整体替换，从不部分修改 —— 读者永远看不到写了一半的集合。
type Snapshot struct {
	Records   []sheetlink.URLRecord `json:"records"`
	FetchedAt time.Time             `json:"fetched_at"`
}

// Status 描述快照相对当前时间的新鲜度。
//
// 参考策略：fresh 5 分钟内；stale 5~15 分钟，可以边用边刷新；
// 超过 15 分钟算 expired，必须重新拉取（临时故障时才允许兜底使用）。
type Status struct {
	HasData bool
	Fresh   bool
	Stale   bool
	Expired bool
}

const (
	DefaultFreshTTL = 5 * time.Minute
	DefaultStaleTTL = 15 * time.Minute
)

// statusAt 按给定时刻计算新鲜度，方便测试注入时间。
func statusAt(snap *Snapshot, now time.Time, freshTTL, staleTTL time.Duration) Status {
	if snap == nil {
		return Status{}
	}
	age := now.Sub(snap.FetchedAt)
	st := Status{HasData: true}
	switch {
	case age < freshTTL:
		st.Fresh = true
	case age < staleTTL:
		st.Stale = true
	default:
		st.Expired = true
	}
	return st
}
