package cache

import (
	"github.com/bits-and-blooms/bloom/v3"

	"sheetlink.local/internal/app/sheetlink"
)

// idFilter 是跟着快照一起换的布隆过滤器，挡掉对不存在短码的线性扫描。
// 每次 Put 重建一个新的，从不原地增删，所以不需要自己的锁。
type idFilter struct {
	filter *bloom.BloomFilter
}

const falsePositiveRate = 0.01

func newIDFilter(records []sheetlink.URLRecord) *idFilter {
	n := uint(len(records))
	if n < 64 {
		n = 64
	}
	f := bloom.NewWithEstimates(n, falsePositiveRate)
	for i := range records {
		f.AddString(records[i].ID)
	}
	return &idFilter{filter: f}
}

// MightContain 返回 false 表示一定不存在；true 表示可能存在（有误判率）。
func (f *idFilter) MightContain(id string) bool {
	return f.filter.TestString(id)
}
