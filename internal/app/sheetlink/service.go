package sheetlink

import (
	"context"
)

// Directory 表示“按短码查目录记录”的用例能力（由 repo.SheetRepo 实现）。
//
// 约定：
// - 找不到返回 (nil, nil) —— “没有这条记录”是查询的正常结果，不是错误
// - 返回的 error 一定能被 KindOf 分类（ServiceError）
//
// 设计原因：
// - Resolver 只依赖这个接口：测试时用假实现即可，不需要网络和缓存
// - 读取路径是热点：实现方可以在接口后面加缓存/布隆过滤器而不影响调用方
type Directory interface {
	FindByID(ctx context.Context, id string) (*URLRecord, error)
}

// Lister 返回当前完整记录集，给诊断接口用。
type Lister interface {
	GetAllRecords(ctx context.Context) ([]URLRecord, error)
}

// Invalidator 手动清空缓存，下一次调用强制重新拉取表格。
type Invalidator interface {
	Invalidate(ctx context.Context) error
}
