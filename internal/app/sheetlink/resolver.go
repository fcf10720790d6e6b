package sheetlink

import (
	"context"
	"strings"
)

// OutcomeKind 是一次导航的终态。
type OutcomeKind int

const (
	// OutcomeNoOp 根路径，什么都不用做
	OutcomeNoOp OutcomeKind = iota
	// OutcomeNotFound 短码格式错、或格式对但目录里没有（对用户不区分这两种）
	OutcomeNotFound
	// OutcomeRedirect 找到记录，跳转到 Target
	OutcomeRedirect
	// OutcomeError 数据服务失败，Message 是面向用户的文案
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNoOp:
		return "noop"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeRedirect:
		return "redirect"
	default:
		return "error"
	}
}

// Outcome 是 Resolver 对一个请求路径的最终决定。
// 每次导航独立计算，不持久化。
type Outcome struct {
	Kind    OutcomeKind
	Target  string // 仅 Redirect
	ErrKind Kind   // 仅 Error
	Message string // 仅 Error，面向用户的固定文案
}

// Sink 接收终态并驱动对应的用户可见效果（由展示层实现）。
//
// 设计原因：
// - 显式注入“输出能力”而不是在核心逻辑里探测运行环境：
//   无界面/测试场景给一个 NopSink 就够了
type Sink interface {
	NoOp()
	NotFound()
	Redirect(target string)
	Error(kind Kind, message string)
}

// NopSink 丢弃所有终态，用于只要 Outcome 返回值的调用方。
type NopSink struct{}

func (NopSink) NoOp()              {}
func (NopSink) NotFound()          {}
func (NopSink) Redirect(string)    {}
func (NopSink) Error(Kind, string) {}

// 面向用户的固定文案。
// 不暴露原始错误文本、HTTP 状态码、堆栈 —— 那些只进日志。
const (
	msgAuth           = "没有访问权限，请联系目录管理员"
	msgNetwork        = "网络连接异常，请稍后重试"
	msgData           = "目录数据处理失败，请稍后重试"
	msgService        = "服务暂时不可用，请稍后重试"
	msgUnknown        = "发生未知错误，请稍后重试"
	msgBadDestination = "这条短链的目标地址无效"
)

// Resolver 把请求路径变成一个跳转决定：
//
//	Idle -> Extracting -> {NoOp | NotFound | LookingUp}
//	LookingUp -> {Redirecting | NotFound | Erroring}
//
// 同一路径、目录不变时结果幂等。
type Resolver struct {
	dir Directory
}

func NewResolver(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve 计算终态并推给 sink，同时把 Outcome 返回给调用方。
// 一次导航内部严格顺序执行：提取 -> 查询 -> 决定，没有并行步骤。
func (r *Resolver) Resolve(ctx context.Context, path string, sink Sink) Outcome {
	out := r.resolve(ctx, path)
	switch out.Kind {
	case OutcomeNoOp:
		sink.NoOp()
	case OutcomeNotFound:
		sink.NotFound()
	case OutcomeRedirect:
		sink.Redirect(out.Target)
	case OutcomeError:
		sink.Error(out.ErrKind, out.Message)
	}
	return out
}

func (r *Resolver) resolve(ctx context.Context, path string) Outcome {
	id := strings.TrimPrefix(path, "/")
	if id == "" {
		return Outcome{Kind: OutcomeNoOp}
	}

	// 格式不符直接 404，不打数据服务。
	// 故意让“格式错”和“不存在”对用户不可区分（信息隐藏）。
	if err := ValidateID(id); err != nil {
		return Outcome{Kind: OutcomeNotFound}
	}

	rec, err := r.dir.FindByID(ctx, id)
	if err != nil {
		return errorOutcome(err)
	}
	if rec == nil {
		return Outcome{Kind: OutcomeNotFound}
	}

	// 跳转前目标地址必须还能解析；目录里混进坏地址时宁可报错也不跳
	if _, perr := ParseDestination(rec.To); perr != nil {
		return Outcome{Kind: OutcomeError, ErrKind: KindData, Message: msgBadDestination}
	}
	return Outcome{Kind: OutcomeRedirect, Target: rec.To}
}

func errorOutcome(err error) Outcome {
	kind, ok := KindOf(err)
	if !ok {
		return Outcome{Kind: OutcomeError, ErrKind: KindService, Message: msgUnknown}
	}
	msg := msgService
	switch kind {
	case KindAuth:
		msg = msgAuth
	case KindNetwork:
		msg = msgNetwork
	case KindData:
		msg = msgData
	}
	return Outcome{Kind: OutcomeError, ErrKind: kind, Message: msg}
}
