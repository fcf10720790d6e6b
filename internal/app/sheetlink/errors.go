package sheetlink

import (
	"errors"
	"fmt"
)

// Kind 是数据服务错误的分类标签。
//
// 设计原因：
// - Resolver 需要按错误类别选择面向用户的文案（权限/网络/数据/服务）
// - 用枚举做分发而不是 error 类型层级：上层一个 switch 就够，
//   也避免各处 errors.As 到具体类型的耦合
type Kind int

const (
	// KindService 5xx 或无法进一步归类的服务端失败
	KindService Kind = iota
	// KindAuth 403：没有权限读取发布的表格
	KindAuth
	// KindData 404、空响应体、CSV 结构/内容非法
	KindData
	// KindNetwork 传输层失败（DNS/连接/超时）或其它非 2xx 状态
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindData:
		return "data"
	case KindNetwork:
		return "network"
	default:
		return "service"
	}
}

// ServiceError 是数据访问链路（fetch/parse/validate）对外抛出的统一错误载体。
// “短码不存在”不是 ServiceError —— 那是查询的正常结果，不走错误路径。
type ServiceError struct {
	Kind Kind
	msg  string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *ServiceError) Unwrap() error { return e.err }

// NewError 构造一个不带底层错误的分类错误。
func NewError(kind Kind, format string, args ...any) *ServiceError {
	return &ServiceError{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// WrapError 包装底层错误并打上分类标签，保持 errors.Is/As 链可用。
func WrapError(kind Kind, msg string, err error) *ServiceError {
	return &ServiceError{Kind: kind, msg: msg, err: err}
}

// KindOf 取出错误的分类；第二个返回值为 false 表示这不是 ServiceError。
func KindOf(err error) (Kind, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return KindService, false
}

// IsTransient 判断失败是否属于“临时基础设施故障”。
// 网络/服务类失败允许降级继续使用旧缓存；数据/权限类失败说明
// 表格本身或凭证出了问题，旧数据掩盖不了，必须向上传播。
func IsTransient(err error) bool {
	kind, ok := KindOf(err)
	if !ok {
		return false
	}
	return kind == KindNetwork || kind == KindService
}
