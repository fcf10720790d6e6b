package sheetlink

import (
	"net/url"
	"regexp"
	"strings"
)

// URLRecord 是短链目录中的一行：短码 -> 目标地址。
// 记录来自发布的表格 CSV 导出，对本服务只读（写入靠编辑表格完成）。
type URLRecord struct {
	ID          string
	To          string
	Description string
	Title       string
}

var ErrInvalidID = NewError(KindData, "invalid id")
var ErrInvalidDestination = NewError(KindData, "invalid destination url")

var idRe = regexp.MustCompile(`^[a-zA-Z0-9]{6,8}$`)

// ValidateID 校验短码格式：恰好 6~8 个 ASCII 字母/数字，区分大小写。
// 格式不符的路径在 Resolver 层直接按 404 处理，根本不会打到数据服务。
func ValidateID(id string) error {
	if !idRe.MatchString(id) {
		return ErrInvalidID
	}
	return nil
}

// ParseDestination 是记录级别的目标地址检查：只要求能被解析成 URL，
// 不限制 scheme（scheme 限制在 Validator 层做）。
func ParseDestination(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidDestination
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, ErrInvalidDestination
	}
	return u, nil
}

// ValidateDestination 是 Validator 层的完整检查：
// 必须可解析、scheme 为 http/https、host 非空。
//
// 规则与短链服务对“能跳转的地址”的最低要求一致：
// - 其它 scheme（ftp/javascript/...）一律不进目录
func ValidateDestination(raw string) error {
	u, err := ParseDestination(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidDestination
	}
	if strings.TrimSpace(u.Host) == "" {
		return ErrInvalidDestination
	}
	return nil
}
