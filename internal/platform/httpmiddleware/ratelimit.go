package httpmiddleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"sheetlink.local/internal/platform/ratelimit"
)

var rateLimitMemberSeq uint64

// ClientIP 获取“真实客户端 IP”（用于限流/审计）。
//
// 只有当请求来自“可信代理”（同机反代 / 内网 / docker bridge）时才信任转发头；
// 否则客户端可以伪造 X-Forwarded-For 绕过按 IP 的限流。
func ClientIP(req *http.Request) string {
	remoteHost, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		remoteHost = req.RemoteAddr
	}
	remoteIP := net.ParseIP(remoteHost)

	if remoteIP == nil || !isTrustedProxy(remoteIP) {
		return remoteHost
	}

	// 反向代理常用头。第一个 IP 一般是原始客户端 IP（后面会追加经过的代理 IP）。
	if xff := req.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			xff = xff[:i]
		}
		xff = strings.TrimSpace(xff)
		if net.ParseIP(xff) != nil {
			return xff
		}
	}

	if xrip := strings.TrimSpace(req.Header.Get("X-Real-IP")); xrip != "" {
		if net.ParseIP(xrip) != nil {
			return xrip
		}
	}

	return remoteHost
}

func isTrustedProxy(ip net.IP) bool {
	if ip.IsLoopback() {
		return true
	}

	// RFC1918 私网网段（docker bridge / 内网转发）。
	ip4 := ip.To4()
	if ip4 == nil {
		// IPv6 ULA：fc00::/7
		return len(ip) == net.IPv6len && (ip[0]&0xfe) == 0xfc
	}
	if ip4[0] == 10 {
		return true
	}
	if ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31 {
		return true
	}
	if ip4[0] == 192 && ip4[1] == 168 {
		return true
	}
	return false
}

// RateLimit 按客户端 IP 做滑动窗口限流。limiter 为 nil 时直接放行。
func RateLimit(limiter *ratelimit.Limiter, prefix string, limit int, window time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, req)
				return
			}

			key := "rl:" + prefix + ":" + ClientIP(req)

			// member 必须“每次请求唯一”，否则 ZADD 会覆盖同一个 member。
			// UnixNano 在虚拟化环境里可能短时间重复，加序列号保证唯一。
			member := strconv.FormatInt(time.Now().UnixNano(), 10) + "-" + strconv.FormatUint(atomic.AddUint64(&rateLimitMemberSeq, 1), 10)
			rlCtx, cancel := context.WithTimeout(req.Context(), 50*time.Millisecond)
			defer cancel()
			allowed, retryAfter, err := limiter.Allow(rlCtx, key, limit, window, member)
			if err != nil {
				slog.Error("rate limit check failed", "err", err)
				next.ServeHTTP(w, req) // Redis 故障时放行
				return
			}
			if !allowed {
				if retryAfter > 0 {
					// 标准语义：Retry-After 单位是秒。
					secs := int64((retryAfter + time.Second - 1) / time.Second) // ceil
					w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
				}
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}
