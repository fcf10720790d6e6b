// Package qr 把字符串渲染成 PNG 二维码。
// 核心解析逻辑不关心渲染内部，只隔着 Renderer 接口调用。
package qr

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/ristretto"
	qrcode "github.com/skip2/go-qrcode"

	"sheetlink.local/internal/platform/metrics"
)

const (
	DefaultSize = 256
	MinSize     = 64
	MaxSize     = 1024
	MaxDataLen  = 2048
)

var ErrBadInput = errors.New("qr: bad input")

type Renderer interface {
	Render(data string, size int) ([]byte, error)
}

type qrcodeRenderer struct {
	level qrcode.RecoveryLevel
}

// NewRenderer 返回基于 skip2/go-qrcode 的默认实现（中等纠错级别）。
func NewRenderer() Renderer {
	return qrcodeRenderer{level: qrcode.Medium}
}

func (r qrcodeRenderer) Render(data string, size int) ([]byte, error) {
	if data == "" || len(data) > MaxDataLen {
		return nil, ErrBadInput
	}
	if size < MinSize || size > MaxSize {
		return nil, ErrBadInput
	}
	return qrcode.Encode(data, r.level, size)
}

// Cache 用 ristretto 按字节成本缓存渲染结果：
// 同样的内容+尺寸重复请求时直接复用 PNG，不再重新编码。
type Cache struct {
	inner Renderer
	cache *ristretto.Cache
}

func NewCache(inner Renderer, maxBytes int64) (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{inner: inner, cache: c}, nil
}

func (c *Cache) Render(data string, size int) ([]byte, error) {
	key := fmt.Sprintf("%d|%s", size, data)
	if v, ok := c.cache.Get(key); ok {
		metrics.CacheOperations.WithLabelValues("qr", "hit").Inc()
		return v.([]byte), nil
	}
	png, err := c.inner.Render(data, size)
	if err != nil {
		return nil, err
	}
	metrics.CacheOperations.WithLabelValues("qr", "miss").Inc()
	c.cache.Set(key, png, int64(len(png)))
	return png, nil
}

func (c *Cache) Close() {
	c.cache.Close()
}
