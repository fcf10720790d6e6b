package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"sheetlink.local/internal/app/sheetlink"
	"sheetlink.local/internal/platform/metrics"
)

// Store 持有当前快照和它的布隆过滤器。
//
// 并发模型：Put/Clear 在锁内整体换指针，Get 拿到的快照之后只读，
// 所以异步调用交错读写也不会看到半成品记录集。
//
// 可选持久化：传入 redis client 时，每次 Put 顺带把快照写进 redis，
// 冷启动时先从 redis 恢复上一份快照（带原始 FetchedAt，新鲜度照常计算）。
// client 为 nil 时退化成纯内存模式，功能完整。
type Store struct {
	mu       sync.RWMutex
	snap     *Snapshot
	filter   *idFilter
	restored bool

	freshTTL time.Duration
	staleTTL time.Duration
	now      func() time.Time

	client *redis.Client
}

func NewStore(freshTTL, staleTTL time.Duration, client *redis.Client) *Store {
	if freshTTL <= 0 {
		freshTTL = DefaultFreshTTL
	}
	if staleTTL <= freshTTL {
		staleTTL = DefaultStaleTTL
	}
	return &Store{
		freshTTL: freshTTL,
		staleTTL: staleTTL,
		now:      time.Now,
		client:   client,
	}
}

// Get 返回当前快照和它的新鲜度。没有数据时返回 (nil, Status{})。
// 返回的快照是共享只读的，调用方不得修改其中的记录。
func (s *Store) Get(ctx context.Context) (*Snapshot, Status) {
	s.mu.RLock()
	snap := s.snap
	restored := s.restored
	s.mu.RUnlock()

	if snap == nil && !restored && s.client != nil {
		snap = s.restoreFromRedis(ctx)
	}
	if snap == nil {
		metrics.CacheOperations.WithLabelValues("memory", "miss").Inc()
		return nil, Status{}
	}
	metrics.CacheOperations.WithLabelValues("memory", "hit").Inc()
	return snap, statusAt(snap, s.now(), s.freshTTL, s.staleTTL)
}

// Status 只算新鲜度，不计 hit/miss。
func (s *Store) Status(ctx context.Context) Status {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	return statusAt(snap, s.now(), s.freshTTL, s.staleTTL)
}

// Put 用新记录集整体替换当前快照，时间戳取当前时刻。
func (s *Store) Put(ctx context.Context, records []sheetlink.URLRecord) {
	snap := &Snapshot{
		Records:   append([]sheetlink.URLRecord(nil), records...),
		FetchedAt: s.now(),
	}
	s.swap(snap)
	metrics.CacheOperations.WithLabelValues("memory", "put").Inc()
	s.persist(ctx, snap)
}

// Restore 放入一份带原始时间戳的快照（redis 恢复和测试用）。
func (s *Store) Restore(snap Snapshot) {
	s.swap(&snap)
}

// Clear 清掉内存和 redis 里的快照，下一次读取必然触发拉取。
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.snap = nil
	s.filter = nil
	s.restored = true // 刚清掉的东西不要再从 redis 捞回来
	s.mu.Unlock()
	metrics.CacheOperations.WithLabelValues("memory", "clear").Inc()

	if s.client == nil {
		return nil
	}
	return deleteSnapshot(ctx, s.client)
}

// MightContain 查布隆过滤器：false 表示短码一定不在当前快照里，
// 可以跳过线性扫描直接判未命中。true 只是“可能在”。
func (s *Store) MightContain(id string) bool {
	s.mu.RLock()
	f := s.filter
	s.mu.RUnlock()
	if f == nil {
		return true
	}
	ok := f.MightContain(id)
	if !ok {
		metrics.CacheOperations.WithLabelValues("bloom", "definite_miss").Inc()
	}
	return ok
}

func (s *Store) swap(snap *Snapshot) {
	f := newIDFilter(snap.Records)
	s.mu.Lock()
	s.snap = snap
	s.filter = f
	s.restored = true
	s.mu.Unlock()
}

func (s *Store) restoreFromRedis(ctx context.Context) *Snapshot {
	s.mu.Lock()
	if s.restored {
		snap := s.snap
		s.mu.Unlock()
		return snap
	}
	s.restored = true
	s.mu.Unlock()

	snap, err := loadSnapshot(ctx, s.client)
	if err != nil {
		slog.Warn("restore snapshot from redis failed", "err", err)
		return nil
	}
	if snap == nil {
		return nil
	}
	metrics.CacheOperations.WithLabelValues("redis", "restore").Inc()
	slog.Info("快照已从 redis 恢复", "records", len(snap.Records), "fetched_at", snap.FetchedAt)

	f := newIDFilter(snap.Records)
	s.mu.Lock()
	// 恢复期间如果已经有新快照写进来，以新的为准
	if s.snap == nil {
		s.snap = snap
		s.filter = f
	}
	snap = s.snap
	s.mu.Unlock()
	return snap
}

func (s *Store) persist(ctx context.Context, snap *Snapshot) {
	if s.client == nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	if err := saveSnapshot(wctx, s.client, snap); err != nil {
		// 持久化只是优化，失败不影响内存快照
		slog.Warn("persist snapshot to redis failed", "err", err)
		return
	}
	metrics.CacheOperations.WithLabelValues("redis", "put").Inc()
}
