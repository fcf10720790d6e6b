package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// redis 里只存一个 key：最近一份快照的 JSON。
// 不设 TTL —— 新鲜度由 FetchedAt 计算，过期快照在临时故障时还要做兜底。
const snapshotKey = "sheetlink:snapshot"

func saveSnapshot(ctx context.Context, client *redis.Client, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return client.Set(ctx, snapshotKey, data, 0).Err()
}

// loadSnapshot 返回 (nil, nil) 表示 redis 里没有快照。
func loadSnapshot(ctx context.Context, client *redis.Client) (*Snapshot, error) {
	data, err := client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func deleteSnapshot(ctx context.Context, client *redis.Client) error {
	return client.Del(ctx, snapshotKey).Err()
}

// NewRedisClient 建一个连接并 ping 一次确认可用。
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
