package storage

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/types"
)

// ResultCache 按内容MD5缓存解析结果
type ResultCache interface {
	Get(ctx context.Context, key string) (*types.ResumeResponse, bool)
	Set(ctx context.Context, key string, resp *types.ResumeResponse)
}

const (
	DefaultCacheTTL        = time.Hour
	DefaultCacheMaxEntries = 1000
)

var (
	_ ResultCache = (*MemoryCache)(nil)
	_ ResultCache = (*TieredCache)(nil)
)

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache 进程内缓存，条目带过期时间，超过容量时先清理过期条目再淘汰最早写入的条目。
// 值以 JSON 形式保存，每次 Get 都返回独立的副本。
type MemoryCache struct {
	entries    sync.Map // key -> *cacheEntry
	count      atomic.Int64
	evictMu    sync.Mutex
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache ttl<=0 或 maxEntries<=0 时使用默认值
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultCacheMaxEntries
	}
	return &MemoryCache{ttl: ttl, maxEntries: maxEntries, now: time.Now}
}

// Get 命中且未过期时返回副本，过期条目被顺带删除
func (c *MemoryCache) Get(_ context.Context, key string) (*types.ResumeResponse, bool) {
	val, ok := c.entries.Load(key)
	if !ok {
		return nil, false
	}
	entry := val.(*cacheEntry)
	if c.now().Before(entry.expiresAt) {
		var resp types.ResumeResponse
		if json.Unmarshal(entry.data, &resp) == nil {
			return &resp, true
		}
	}
	if c.entries.CompareAndDelete(key, val) {
		c.count.Add(-1)
	}
	return nil, false
}

// Set 写入或覆盖
func (c *MemoryCache) Set(_ context.Context, key string, resp *types.ResumeResponse) {
	if resp == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("缓存序列化失败，跳过写入")
		return
	}
	c.store(key, data)
}

func (c *MemoryCache) store(key string, data []byte) {
	c.evictMu.Lock()
	defer c.evictMu.Unlock()

	if _, exists := c.entries.Load(key); !exists {
		c.evictIfNeeded()
		c.count.Add(1)
	}
	c.entries.Store(key, &cacheEntry{data: data, expiresAt: c.now().Add(c.ttl)})
}

// Len 当前条目数（含尚未清理的过期条目）
func (c *MemoryCache) Len() int {
	return int(c.count.Load())
}

// evictIfNeeded 在写入新键前保证至少有一个空位，调用方持有 evictMu
func (c *MemoryCache) evictIfNeeded() {
	if int(c.count.Load()) < c.maxEntries {
		return
	}

	now := c.now()
	c.entries.Range(func(key, val any) bool {
		if now.After(val.(*cacheEntry).expiresAt) && c.entries.CompareAndDelete(key, val) {
			c.count.Add(-1)
		}
		return true
	})

	for int(c.count.Load()) >= c.maxEntries {
		var oldestKey, oldestVal any
		var oldestAt time.Time
		c.entries.Range(func(key, val any) bool {
			e := val.(*cacheEntry)
			// 过期时间 = 写入时间 + ttl，最早过期即最早写入
			if oldestKey == nil || e.expiresAt.Before(oldestAt) {
				oldestKey, oldestVal, oldestAt = key, val, e.expiresAt
			}
			return true
		})
		if oldestKey == nil {
			return
		}
		if c.entries.CompareAndDelete(oldestKey, oldestVal) {
			c.count.Add(-1)
		}
	}
}

// TieredCache 一级进程内缓存加二级 Redis 缓存，二级命中时回填一级
type TieredCache struct {
	l1 *MemoryCache
	l2 ResultCache // 可以为 nil
}

// NewTieredCache l2 为 nil 时退化为纯内存缓存
func NewTieredCache(l1 *MemoryCache, l2 ResultCache) *TieredCache {
	return &TieredCache{l1: l1, l2: l2}
}

func (t *TieredCache) Get(ctx context.Context, key string) (*types.ResumeResponse, bool) {
	if resp, ok := t.l1.Get(ctx, key); ok {
		return resp, true
	}
	if t.l2 == nil {
		return nil, false
	}
	resp, ok := t.l2.Get(ctx, key)
	if !ok {
		return nil, false
	}
	t.l1.Set(ctx, key, resp)
	return resp, true
}

func (t *TieredCache) Set(ctx context.Context, key string, resp *types.ResumeResponse) {
	t.l1.Set(ctx, key, resp)
	if t.l2 != nil {
		t.l2.Set(ctx, key, resp)
	}
}
