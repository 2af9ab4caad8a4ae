package feedcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"linkboard/backend/common"
	"linkboard/backend/model"

	"github.com/redis/go-redis/v9"
)

const generationKey = "feed:generation"

type Entry struct {
	Links     []*model.Link `json:"links"`
	Count     int64         `json:"count"`
	FetchedAt time.Time     `json:"fetched_at"`
}

type localCacheItem struct {
	value     []byte
	expiresAt time.Time
}

// Manager caches resolved feed pages by feed id. With a redis client the
// entries are shared between instances; otherwise they live in process.
// Invalidate bumps a generation counter so every previously cached page
// becomes unreachable at once.
type Manager struct {
	rdb        *redis.Client
	expireTime time.Duration

	mutex      sync.RWMutex
	local      map[string]localCacheItem
	generation int64
}

func NewManager(rdb *redis.Client, expireTime time.Duration) *Manager {
	if expireTime <= 0 {
		expireTime = 30 * time.Second
	}
	return &Manager{
		rdb:        rdb,
		expireTime: expireTime,
		local:      make(map[string]localCacheItem),
	}
}

func hashFeedID(feedID string) string {
	sum := sha256.Sum256([]byte(feedID))
	return hex.EncodeToString(sum[:])
}

// Key addresses one feed page within one cache generation. GetFeed hands it
// out before the page is loaded so a page read before an Invalidate can never
// be stored as current.
type Key struct {
	generation int64
	hash       string
}

func (k Key) String() string {
	return fmt.Sprintf("feed:%d:%s", k.generation, k.hash)
}

func (m *Manager) currentGeneration(ctx context.Context) (int64, error) {
	if m.rdb == nil {
		m.mutex.RLock()
		defer m.mutex.RUnlock()
		return m.generation, nil
	}
	v, err := m.rdb.Get(ctx, generationKey).Int64()
	if err != nil && err != redis.Nil {
		return 0, err
	}
	return v, nil
}

// GetFeed looks up feedID in the current generation. The returned Key is
// valid even on a miss and must be passed to SetFeed.
func (m *Manager) GetFeed(ctx context.Context, feedID string) (*Entry, Key, bool) {
	generation, err := m.currentGeneration(ctx)
	if err != nil {
		common.SysError(fmt.Sprintf("Error reading feed cache generation: %v", err))
		return nil, Key{}, false
	}
	key := Key{generation: generation, hash: hashFeedID(feedID)}

	var raw []byte
	if m.rdb == nil {
		m.mutex.Lock()
		item, ok := m.local[key.String()]
		if ok && time.Now().After(item.expiresAt) {
			delete(m.local, key.String())
			ok = false
		}
		m.mutex.Unlock()
		if !ok {
			return nil, key, false
		}
		raw = item.value
	} else {
		raw, err = m.rdb.Get(ctx, key.String()).Bytes()
		if err != nil {
			if err != redis.Nil {
				common.SysError(fmt.Sprintf("Error getting feed cache %s: %v", feedID, err))
			}
			return nil, key, false
		}
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		common.SysError(fmt.Sprintf("Error unmarshaling feed cache %s: %v", feedID, err))
		return nil, key, false
	}
	return &entry, key, true
}

// SetFeed stores entry under key. Entries for a generation that has since
// been invalidated are dropped.
func (m *Manager) SetFeed(ctx context.Context, key Key, entry *Entry) {
	if entry == nil || key.hash == "" {
		return
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		common.SysError(fmt.Sprintf("Error marshaling feed cache %s: %v", key, err))
		return
	}

	if m.rdb == nil {
		m.mutex.Lock()
		if key.generation == m.generation {
			m.local[key.String()] = localCacheItem{value: raw, expiresAt: time.Now().Add(m.expireTime)}
		}
		m.mutex.Unlock()
		return
	}
	if err := m.rdb.Set(ctx, key.String(), raw, m.expireTime).Err(); err != nil {
		common.SysError(fmt.Sprintf("Error setting feed cache %s: %v", key, err))
	}
}

// Invalidate drops every cached feed page.
func (m *Manager) Invalidate(ctx context.Context) {
	if m.rdb == nil {
		m.mutex.Lock()
		m.generation++
		m.local = make(map[string]localCacheItem)
		m.mutex.Unlock()
		return
	}
	if err := m.rdb.Incr(ctx, generationKey).Err(); err != nil {
		common.SysError(fmt.Sprintf("Error invalidating feed cache: %v", err))
	}
}
