package journal

import (
	"encoding/json"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"

	"github.com/manav03panchal/daymark/internal/model"
)

// CacheConfig sizes a StateCache.
type CacheConfig struct {
	TTL         time.Duration
	NumCounters int64
	MaxCost     int64
}

// CacheStats reports cache activity since the last Clear.
type CacheStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// StateCache memoizes materialized days per (user, date).
//
// Entries are stored encoded so every reader decodes its own copy. Each
// stored key embeds the user's and the date's invalidation generation:
// Invalidate bumps a generation, which makes every older entry unreachable
// at once, and a load that finishes after an invalidation is not stored.
// Bumping a user's generation forgets that user's date generations, so the
// bookkeeping stays bounded by the dates changed since the last user-wide
// invalidation.
type StateCache struct {
	store *ristretto.Cache[string, []byte]
	ttl   time.Duration
	group singleflight.Group

	mu      sync.Mutex
	epoch   uint64
	userGen map[string]uint64
	dateGen map[string]map[string]uint64

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewStateCache creates a cache. Zero config values fall back to defaults.
func NewStateCache(cfg CacheConfig) (*StateCache, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.NumCounters <= 0 {
		cfg.NumCounters = 100_000
	}
	if cfg.MaxCost <= 0 {
		cfg.MaxCost = 64 << 20
	}

	store, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters:        cfg.NumCounters,
		MaxCost:            cfg.MaxCost,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}

	return &StateCache{
		store:   store,
		ttl:     cfg.TTL,
		userGen: make(map[string]uint64),
		dateGen: make(map[string]map[string]uint64),
	}, nil
}

// maxDateGens caps the date generations kept per user. Past it the next
// date-scoped invalidation becomes user-wide.
const maxDateGens = 1024

// key returns the current generation-bearing key of (userID, date).
func (c *StateCache) key(userID, date string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return userID + "|" + date + "|" +
		strconv.FormatUint(c.epoch, 10) + "." +
		strconv.FormatUint(c.userGen[userID], 10) + "." +
		strconv.FormatUint(c.dateGen[userID][date], 10)
}

// GetOrLoad returns the cached day or calls load on a miss. Concurrent
// misses for the same key share one load.
func (c *StateCache) GetOrLoad(userID, date string, load func() (*model.DayState, error)) (*model.DayState, error) {
	k := c.key(userID, date)
	if data, ok := c.store.Get(k); ok {
		c.hits.Add(1)
		return decodeState(data)
	}
	c.misses.Add(1)

	v, err, _ := c.group.Do(k, func() (interface{}, error) {
		state, err := load()
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(state)
		if err != nil {
			return nil, err
		}
		// An invalidation during the load means the rows may have moved on.
		if c.key(userID, date) == k {
			c.store.SetWithTTL(k, data, int64(len(data)), c.ttl)
			c.store.Wait()
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return decodeState(v.([]byte))
}

// Invalidate drops cached days of a user. With no dates every date of the
// user is dropped; otherwise only the given dates are.
func (c *StateCache) Invalidate(userID string, dates ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gens := c.dateGen[userID]
	if len(dates) == 0 || len(gens)+len(dates) > maxDateGens {
		c.userGen[userID]++
		delete(c.dateGen, userID)
		return
	}
	if gens == nil {
		gens = make(map[string]uint64)
		c.dateGen[userID] = gens
	}
	for _, date := range dates {
		gens[date]++
	}
}

// Clear drops every cached day of every user.
func (c *StateCache) Clear() {
	c.mu.Lock()
	c.epoch++
	c.userGen = make(map[string]uint64)
	c.dateGen = make(map[string]map[string]uint64)
	c.mu.Unlock()

	c.store.Clear()
	c.hits.Store(0)
	c.misses.Store(0)
}

// Stats returns hit and miss counts.
func (c *StateCache) Stats() CacheStats {
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Close releases the cache's background resources.
func (c *StateCache) Close() {
	c.store.Close()
}

func decodeState(data []byte) (*model.DayState, error) {
	state := &model.DayState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}
	return state, nil
}
