package notifications

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	presenceOnlineSetKey  = "ws:online_users"
	presenceLastSeenKeyNS = "ws:last_seen:"
	presenceTTL           = 90 * time.Second
	offlineGracePeriod    = 5 * time.Second
)

// Presence tracks connected users locally and mirrors the state into Redis,
// so online status survives across multiple API instances. A short grace
// window keeps reconnecting clients from flapping offline.
type Presence struct {
	rdb *redis.Client

	mu            sync.RWMutex
	connCounts    map[uint]int
	offlineTimers map[uint]*time.Timer

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewPresence creates a presence tracker. rdb may be nil, in which case only
// local state is used.
func NewPresence(rdb *redis.Client) *Presence {
	return &Presence{
		rdb:           rdb,
		connCounts:    make(map[uint]int),
		offlineTimers: make(map[uint]*time.Timer),
		stopCh:        make(chan struct{}),
	}
}

// Register records a new connection for the user and refreshes Redis presence.
func (p *Presence) Register(ctx context.Context, userID uint) {
	p.mu.Lock()
	if t, ok := p.offlineTimers[userID]; ok {
		t.Stop()
		delete(p.offlineTimers, userID)
	}
	p.connCounts[userID]++
	p.mu.Unlock()

	p.Touch(ctx, userID)
}

// Touch refreshes the user's last-seen marker in Redis.
func (p *Presence) Touch(ctx context.Context, userID uint) {
	if p.rdb == nil {
		return
	}
	uid := strconv.FormatUint(uint64(userID), 10)
	if err := p.rdb.SAdd(ctx, presenceOnlineSetKey, uid).Err(); err != nil {
		log.Printf("presence touch SADD failed for user %d: %v", userID, err)
	}
	if err := p.rdb.SetEx(ctx, p.lastSeenKey(userID), strconv.FormatInt(time.Now().Unix(), 10), presenceTTL).Err(); err != nil {
		log.Printf("presence touch SETEX failed for user %d: %v", userID, err)
	}
}

// Unregister drops a connection. The Redis marker is removed after the grace
// period if no new connection arrives.
func (p *Presence) Unregister(ctx context.Context, userID uint) {
	p.mu.Lock()
	if n := p.connCounts[userID]; n > 1 {
		p.connCounts[userID] = n - 1
		p.mu.Unlock()
		return
	}
	delete(p.connCounts, userID)

	if t, ok := p.offlineTimers[userID]; ok {
		t.Stop()
	}
	p.offlineTimers[userID] = time.AfterFunc(offlineGracePeriod, func() {
		p.finalizeOffline(context.Background(), userID)
	})
	p.mu.Unlock()
}

// IsOnline reports whether the user has a live connection here or, per Redis,
// anywhere.
func (p *Presence) IsOnline(ctx context.Context, userID uint) bool {
	p.mu.RLock()
	local := p.connCounts[userID] > 0
	p.mu.RUnlock()
	if local {
		return true
	}

	if p.rdb == nil {
		return false
	}
	exists, err := p.rdb.Exists(ctx, p.lastSeenKey(userID)).Result()
	return err == nil && exists > 0
}

// Stop cancels pending offline timers.
func (p *Presence) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
		p.mu.Lock()
		for userID, timer := range p.offlineTimers {
			timer.Stop()
			delete(p.offlineTimers, userID)
		}
		p.mu.Unlock()
	})
}

func (p *Presence) finalizeOffline(ctx context.Context, userID uint) {
	p.mu.Lock()
	if p.connCounts[userID] > 0 {
		delete(p.offlineTimers, userID)
		p.mu.Unlock()
		return
	}
	delete(p.offlineTimers, userID)
	p.mu.Unlock()

	if p.rdb != nil {
		p.rdb.SRem(ctx, presenceOnlineSetKey, strconv.FormatUint(uint64(userID), 10))
		p.rdb.Del(ctx, p.lastSeenKey(userID))
	}
}

func (p *Presence) lastSeenKey(userID uint) string {
	return presenceLastSeenKeyNS + strconv.FormatUint(uint64(userID), 10)
}
