package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"fieldops/internal/repositories"
)

// unreadTTL is short on purpose: the cache only absorbs burst polling of
// the badge endpoint, correctness comes from invalidation on writes.
const unreadTTL = 15 * time.Second

// UnreadCache хранит агрегат непрочитанного в Redis. Ошибки Redis не
// фатальны: промах кэша просто уводит запрос в Postgres.
type UnreadCache struct {
	rdb *redis.Client
	ctx context.Context
}

func NewUnreadCache(rdb *redis.Client) *UnreadCache {
	return &UnreadCache{rdb: rdb, ctx: context.Background()}
}

type cachedUnread struct {
	Counts []repositories.RoomUnread `json:"counts"`
	Total  int                       `json:"total"`
}

func unreadKey(userID int) string {
	return fmt.Sprintf("unread:%d", userID)
}

func (c *UnreadCache) Get(userID int) ([]repositories.RoomUnread, int, bool) {
	raw, err := c.rdb.Get(c.ctx, unreadKey(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("unread cache: get failed for user %d: %v", userID, err)
		}
		return nil, 0, false
	}
	var v cachedUnread
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, 0, false
	}
	return v.Counts, v.Total, true
}

func (c *UnreadCache) Set(userID int, counts []repositories.RoomUnread, total int) {
	raw, err := json.Marshal(cachedUnread{Counts: counts, Total: total})
	if err != nil {
		return
	}
	if err := c.rdb.Set(c.ctx, unreadKey(userID), raw, unreadTTL).Err(); err != nil {
		log.Printf("unread cache: set failed for user %d: %v", userID, err)
	}
}

func (c *UnreadCache) Invalidate(userID int) {
	if err := c.rdb.Del(c.ctx, unreadKey(userID)).Err(); err != nil {
		log.Printf("unread cache: invalidate failed for user %d: %v", userID, err)
	}
}
