package catalog

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedFetcher keeps successfully fetched pages in Redis. Redis trouble is
// never fatal: the inner fetcher is always the fallback.
type CachedFetcher struct {
	Inner  PageFetcher
	Client *redis.Client
	TTL    time.Duration
	log    *zap.Logger
}

func NewCachedFetcher(inner PageFetcher, client *redis.Client, ttl time.Duration, log *zap.Logger) *CachedFetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedFetcher{Inner: inner, Client: client, TTL: ttl, log: log}
}

func (c *CachedFetcher) PageKey(page, pageSize int) string {
	return "catalog:page:" + strconv.Itoa(page) + ":" + strconv.Itoa(pageSize)
}

func (c *CachedFetcher) FetchPage(ctx context.Context, page, pageSize int) (PageResult, error) {
	key := c.PageKey(page, pageSize)

	raw, err := c.Client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var res PageResult
		if err := json.Unmarshal(raw, &res); err == nil {
			return res, nil
		}
		c.log.Warn("discarding undecodable cached page", zap.String("key", key))
	case err != redis.Nil:
		c.log.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}

	res, err := c.Inner.FetchPage(ctx, page, pageSize)
	if err != nil {
		return PageResult{}, err
	}
	if payload, err := json.Marshal(res); err == nil {
		if err := c.Client.Set(ctx, key, payload, c.TTL).Err(); err != nil {
			c.log.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return res, nil
}
