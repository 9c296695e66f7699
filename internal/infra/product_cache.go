package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CachedProductReader serves product display data from Redis and falls back
// to the catalog on a miss. Stock values it returns may be stale and must not
// be used for availability decisions.
type CachedProductReader struct {
	next   repository.ProductReader
	client *redis.Client
	ttl    time.Duration
	sfg    singleflight.Group
}

var _ repository.ProductReader = (*CachedProductReader)(nil)

func NewCachedProductReader(next repository.ProductReader, client *redis.Client, ttl time.Duration) *CachedProductReader {
	return &CachedProductReader{next: next, client: client, ttl: ttl}
}

func (c *CachedProductReader) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	key := productKey(id)

	if cached, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var p domain.Product
		if err := json.Unmarshal(cached, &p); err == nil {
			return &p, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("product cache get failed", "product_id", id, "error", err)
	}

	v, err, _ := c.sfg.Do(strconv.FormatUint(id, 10), func() (interface{}, error) {
		// shared by every caller waiting on this key
		ctx := context.WithoutCancel(ctx)
		p, err := c.next.FindByID(ctx, id)
		if err != nil || p == nil {
			return p, err
		}
		if data, err := json.Marshal(p); err == nil {
			if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
				slog.Warn("product cache set failed", "product_id", id, "error", err)
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

// Warmup preloads the given products, skipping ones that fail.
func (c *CachedProductReader) Warmup(ctx context.Context, ids []uint64) {
	for _, id := range ids {
		if _, err := c.FindByID(ctx, id); err != nil {
			slog.Warn("product cache warmup failed", "product_id", id, "error", err)
		}
	}
}

func (c *CachedProductReader) Invalidate(ctx context.Context, id uint64) error {
	return c.client.Del(ctx, productKey(id)).Err()
}

func productKey(id uint64) string {
	return fmt.Sprintf("product:%d", id)
}
