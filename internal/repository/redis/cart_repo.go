package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/redis/go-redis/v9"
)

const maxUpdateAttempts = 5

type cartRepo struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository stores carts as JSON blobs under cart:<userID>. Every
// write refreshes the TTL.
func NewCartRepository(client *redis.Client, ttl time.Duration) repository.CartStore {
	return &cartRepo{client: client, ttl: ttl}
}

func (r *cartRepo) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return load(ctx, r.client, userID)
}

func (r *cartRepo) Update(ctx context.Context, userID string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	key := cartKey(userID)
	var updated *domain.Cart
	var fnErr error

	txf := func(tx *redis.Tx) error {
		cart, err := load(ctx, tx, userID)
		if err != nil {
			return err
		}
		if fnErr = fn(cart); fnErr != nil {
			return fnErr
		}
		cart.UpdatedAt = time.Now().UTC()
		data, err := json.Marshal(cart)
		if err != nil {
			return fmt.Errorf("marshal cart failed: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = cart
		return nil
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if fnErr != nil {
			return nil, fnErr
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, storageErr("update cart", err)
		}
		slog.Debug("cart write conflict, retrying", "user_id", userID, "attempt", attempt)
	}
	return nil, domain.ErrCartConflict
}

func (r *cartRepo) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return storageErr("delete cart", err)
	}
	return nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func load(ctx context.Context, c getter, userID string) (*domain.Cart, error) {
	data, err := c.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.NewCart(userID), nil
	}
	if err != nil {
		return nil, storageErr("get cart", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	if cart.Lines == nil {
		cart.Lines = []domain.CartLine{}
	}
	cart.UserID = userID
	return &cart, nil
}

func storageErr(op string, err error) error {
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}
