package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyPrefix = "idempotency"

	// pendingValue marks a key whose first request has not finished yet.
	pendingValue = "pending"
)

// ErrReservationLost is returned when a key vanished and could not be claimed again.
var ErrReservationLost = errors.New("idempotency reservation lost")

// IdempotencyStore claims, completes and releases Idempotency-Key entries.
type IdempotencyStore interface {
	// Reserve claims scope/id for lease. When the key is already held the stored
	// value is returned with reserved=false; IsPending tells in-flight from done.
	Reserve(ctx context.Context, scope, id string, lease time.Duration) (stored string, reserved bool, err error)
	Complete(ctx context.Context, scope, id, record string, ttl time.Duration) error
	Release(ctx context.Context, scope, id string) error
}

// IsPending reports whether a stored value belongs to a request still running.
func IsPending(stored string) bool {
	return stored == pendingValue
}

func IdempotencyKey(scope, id string) string {
	return key(idempotencyPrefix, scope, id)
}

func (c *Client) Reserve(ctx context.Context, scope, id string, lease time.Duration) (string, bool, error) {
	if err := c.ready(); err != nil {
		return "", false, err
	}
	k := IdempotencyKey(scope, id)
	// A held key may expire between SETNX and GET, so claim once more before giving up.
	for attempt := 0; attempt < 2; attempt++ {
		won, err := c.cmd.SetNX(ctx, k, pendingValue, lease).Result()
		if err != nil {
			return "", false, err
		}
		if won {
			return "", true, nil
		}
		stored, err := c.cmd.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return "", false, err
		}
		return stored, false, nil
	}
	return "", false, ErrReservationLost
}

// Complete replaces the pending marker with the final record.
func (c *Client) Complete(ctx context.Context, scope, id, record string, ttl time.Duration) error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.cmd.Set(ctx, IdempotencyKey(scope, id), record, ttl).Err()
}

// Release drops a reservation so the client may retry with the same key.
func (c *Client) Release(ctx context.Context, scope, id string) error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.cmd.Del(ctx, IdempotencyKey(scope, id)).Err()
}
