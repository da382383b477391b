package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/ims-backend/pkg/config"
)

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCommands()
	client := &Client{cmd: fake}

	decision, err := client.FixedWindowAllow(ctx, "orders:user-1", 2, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Allowed || decision.Count != 1 || decision.ResetIn != time.Minute {
		t.Fatalf("expected first request allowed, got %+v", decision)
	}
	if fake.ttl["ims:rate_limit:orders:user-1"] != time.Minute {
		t.Fatalf("expected window started on first hit, got %v", fake.ttl)
	}

	fake.ttl["ims:rate_limit:orders:user-1"] = 20 * time.Second
	decision, err = client.FixedWindowAllow(ctx, "orders:user-1", 2, time.Minute)
	if err != nil || !decision.Allowed || decision.Count != 2 || decision.ResetIn != 20*time.Second {
		t.Fatalf("unexpected second decision %+v err=%v", decision, err)
	}

	decision, err = client.FixedWindowAllow(ctx, "orders:user-1", 2, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Allowed {
		t.Fatalf("expected limit reached")
	}
}

func TestFixedWindowAllowRepairsMissingExpiry(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCommands()
	client := &Client{cmd: fake}
	k := RateLimitKey("orders:user-2")
	fake.counters[k] = 5

	if _, err := client.FixedWindowAllow(ctx, "orders:user-2", 10, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.ttl[k] != time.Minute {
		t.Fatalf("expected expiry restored, got %v", fake.ttl[k])
	}
}

func TestReserveCompleteRelease(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCommands()
	client := &Client{cmd: fake}
	scope := "user|POST|/api/v1/orders"

	stored, reserved, err := client.Reserve(ctx, scope, "abc", time.Minute)
	if err != nil || !reserved || stored != "" {
		t.Fatalf("expected first reserve to win, stored=%q reserved=%v err=%v", stored, reserved, err)
	}

	stored, reserved, err = client.Reserve(ctx, scope, "abc", time.Minute)
	if err != nil || reserved || !IsPending(stored) {
		t.Fatalf("expected pending marker, stored=%q reserved=%v err=%v", stored, reserved, err)
	}

	if err := client.Complete(ctx, scope, "abc", `{"status":201}`, time.Hour); err != nil {
		t.Fatalf("complete: %v", err)
	}
	stored, reserved, _ = client.Reserve(ctx, scope, "abc", time.Minute)
	if reserved || stored != `{"status":201}` {
		t.Fatalf("expected completed record, stored=%q reserved=%v", stored, reserved)
	}
	if fake.ttl[IdempotencyKey(scope, "abc")] != time.Hour {
		t.Fatalf("expected completed ttl to replace lease")
	}

	if err := client.Release(ctx, scope, "abc"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, reserved, _ := client.Reserve(ctx, scope, "abc", time.Minute); !reserved {
		t.Fatalf("expected key claimable after release")
	}
}

func TestReserveRetriesWhenKeyExpiresBetweenCalls(t *testing.T) {
	fake := newFakeCommands()
	fake.vanishOnGet = 1
	client := &Client{cmd: fake}
	k := IdempotencyKey("s", "id")
	fake.data[k] = "stale"

	_, reserved, err := client.Reserve(context.Background(), "s", "id", time.Minute)
	if err != nil || !reserved {
		t.Fatalf("expected second claim to win, reserved=%v err=%v", reserved, err)
	}
}

func TestKeys(t *testing.T) {
	if got := IdempotencyKey("scope", "id"); got != "ims:idempotency:scope:id" {
		t.Fatalf("unexpected idempotency key %s", got)
	}
	if got := RateLimitKey(" scope "); got != "ims:rate_limit:scope" {
		t.Fatalf("unexpected rate limit key %s", got)
	}
	if got := IdempotencyKey("", "id"); got != "ims:idempotency:id" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); !errors.Is(err, errNotInitialized) {
		t.Fatalf("expected not initialized error, got %v", err)
	}
	if _, _, err := client.Reserve(context.Background(), "s", "id", time.Second); !errors.Is(err, errNotInitialized) {
		t.Fatalf("expected not initialized error from reserve, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close of empty client should be a no-op, got %v", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when no endpoint is configured")
	}

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://:pw@cache:6380/2", PoolSize: 7})
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if opts.Addr != "cache:6380" || opts.Password != "pw" || opts.DB != 2 || opts.PoolSize != 7 {
		t.Fatalf("unexpected options %+v", opts)
	}

	opts, err = optionsFromConfig(config.RedisConfig{URL: "redis://cache:6379", DB: 4})
	if err != nil || opts.DB != 4 {
		t.Fatalf("expected configured db to fill in, got %+v err=%v", opts, err)
	}

	opts, err = optionsFromConfig(config.RedisConfig{Address: "localhost:6379", DB: 3})
	if err != nil {
		t.Fatalf("address config: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.DB != 3 {
		t.Fatalf("unexpected options %+v", opts)
	}
}

// fakeCommands keeps strings, counters and TTLs in maps. A key with no TTL
// entry reports -1 like a persistent redis key.
type fakeCommands struct {
	data        map[string]string
	counters    map[string]int64
	ttl         map[string]time.Duration
	vanishOnGet int
}

func newFakeCommands() *fakeCommands {
	return &fakeCommands{
		data:     make(map[string]string),
		counters: make(map[string]int64),
		ttl:      make(map[string]time.Duration),
	}
}

func (f *fakeCommands) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeCommands) Get(_ context.Context, key string) *redis.StringCmd {
	if f.vanishOnGet > 0 {
		f.vanishOnGet--
		delete(f.data, key)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeCommands) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.data[key] = fmt.Sprint(value)
	f.ttl[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCommands) SetNX(_ context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if _, exists := f.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	f.data[key] = fmt.Sprint(value)
	f.ttl[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (f *fakeCommands) Incr(_ context.Context, key string) *redis.IntCmd {
	f.counters[key]++
	return redis.NewIntResult(f.counters[key], nil)
}

func (f *fakeCommands) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.ttl[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (f *fakeCommands) TTL(_ context.Context, key string) *redis.DurationCmd {
	if ttl, ok := f.ttl[key]; ok {
		return redis.NewDurationResult(ttl, nil)
	}
	return redis.NewDurationResult(-1, nil)
}

func (f *fakeCommands) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(f.data, key)
		delete(f.ttl, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
