package redis

import (
	"context"
	"testing"
	"time"

	"github.com/iho/profitshare/internal/usecase"
)

func TestIdempotencyStore_CheckAndSetExisting(t *testing.T) {
	f := newRedisFixture(t)

	store := f.idempotency
	ctx := context.Background()

	if err := f.client.Set(ctx, store.prefix+"key", "cached", time.Minute).Err(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	exists, resp, err := store.CheckAndSet(ctx, "key", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}

	if !exists || string(resp) != "cached" {
		t.Fatalf("expected existing cached response, got exists=%v resp=%s", exists, resp)
	}
}

func TestIdempotencyStore_CheckAndSetLocksNewKey(t *testing.T) {
	f := newRedisFixture(t)

	store := f.idempotency
	ctx := context.Background()

	exists, resp, err := store.CheckAndSet(ctx, "pending", nil, time.Minute)
	if err != nil || exists || resp != nil {
		t.Fatalf("unexpected result: exists=%v resp=%v err=%v", exists, resp, err)
	}

	val, err := f.client.Get(ctx, store.prefix+"pending").Result()
	if err != nil || val != "processing" {
		t.Fatalf("expected placeholder lock, got val=%s err=%v", val, err)
	}
}

func TestIdempotencyStore_Update(t *testing.T) {
	f := newRedisFixture(t)

	store := f.idempotency
	ctx := context.Background()

	if err := store.Update(ctx, "complete", []byte("done"), time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	val, err := f.client.Get(ctx, store.prefix+"complete").Result()
	if err != nil || val != "done" {
		t.Fatalf("expected stored response, got val=%s err=%v", val, err)
	}
}

func TestIdempotencyStore_SecondClaimSeesPendingMarker(t *testing.T) {
	f := newRedisFixture(t)

	store := f.idempotency
	ctx := context.Background()

	if exists, _, err := store.CheckAndSet(ctx, "req-1", nil, time.Minute); err != nil || exists {
		t.Fatalf("first claim should win, got exists=%v err=%v", exists, err)
	}

	exists, resp, err := store.CheckAndSet(ctx, "req-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if !exists || !usecase.IsIdempotencyPending(resp) {
		t.Fatalf("expected pending marker, got exists=%v resp=%s", exists, resp)
	}

	f.server.FastForward(2 * time.Minute)
	if exists, _, _ := store.CheckAndSet(ctx, "req-1", nil, time.Minute); exists {
		t.Fatalf("expected key to expire")
	}
}
