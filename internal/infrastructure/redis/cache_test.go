package redis

import (
	"context"
	"errors"
	"testing"
	"time"
)

type summary struct {
	TotalBanks int    `json:"totalBanks"`
	Balance    string `json:"balance"`
}

func TestViewCache(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	cache := NewViewCache[summary](fake, "accounts", 5*time.Minute)

	if _, ok := cache.Get(ctx, "user-1"); ok {
		t.Fatal("Get() hit on empty cache")
	}

	cache.Set(ctx, "user-1", &summary{TotalBanks: 2, Balance: "110.25"})
	if fake.ttls["accounts:user-1"] != 5*time.Minute {
		t.Errorf("ttl = %v", fake.ttls["accounts:user-1"])
	}

	got, ok := cache.Get(ctx, "user-1")
	if !ok || got.TotalBanks != 2 || got.Balance != "110.25" {
		t.Fatalf("Get() = %+v, %v", got, ok)
	}

	if err := cache.Invalidate(ctx, "user-1"); err != nil {
		t.Fatalf("Invalidate() failed: %v", err)
	}
	if _, ok := cache.Get(ctx, "user-1"); ok {
		t.Error("Get() hit after Invalidate()")
	}
}

func TestViewCache_FailuresAreMisses(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	cache := NewViewCache[summary](fake, "accounts", time.Minute)

	fake.data["accounts:user-1"] = "{not json"
	if _, ok := cache.Get(ctx, "user-1"); ok {
		t.Error("Get() hit on corrupt entry")
	}

	fake.err = errors.New("redis down")
	cache.Set(ctx, "user-2", &summary{})
	if _, ok := cache.Get(ctx, "user-2"); ok {
		t.Error("Get() hit while redis is down")
	}
	if err := cache.Invalidate(ctx, "user-2"); err == nil {
		t.Error("Invalidate() should surface the redis error")
	}
}
