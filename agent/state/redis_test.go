package state

import (
	"context"
	"errors"
	"testing"
	"time"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
)

// TestRedisStoreIntegration requires a running Redis and skips otherwise.
func TestRedisStoreIntegration(t *testing.T) {
	store, err := NewRedisStore("redis://localhost:6379/0", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		t.Skip("Skipping Redis integration test: redis not available")
	}

	sess := NewSession("redis-it", time.Now())
	sess.Context = contractx.ConversationContext{ApplianceType: contractx.ApplianceDishwasher, ModelNumber: "WDT780SAEM1"}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load(ctx, "redis-it")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Context.ModelNumber != "WDT780SAEM1" {
		t.Fatalf("Load() = %#v", got)
	}
	if err := store.Delete(ctx, "redis-it"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(ctx, "redis-it"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Load() after delete error = %v", err)
	}
}

func TestNewRedisStoreValidates(t *testing.T) {
	t.Parallel()

	if _, err := NewRedisStore("", time.Minute); err == nil {
		t.Fatal("NewRedisStore(empty) error = nil")
	}
	if _, err := NewRedisStore("not a url", time.Minute); err == nil {
		t.Fatal("NewRedisStore(bad url) error = nil")
	}
	if _, err := NewRedisStore("redis://localhost:6379/0", -time.Second); err == nil {
		t.Fatal("NewRedisStore(negative ttl) error = nil")
	}
}
