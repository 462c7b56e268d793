package storage

import (
	"context"
	"reflect"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/OhASys/sstracker-backend/domain"
)

func newTestStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, ttl), mr
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	store, _ := newTestStore(t, 0)
	ctx := context.Background()

	want := domain.UserState{
		CurrentTabID: "t1",
		Tabs:         []domain.Tab{{ID: "t1", Name: "home"}},
		Tasks: map[string][]domain.Task{
			"t1": {{ID: "k1", Name: "buy milk", IsDone: true, SortOrder: 2}},
		},
	}
	if err := store.Save(ctx, "user-1", want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := store.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatal("expected a stored board")
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch: %#v", got)
	}
}

func TestLoadMissingUser(t *testing.T) {
	store, _ := newTestStore(t, 0)

	_, ok, err := store.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a missing board")
	}
}

func TestLoadEvictsCorruptValue(t *testing.T) {
	store, mr := newTestStore(t, 0)
	mr.Set(boardKey("user-1"), "{not json")

	_, ok, err := store.Load(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatal("expected corrupt value to read as missing")
	}
	if mr.Exists(boardKey("user-1")) {
		t.Fatal("expected corrupt value to be evicted")
	}
}

func TestSaveAppliesTTL(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)

	if err := store.Save(context.Background(), "user-1", domain.UserState{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ttl := mr.TTL(boardKey("user-1")); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected TTL: %v", ttl)
	}
}

func TestSaveOverwrites(t *testing.T) {
	store, _ := newTestStore(t, 0)
	ctx := context.Background()

	if err := store.Save(ctx, "user-1", domain.UserState{CurrentTabID: "t1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "user-1", domain.UserState{CurrentTabID: "t2"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := store.Load(ctx, "user-1")
	if err != nil || !ok {
		t.Fatalf("load: %v %v", ok, err)
	}
	if got.CurrentTabID != "t2" {
		t.Fatalf("expected latest save to win, got %q", got.CurrentTabID)
	}
}
