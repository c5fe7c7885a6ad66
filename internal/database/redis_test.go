package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestNewRedisDB_PingError(t *testing.T) {
	origPing := redisPing
	t.Cleanup(func() { redisPing = origPing })
	redisPing = func(context.Context, *redis.Client) error {
		return errors.New("ping failed")
	}

	if _, err := NewRedisDB("localhost:6379", "pass", 2); err == nil {
		t.Fatal("expected ping error")
	}
}

func TestNewRedisDB_SetsOptions(t *testing.T) {
	origNew, origPing := newRedisClient, redisPing
	t.Cleanup(func() {
		newRedisClient, redisPing = origNew, origPing
	})

	var got redis.Options
	newRedisClient = func(opts *redis.Options) *redis.Client {
		got = *opts
		return &redis.Client{}
	}
	redisPing = func(context.Context, *redis.Client) error { return nil }

	db, err := NewRedisDB("localhost:6379", "pass", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.Client == nil {
		t.Fatal("expected client")
	}
	if got.Addr != "localhost:6379" || got.Password != "pass" || got.DB != 2 {
		t.Fatalf("unexpected connection options: %+v", got)
	}
	if got.DialTimeout != 5*time.Second || got.ReadTimeout != time.Second || got.WriteTimeout != time.Second {
		t.Fatalf("unexpected timeouts: %+v", got)
	}
	if got.PoolSize != 20 || got.MinIdleConns != 4 {
		t.Fatalf("unexpected pool sizing: %d/%d", got.PoolSize, got.MinIdleConns)
	}
}

func TestNewRedisDB_Miniredis(t *testing.T) {
	mr := miniredis.RunT(t)

	db, err := NewRedisDB(mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Health(context.Background()); err != nil {
		t.Fatalf("unexpected health error: %v", err)
	}

	mr.Close()
	if err := db.Health(context.Background()); err == nil {
		t.Fatal("expected health error after server shutdown")
	}
}

func TestRedisDB_CloseNil(t *testing.T) {
	db := &RedisDB{}
	if err := db.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
}
