package shopping

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HammerMeetNail/giftmatch/internal/models"
	"github.com/HammerMeetNail/giftmatch/internal/testutil"
)

func seedPopular(t *testing.T, cache *CachedSearcher, queries ...string) {
	t.Helper()
	for _, q := range queries {
		if err := cache.redis.ZIncrBy(context.Background(), popularKey, 1, q).Err(); err != nil {
			t.Fatalf("seeding popular queries: %v", err)
		}
	}
}

func newTestWarmer(cache *CachedSearcher, tries int) (*Warmer, *[]time.Duration) {
	w := NewWarmer(cache, WarmerOptions{Top: 10, Limit: 5, Tries: tries, Backoff: 100 * time.Millisecond})
	var slept []time.Duration
	w.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return w, &slept
}

func TestWarmer_RunOnce(t *testing.T) {
	_, client := testutil.NewRedis(t)
	stub := &stubSearcher{results: []models.ExternalProduct{{Name: "Vinho"}}}
	cache := NewCachedSearcher(stub, client, time.Hour)
	seedPopular(t, cache, "vinho", "vinho", "fone")

	w, slept := newTestWarmer(cache, 3)
	refreshed, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refreshed != 2 {
		t.Fatalf("expected 2 refreshed, got %d", refreshed)
	}
	if stub.queries[0] != "vinho" {
		t.Fatalf("expected most popular first, got %v", stub.queries)
	}
	if len(*slept) != 0 {
		t.Fatal("expected no backoff on success")
	}
	if exists, _ := client.Exists(context.Background(), CacheKey("fone", 5)).Result(); exists != 1 {
		t.Fatal("expected warmed entry in cache")
	}
}

func TestWarmer_RetriesWithBackoff(t *testing.T) {
	_, client := testutil.NewRedis(t)
	stub := &stubSearcher{errs: []error{ErrProviderUnavailable, ErrProviderUnavailable, nil}}
	cache := NewCachedSearcher(stub, client, time.Hour)
	seedPopular(t, cache, "vinho")

	w, slept := newTestWarmer(cache, 3)
	refreshed, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refreshed != 1 || stub.calls != 3 {
		t.Fatalf("expected success on third attempt, got refreshed=%d calls=%d", refreshed, stub.calls)
	}
	if len(*slept) != 2 || (*slept)[0] != 100*time.Millisecond || (*slept)[1] != 200*time.Millisecond {
		t.Fatalf("expected exponential backoff, got %v", *slept)
	}
}

func TestWarmer_GivesUpAfterTries(t *testing.T) {
	_, client := testutil.NewRedis(t)
	stub := &stubSearcher{errs: []error{ErrProviderUnavailable, ErrProviderUnavailable}}
	cache := NewCachedSearcher(stub, client, time.Hour)
	seedPopular(t, cache, "vinho")

	w, _ := newTestWarmer(cache, 2)
	refreshed, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("expected per-query failure to be logged, got %v", err)
	}
	if refreshed != 0 || stub.calls != 2 {
		t.Fatalf("expected 2 attempts and no refresh, got refreshed=%d calls=%d", refreshed, stub.calls)
	}
}

func TestWarmer_QuotaStopsCycle(t *testing.T) {
	_, client := testutil.NewRedis(t)
	quota := errors.Join(ErrProviderUnavailable, ErrQuotaExceeded)
	stub := &stubSearcher{errs: []error{quota}}
	cache := NewCachedSearcher(stub, client, time.Hour)
	seedPopular(t, cache, "vinho", "vinho", "fone")

	w, slept := newTestWarmer(cache, 3)
	_, err := w.RunOnce(context.Background())
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if stub.calls != 1 || len(*slept) != 0 {
		t.Fatalf("expected no retries after quota error, got calls=%d sleeps=%d", stub.calls, len(*slept))
	}
}

func TestWarmer_StartStop(t *testing.T) {
	_, client := testutil.NewRedis(t)
	cache := NewCachedSearcher(&stubSearcher{}, client, time.Hour)

	w := NewWarmer(cache, WarmerOptions{Spec: "not a spec"})
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("expected invalid spec to fail")
	}

	w = NewWarmer(cache, WarmerOptions{Spec: "@every 1h"})
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.Stop()

	disabled := NewWarmer(cache, WarmerOptions{})
	if err := disabled.Start(context.Background()); err != nil {
		t.Fatalf("expected empty spec to disable the warmer, got %v", err)
	}
}
