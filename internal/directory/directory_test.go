package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"potluck/internal/models"
)

type fakeFetcher struct {
	profiles map[string]models.Profile
	calls    int
}

func (f *fakeFetcher) User(ctx context.Context, id string) (models.Profile, error) {
	f.calls++
	p, ok := f.profiles[id]
	if !ok {
		return models.Profile{}, models.ErrNotFound
	}
	return p, nil
}

func TestResolveCaches(t *testing.T) {
	fetcher := &fakeFetcher{profiles: map[string]models.Profile{
		"u2": {ID: "u2", Username: "bob"},
	}}
	d := New(context.Background(), fetcher, time.Minute)

	p, err := d.Resolve(context.Background(), "u2")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Username != "bob" {
		t.Fatalf("got %q, want bob", p.Username)
	}

	if _, err := d.Resolve(context.Background(), "u2"); err != nil {
		t.Fatalf("resolve cached: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetcher called %d times, want 1", fetcher.calls)
	}
}

func TestResolveMiss(t *testing.T) {
	fetcher := &fakeFetcher{}
	d := New(context.Background(), fetcher, time.Minute)

	if _, err := d.Resolve(context.Background(), "ghost"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	// failed lookups are not cached
	if _, err := d.Resolve(context.Background(), "ghost"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if fetcher.calls != 2 {
		t.Fatalf("fetcher called %d times, want 2", fetcher.calls)
	}
}

func TestPrime(t *testing.T) {
	fetcher := &fakeFetcher{}
	d := New(context.Background(), fetcher, time.Minute)

	d.Prime(
		models.Profile{ID: "u1", Username: "alice"},
		models.Profile{}, // no id, skipped
	)

	p, err := d.Resolve(context.Background(), "u1")
	if err != nil {
		t.Fatalf("resolve primed: %v", err)
	}
	if p.Username != "alice" {
		t.Fatalf("got %q, want alice", p.Username)
	}
	if fetcher.calls != 0 {
		t.Fatalf("fetcher called %d times, want 0", fetcher.calls)
	}
}
