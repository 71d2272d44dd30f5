// Package directory resolves user ids to public profiles. Relay pushes
// carry bare sender ids, so every inbound message goes through here.
package directory

import (
	"context"
	"time"

	"github.com/c-pro/geche"

	"potluck/internal/models"
)

const DefaultTTL = 5 * time.Minute

type profileFetcher interface {
	User(ctx context.Context, id string) (models.Profile, error)
}

type Directory struct {
	fetcher profileFetcher
	cache   geche.Geche[string, models.Profile]
}

func New(ctx context.Context, fetcher profileFetcher, ttl time.Duration) *Directory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Directory{
		fetcher: fetcher,
		cache:   geche.NewMapTTLCache[string, models.Profile](ctx, ttl, time.Minute),
	}
}

// Resolve returns the profile for id, from cache when fresh, otherwise from
// the backend.
func (d *Directory) Resolve(ctx context.Context, id string) (models.Profile, error) {
	if p, err := d.cache.Get(id); err == nil {
		return p, nil
	}

	p, err := d.fetcher.User(ctx, id)
	if err != nil {
		return models.Profile{}, err
	}
	d.cache.Set(id, p)
	return p, nil
}

// Prime seeds the cache with profiles already known locally, such as the
// session identity and the friends list, saving a round trip per peer.
func (d *Directory) Prime(profiles ...models.Profile) {
	for _, p := range profiles {
		if p.ID == "" {
			continue
		}
		d.cache.Set(p.ID, p)
	}
}
