// Package assets resolves opaque storage references to time-limited
// signed URLs, caching them until they expire.
package assets

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Signer obtains a signed, directly fetchable URL for a storage key.
type Signer interface {
	SignAssetURL(ctx context.Context, key string) (string, error)
}

// DefaultTTL matches the platform's signed-URL validity window.
const DefaultTTL = 5 * time.Minute

type entry struct {
	url       string
	expiresAt time.Time
}

// Resolver caches signed URLs by reference and coalesces concurrent
// resolutions of the same reference into one signing call. Failures
// are returned but never cached, so a later attempt may retry.
type Resolver struct {
	signer Signer
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]entry

	group singleflight.Group
}

func NewResolver(signer Signer, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Resolver{
		signer:  signer,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Resolve returns a fetchable URL for the reference, or "" for an
// empty reference. On signing failure it returns an error; callers
// render a placeholder rather than failing the page.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	if url, ok := r.cached(ref); ok {
		return url, nil
	}

	v, err, _ := r.group.Do(ref, func() (interface{}, error) {
		// Another caller may have populated the cache while this one
		// waited to enter the flight.
		if url, ok := r.cached(ref); ok {
			return url, nil
		}
		url, err := r.signer.SignAssetURL(ctx, ref)
		if err != nil {
			return nil, err
		}
		r.store(ref, url)
		return url, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (r *Resolver) cached(ref string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[ref]
	if !ok {
		return "", false
	}
	if !r.now().Before(e.expiresAt) {
		delete(r.entries, ref)
		return "", false
	}
	return e.url, true
}

func (r *Resolver) store(ref, url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[ref] = entry{url: url, expiresAt: r.now().Add(r.ttl)}
}

// Prune drops expired entries and reports how many were removed.
func (r *Resolver) Prune() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	removed := 0
	for ref, e := range r.entries {
		if !now.Before(e.expiresAt) {
			delete(r.entries, ref)
			removed++
		}
	}
	return removed
}
