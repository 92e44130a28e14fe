package redis

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"job-board-api/internal/models"
)

const (
	ListingCacheTTL    = 5 * time.Minute
	SearchCacheTTL     = 1 * time.Minute
	RateLimitWindowTTL = 1 * time.Minute
)

func ListingKey(id string) string {
	return fmt.Sprintf("listing:%s", id)
}

func SearchKey(f models.SearchFilters) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%+v", f)
	return fmt.Sprintf("listings:search:%x", h.Sum64())
}

func RateLimitKey(clientIP string) string {
	return fmt.Sprintf("ratelimit:client:%s", clientIP)
}

func (c *Cache) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	var l models.Listing
	if err := c.Get(ctx, ListingKey(id), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Cache) SetListing(ctx context.Context, l *models.Listing) error {
	return c.Set(ctx, ListingKey(l.ID), l, ListingCacheTTL)
}

func (c *Cache) InvalidateListing(ctx context.Context, id string) error {
	return c.Delete(ctx, ListingKey(id))
}

func (c *Cache) GetSearchResult(ctx context.Context, f models.SearchFilters) (*models.SearchResult, error) {
	var result models.SearchResult
	if err := c.Get(ctx, SearchKey(f), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Cache) SetSearchResult(ctx context.Context, f models.SearchFilters, result *models.SearchResult) error {
	return c.Set(ctx, SearchKey(f), result, SearchCacheTTL)
}

// InvalidateSearches drops every cached search page. Called after any
// write so list results never serve stale data beyond the TTL.
func (c *Cache) InvalidateSearches(ctx context.Context) error {
	return c.DeleteByPattern(ctx, "listings:search:*")
}

func (c *Cache) IncrementClientRateLimit(ctx context.Context, clientIP string) (int64, error) {
	return c.IncrementWithExpiry(ctx, RateLimitKey(clientIP), RateLimitWindowTTL)
}
