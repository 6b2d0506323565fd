// Package cache stores rendered availability responses per tenant.
package cache

import (
	"context"
	"net/url"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePrefix evicts every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

const namespace = "avail:"

// TenantPrefix is the key prefix shared by every entry of a tenant.
func TenantPrefix(tenantID string) string {
	return namespace + tenantID + ":"
}

// Key builds the cache key of a request. Query parameters are sorted so
// equivalent requests share an entry.
func Key(tenantID, path string, query url.Values) string {
	key := TenantPrefix(tenantID) + path
	if encoded := query.Encode(); encoded != "" {
		key += "?" + encoded
	}
	return key
}

// InvalidateTenant evicts all cached responses of a tenant.
func InvalidateTenant(ctx context.Context, c Cache, tenantID string) error {
	return c.DeletePrefix(ctx, TenantPrefix(tenantID))
}
