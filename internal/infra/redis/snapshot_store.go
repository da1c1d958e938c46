package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stocklane/api/internal/metrics"
	"github.com/stocklane/api/pkg/domain/shared"
)

const snapshotKeyPrefix = "access:snapshot"

// SnapshotPayload is the cached representation of a resolved permission
// profile. The full in-memory snapshot is rebuilt from it on read, so
// only the inputs are stored.
type SnapshotPayload struct {
	Permissions []string `json:"permissions"`
	SuperAdmin  bool     `json:"super_admin"`
}

// SnapshotStore caches resolved permission profiles per user and tenant.
// Entries expire on TTL and are invalidated explicitly whenever role or
// membership assignments change.
type SnapshotStore struct {
	cache  *Cache[SnapshotPayload]
	client *Client
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(client *Client, ttl time.Duration) (*SnapshotStore, error) {
	cache, err := NewCache[SnapshotPayload](client, snapshotKeyPrefix, ttl)
	if err != nil {
		return nil, err
	}
	return &SnapshotStore{cache: cache, client: client}, nil
}

// snapshotKey builds the cache key for a user and tenant pair. Users
// without a bound tenant share the "-" tenant segment.
func snapshotKey(userID shared.ID, tenantID *shared.ID) string {
	tenant := "-"
	if tenantID != nil && !tenantID.IsZero() {
		tenant = tenantID.String()
	}
	return fmt.Sprintf("%s:%s", userID.String(), tenant)
}

// Get retrieves a cached permission profile. Returns ErrCacheMiss when
// no entry exists.
func (s *SnapshotStore) Get(ctx context.Context, userID shared.ID, tenantID *shared.ID) (*SnapshotPayload, error) {
	payload, err := s.cache.Get(ctx, snapshotKey(userID, tenantID))
	if errors.Is(err, ErrCacheMiss) {
		metrics.SnapshotCacheMisses.Inc()
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	metrics.SnapshotCacheHits.Inc()
	return payload, nil
}

// Set stores a permission profile for a user and tenant pair.
func (s *SnapshotStore) Set(ctx context.Context, userID shared.ID, tenantID *shared.ID, payload SnapshotPayload) error {
	return s.cache.Set(ctx, snapshotKey(userID, tenantID), payload)
}

// Invalidate removes the cached profile for a single user and tenant
// pair.
func (s *SnapshotStore) Invalidate(ctx context.Context, userID shared.ID, tenantID *shared.ID) error {
	return s.cache.Delete(ctx, snapshotKey(userID, tenantID))
}

// InvalidateUser removes all cached profiles for a user across tenants.
// Used when role assignments change, since roles apply in every tenant.
func (s *SnapshotStore) InvalidateUser(ctx context.Context, userID shared.ID) error {
	pattern := fmt.Sprintf("%s:%s:*", snapshotKeyPrefix, userID.String())
	keys, err := s.client.client.Keys(ctx, pattern).Result()
	if err != nil {
		return fmt.Errorf("snapshot invalidate: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...)
}
