package ports

import (
	"context"

	"alevatex/internal/domain"
)

// KeyValueStore persists opaque values under string keys. Backends: memory,
// sqlite, postgres, redis.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
}

// LeadStore holds the whole lead list, newest first. Load never fails: absent
// or malformed data reads as an empty list. Save overwrites the list wholesale
// and swallows (logs) failures.
type LeadStore interface {
	Load(ctx context.Context) []domain.Lead
	Save(ctx context.Context, leads []domain.Lead)
	// Update runs Load, fn, Save as one step within this process. Save is
	// skipped when fn reports no change.
	Update(ctx context.Context, fn func(leads []domain.Lead) ([]domain.Lead, bool))
}
