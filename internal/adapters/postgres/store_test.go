package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connectTestDB needs a disposable database; set TEST_DATABASE_URL to run.
func connectTestDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := Connect(ctx, url)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))
	return db
}

func TestDB_GetPut(t *testing.T) {
	db := connectTestDB(t)
	ctx := context.Background()
	key := "test_" + uuid.NewString()
	t.Cleanup(func() {
		_, _ = db.Pool.Exec(context.Background(), `DELETE FROM kv_store WHERE key = $1`, key)
	})

	_, found, err := db.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, db.Put(ctx, key, []byte(`[{"id":"a"}]`)))
	require.NoError(t, db.Put(ctx, key, []byte(`[]`)))

	got, found, err := db.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`[]`), got)
}

func TestDB_MigrateIdempotent(t *testing.T) {
	db := connectTestDB(t)
	require.NoError(t, db.Migrate(context.Background()))
}
