package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alevatex/internal/config"
	"alevatex/internal/domain"
	"alevatex/internal/logging"
)

func TestOpen_SQLitePersistsAcrossReopen(t *testing.T) {
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer relaySrv.Close()

	cfg := config.Config{
		StoreBackend:  config.BackendSQLite,
		StoreKey:      "alevatex_leads",
		SQLitePath:    filepath.Join(t.TempDir(), "leads.db"),
		RelayEndpoint: relaySrv.URL,
	}
	ctx := context.Background()

	a, err := Open(ctx, cfg, logging.Discard(), nil)
	require.NoError(t, err)
	lead, state, err := a.Submissions.Submit(ctx, map[string]string{"name": "Ann", "email": "ann@x.com", "message": "hi"})
	require.NoError(t, err)
	assert.Equal(t, domain.FormSuccess, state)
	require.NoError(t, a.Close())

	b, err := Open(ctx, cfg, logging.Discard(), nil)
	require.NoError(t, err)
	defer b.Close()
	got, err := b.Leads.Get(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
}

func TestOpen_Memory(t *testing.T) {
	a, err := Open(context.Background(), config.Config{StoreBackend: config.BackendMemory, StoreKey: "k"}, logging.Discard(), nil)
	require.NoError(t, err)
	assert.NoError(t, a.Close())
	assert.Empty(t, a.Leads.List(context.Background(), "", domain.FilterAll))
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.Config{StoreBackend: "etcd"}, logging.Discard(), nil)
	assert.Error(t, err)
}
