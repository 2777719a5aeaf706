package httpadapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alevatex/internal/adapters/memory"
	"alevatex/internal/adapters/relay"
	"alevatex/internal/domain"
	"alevatex/internal/leadstore"
	"alevatex/internal/logging"
	"alevatex/internal/metrics"
	leadsvc "alevatex/internal/services/leads"
	"alevatex/internal/services/submissions"
	"alevatex/internal/workers/relayrunner"
)

type testEnv struct {
	srv        *httptest.Server
	store      *leadstore.Store
	relayCalls atomic.Int32
	relayFail  atomic.Bool
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{}
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.relayCalls.Add(1)
		if env.relayFail.Load() {
			http.Error(w, `{"error":"nope"}`, http.StatusUnprocessableEntity)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(relaySrv.Close)

	log := logging.Discard()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	env.store = leadstore.New(memory.New(), "alevatex_leads", log, m)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	pool := relayrunner.New(relay.New(relaySrv.URL, 5*time.Second), log, m)
	pool.Run(ctx, 2)

	subs := submissions.New(env.store, pool, log, m)
	leads := leadsvc.New(env.store, time.UTC, log, m)
	s := New(subs, leads, "alevatex", reg, log)
	s.now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }

	env.srv = httptest.NewServer(s.Routes())
	t.Cleanup(env.srv.Close)
	return env
}

func (env *testEnv) do(t *testing.T, method, path, contentType, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, env.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

const annJSON = `{"name":"Ann","email":"ann@x.com","service":"Web Design","message":"hi"}`

func TestHealthz(t *testing.T) {
	env := setupTestServer(t)
	resp := env.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, resp))
}

func TestPostContact_Success(t *testing.T) {
	env := setupTestServer(t)

	resp := env.do(t, http.MethodPost, "/api/contact", "application/json", annJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[contactResponse](t, resp)
	assert.Equal(t, domain.FormSuccess, body.State)
	require.NotNil(t, body.Lead)
	assert.Equal(t, domain.StatusNew, body.Lead.Status)
	assert.EqualValues(t, 1, env.relayCalls.Load())

	resp = env.do(t, http.MethodGet, "/api/leads?q=ann&status=all", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	leads := decode[[]domain.Lead](t, resp)
	require.Len(t, leads, 1)
	assert.Equal(t, "Ann", leads[0].Name)

	resp = env.do(t, http.MethodGet, "/api/leads?q=bob", "", "")
	assert.Empty(t, decode[[]domain.Lead](t, resp))
}

func TestPostContact_FormEncoded(t *testing.T) {
	env := setupTestServer(t)
	form := url.Values{"name": {"Ann"}, "email": {"ann@x.com"}, "message": {"hi"}}
	resp := env.do(t, http.MethodPost, "/api/contact", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, env.store.Load(context.Background()), 1)
}

func TestPostContact_RelayFailureStillStores(t *testing.T) {
	env := setupTestServer(t)
	env.relayFail.Store(true)

	resp := env.do(t, http.MethodPost, "/api/contact", "application/json", annJSON)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body := decode[contactResponse](t, resp)
	assert.Equal(t, domain.FormError, body.State)
	require.NotNil(t, body.Lead)

	leads := env.store.Load(context.Background())
	require.Len(t, leads, 1)
	assert.Equal(t, body.Lead.ID, leads[0].ID)
}

func TestPostContact_Invalid(t *testing.T) {
	env := setupTestServer(t)

	resp := env.do(t, http.MethodPost, "/api/contact", "application/json", `{"name":"Ann"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[contactResponse](t, resp)
	assert.Equal(t, domain.FormIdle, body.State)
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "message")

	resp = env.do(t, http.MethodPost, "/api/contact", "application/json", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/contact", "text/plain", annJSON)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.Empty(t, env.store.Load(context.Background()))
	assert.EqualValues(t, 0, env.relayCalls.Load())
}

func TestPostContact_NonStringField(t *testing.T) {
	env := setupTestServer(t)

	for _, body := range []string{
		`{"name":"Ann","email":"ann@x.com","message":"hi","budget":1e6}`,
		`{"name":"Ann","email":"ann@x.com","message":"hi","newsletter":true}`,
		`{"name":"Ann","email":"ann@x.com","message":["hi"]}`,
	} {
		resp := env.do(t, http.MethodPost, "/api/contact", "application/json", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.Equal(t, "bad_request", decode[errorResponse](t, resp).Error)
	}

	assert.Empty(t, env.store.Load(context.Background()))
	assert.EqualValues(t, 0, env.relayCalls.Load())
}

func seedLeads(t *testing.T, env *testEnv) {
	t.Helper()
	ts := time.Date(2024, 10, 24, 14, 5, 9, 0, time.UTC)
	env.store.Save(context.Background(), []domain.Lead{
		{ID: "2", Name: "Bob", Email: "bob@acme.com", Service: "Video Editing", Message: `He said "hi", ok`, Timestamp: ts.Add(time.Hour), Status: domain.StatusContacted},
		{ID: "1", Name: "Ann", Email: "ann@x.com", Service: "Web Design", Message: "hi", Timestamp: ts, Status: domain.StatusNew},
	})
}

func TestGetLeads_Filter(t *testing.T) {
	env := setupTestServer(t)
	seedLeads(t, env)

	resp := env.do(t, http.MethodGet, "/api/leads?status=contacted", "", "")
	leads := decode[[]domain.Lead](t, resp)
	require.Len(t, leads, 1)
	assert.Equal(t, "2", leads[0].ID)

	resp = env.do(t, http.MethodGet, "/api/leads", "", "")
	assert.Len(t, decode[[]domain.Lead](t, resp), 2)

	resp = env.do(t, http.MethodGet, "/api/leads?status=closed", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetLead(t *testing.T) {
	env := setupTestServer(t)
	seedLeads(t, env)

	resp := env.do(t, http.MethodGet, "/api/leads/1", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ann", decode[domain.Lead](t, resp).Name)

	resp = env.do(t, http.MethodGet, "/api/leads/nope", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatusTransitions(t *testing.T) {
	env := setupTestServer(t)
	seedLeads(t, env)

	for _, st := range []string{"contacted", "archived", "new"} {
		resp := env.do(t, http.MethodPut, "/api/leads/1/status", "application/json", `{"status":"`+st+`"}`)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, domain.Status(st), env.store.Load(context.Background())[1].Status)
	}

	resp := env.do(t, http.MethodPut, "/api/leads/1/status", "application/json", `{"status":"closed"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "/api/leads/missing/status", "application/json", `{"status":"archived"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/leads/1/advance", "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, domain.StatusContacted, env.store.Load(context.Background())[1].Status)
}

func TestDeleteLead(t *testing.T) {
	env := setupTestServer(t)
	seedLeads(t, env)

	resp := env.do(t, http.MethodDelete, "/api/leads/1", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Len(t, env.store.Load(context.Background()), 2)

	resp = env.do(t, http.MethodDelete, "/api/leads/1?confirm=true", "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	leads := env.store.Load(context.Background())
	require.Len(t, leads, 1)
	assert.Equal(t, "2", leads[0].ID)

	resp = env.do(t, http.MethodDelete, "/api/leads/1?confirm=true", "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Len(t, env.store.Load(context.Background()), 1)
}

func TestExport(t *testing.T) {
	env := setupTestServer(t)
	seedLeads(t, env)

	resp := env.do(t, http.MethodGet, "/api/leads/export.csv", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="alevatex_leads_2026-10-18.csv"`, resp.Header.Get("Content-Disposition"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(string(body), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,Email,Service,Message,Timestamp,Status", lines[0])
	assert.Equal(t, `"Bob","bob@acme.com","Video Editing","He said ""hi"", ok","10/24/2024, 3:05:09 PM","contacted"`, lines[1])
}

func TestStatsAndMetrics(t *testing.T) {
	env := setupTestServer(t)
	seedLeads(t, env)
	env.do(t, http.MethodPost, "/api/contact", "application/json", annJSON)

	resp := env.do(t, http.MethodGet, "/api/leads/stats", "", "")
	st := decode[domain.Stats](t, resp)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 2, st.New)
	assert.Equal(t, 1, st.Contacted)

	resp = env.do(t, http.MethodGet, "/metrics", "", "")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `alevatex_submissions_total{outcome="stored"} 1`)
	assert.Contains(t, string(body), `alevatex_relay_requests_total{result="success"} 1`)
}
