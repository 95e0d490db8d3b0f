package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"templeadmin/internal/catalog"
	"templeadmin/internal/core"
	"templeadmin/internal/types"
)

// fixedNow is mid-way through the seed usage period.
var fixedNow = time.Date(2026, 2, 15, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// emptyProvider serves no catalog, as before the first load completes.
type emptyProvider struct{}

func (emptyProvider) Current() *catalog.Catalog { return nil }

func seedStore(t *testing.T) *catalog.Store {
	t.Helper()
	c, err := catalog.SeedSource{}.Load(context.Background())
	require.NoError(t, err)
	return catalog.NewStore(c)
}

type decisionCall struct {
	module  types.Module
	allowed bool
}

type spyRecorder struct {
	mu    sync.Mutex
	calls []decisionCall
}

func (s *spyRecorder) RecordDecision(m types.Module, allowed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, decisionCall{m, allowed})
}

// newRouter mounts every handler the way main does, minus the global
// middleware.
func newRouter(p CatalogProvider, rec *spyRecorder) chi.Router {
	v := core.NewValidator(quietLogger())
	r := chi.NewRouter()
	NewPlanHandler(p, quietLogger()).RegisterRoutes(r)
	NewTenantHandler(p, fixedClock, quietLogger()).RegisterRoutes(r)
	NewUsageHandler(p, v, fixedClock, quietLogger()).RegisterRoutes(r)
	if rec == nil {
		NewEnforcementHandler(p, nil, v, quietLogger()).RegisterRoutes(r)
	} else {
		NewEnforcementHandler(p, rec, v, quietLogger()).RegisterRoutes(r)
	}
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, reader))
	return w
}

// envelope decodes {"data": ..., "meta": ...} into typed parts.
func envelope[T any](t *testing.T, w *httptest.ResponseRecorder) (T, *types.ResponseMeta) {
	t.Helper()
	var body struct {
		Data T                   `json:"data"`
		Meta *types.ResponseMeta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Data, body.Meta
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body core.APIErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Error.Code
}
