// Package handlers contains the HTTP handlers for the console API. Every
// handler takes one catalog snapshot per request so a concurrent refresh
// never mixes records from two snapshots in one response.
package handlers

import (
	"net/http"
	"time"

	"templeadmin/internal/catalog"
	"templeadmin/internal/types"
)

// CatalogProvider returns the snapshot currently being served.
// *catalog.Store satisfies it.
type CatalogProvider interface {
	Current() *catalog.Catalog
}

// Clock returns the current time. Handlers that compute relative dates
// accept one so tests can pin "today".
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

func currentCatalog(p CatalogProvider) (*catalog.Catalog, error) {
	c := p.Current()
	if c == nil {
		return nil, types.NewAppError(types.ErrCodeCatalogUnavailable, "catalog is not loaded", nil)
	}
	return c, nil
}

func listMeta(c *catalog.Catalog, total int) *types.ResponseMeta {
	return &types.ResponseMeta{
		Total:       total,
		CatalogAsOf: c.LoadedAt().UTC().Format(time.RFC3339),
	}
}

func tenantNotFound(id string) error {
	return types.NewAppErrorWithDetails(types.ErrCodeNotFoundTenant, "tenant not found", nil,
		map[string]any{"tenant_id": id})
}

func pathTenant(c *catalog.Catalog, r *http.Request, param string) (types.Tenant, error) {
	id := urlParam(r, param)
	t, ok := c.GetTenant(id)
	if !ok {
		return types.Tenant{}, tenantNotFound(id)
	}
	return t, nil
}
