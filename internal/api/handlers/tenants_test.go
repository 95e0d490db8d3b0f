package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"templeadmin/internal/catalog"
	"templeadmin/internal/types"
)

func TestTenantHandler_List(t *testing.T) {
	w := do(t, newRouter(seedStore(t), nil), http.MethodGet, "/tenants", "")
	require.Equal(t, http.StatusOK, w.Code)

	tenants, meta := envelope[[]TenantOverview](t, w)
	require.Len(t, tenants, 6)
	assert.Equal(t, 6, meta.Total)

	plans := map[string]string{}
	for _, tn := range tenants {
		plans[tn.ID] = tn.CurrentPlan
	}
	assert.Equal(t, "Premium", plans["TEN-001"])
	assert.Equal(t, "Free", plans["TEN-005"])
	assert.Equal(t, "Standard", plans["TEN-006"])
}

func TestTenantHandler_List_NotAssigned(t *testing.T) {
	d := catalog.SeedData()
	d.Subscriptions = d.Subscriptions[1:]
	c, err := catalog.New("test", d)
	require.NoError(t, err)

	w := do(t, newRouter(catalog.NewStore(c), nil), http.MethodGet, "/tenants", "")
	tenants, _ := envelope[[]TenantOverview](t, w)
	assert.Equal(t, "Not Assigned", tenants[0].CurrentPlan)
}

func TestTenantHandler_Get(t *testing.T) {
	r := newRouter(seedStore(t), nil)

	w := do(t, r, http.MethodGet, "/tenants/TEN-002", "")
	require.Equal(t, http.StatusOK, w.Code)
	detail, _ := envelope[TenantDetail](t, w)
	assert.Equal(t, "ISKCON Mumbai", detail.TempleName)
	assert.Equal(t, "Enterprise", detail.CurrentPlan)
	require.NotNil(t, detail.Subscription)
	assert.Equal(t, "SUB-002", detail.Subscription.ID)
	require.NotNil(t, detail.Plan)
	assert.Equal(t, "PLAN-004", detail.Plan.ID)

	w = do(t, r, http.MethodGet, "/tenants/TEN-404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, string(types.ErrCodeNotFoundTenant), errorCode(t, w))
}

func TestTenantHandler_GetSubscription_DaysRemaining(t *testing.T) {
	r := newRouter(seedStore(t), nil)

	tests := []struct {
		tenant string
		want   int
	}{
		{"TEN-001", 28},
		{"TEN-005", 0},
		{"TEN-006", -57},
	}
	for _, tt := range tests {
		t.Run(tt.tenant, func(t *testing.T) {
			w := do(t, r, http.MethodGet, "/tenants/"+tt.tenant+"/subscription", "")
			require.Equal(t, http.StatusOK, w.Code)
			view, _ := envelope[SubscriptionView](t, w)
			assert.Equal(t, tt.want, view.DaysRemaining)
			assert.NotNil(t, view.Plan)
		})
	}
}

func TestTenantHandler_GetSubscription_Missing(t *testing.T) {
	d := catalog.SeedData()
	d.Subscriptions = d.Subscriptions[1:]
	c, err := catalog.New("test", d)
	require.NoError(t, err)

	w := do(t, newRouter(catalog.NewStore(c), nil), http.MethodGet, "/tenants/TEN-001/subscription", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, string(types.ErrCodeNotFoundSubscription), errorCode(t, w))
}

func TestTenantHandler_GetHistory(t *testing.T) {
	r := newRouter(seedStore(t), nil)

	w := do(t, r, http.MethodGet, "/tenants/TEN-001/subscription/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	history, meta := envelope[[]types.SubscriptionHistoryEntry](t, w)
	require.Len(t, history, 2)
	assert.Equal(t, "SH-001", history[0].ID)
	assert.Equal(t, 2, meta.Total)

	w = do(t, r, http.MethodGet, "/tenants/TEN-003/subscription/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	history, meta = envelope[[]types.SubscriptionHistoryEntry](t, w)
	assert.NotNil(t, history)
	assert.Empty(t, history)
	assert.Equal(t, 0, meta.Total)
}
