package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"templeadmin/internal/billing"
	"templeadmin/internal/types"
)

func TestEnforcementHandler_CheckAction(t *testing.T) {
	tests := []struct {
		name        string
		tenant      string
		body        string
		wantAllowed bool
		wantReason  string
	}{
		{"within limits", "TEN-001", `{"module":"bookings"}`, true, ""},
		{"at booking ceiling", "TEN-003", `{"module":"bookings"}`, false, "bookings limit reached (26800/25000)"},
		{"other module still open", "TEN-003", `{"module":"storage"}`, true, ""},
		{"suspended", "TEN-006", `{"module":"users"}`, false, billing.ReasonSubscriptionSuspended},
		{"trial within limits", "TEN-005", `{"module":"apiCalls"}`, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &spyRecorder{}
			r := newRouter(seedStore(t), rec)

			w := do(t, r, http.MethodPost, "/tenants/"+tt.tenant+"/actions/check", tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			check, _ := envelope[billing.ActionCheck](t, w)
			assert.Equal(t, tt.wantAllowed, check.Allowed)
			assert.Equal(t, tt.wantReason, check.Reason)
			assert.Equal(t, check.Module.ActionLabel(), check.Action)

			require.Len(t, rec.calls, 1)
			assert.Equal(t, tt.wantAllowed, rec.calls[0].allowed)
		})
	}
}

func TestEnforcementHandler_CheckAction_Errors(t *testing.T) {
	tests := []struct {
		name     string
		tenant   string
		body     string
		wantCode int
		wantErr  types.ErrorCode
	}{
		{"unknown module", "TEN-001", `{"module":"donations"}`, http.StatusBadRequest, types.ErrCodeValidationInvalidModule},
		{"missing module", "TEN-001", `{}`, http.StatusBadRequest, types.ErrCodeValidationMissingField},
		{"unknown tenant", "TEN-404", `{"module":"bookings"}`, http.StatusNotFound, types.ErrCodeNotFoundTenant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &spyRecorder{}
			w := do(t, newRouter(seedStore(t), rec), http.MethodPost, "/tenants/"+tt.tenant+"/actions/check", tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, string(tt.wantErr), errorCode(t, w))
			assert.Empty(t, rec.calls)
		})
	}
}

func TestEnforcementHandler_CheckAction_MalformedBody(t *testing.T) {
	w := do(t, newRouter(seedStore(t), nil), http.MethodPost, "/tenants/TEN-001/actions/check", `{"module":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnforcementHandler_CheckAction_CatalogNotLoaded(t *testing.T) {
	w := do(t, newRouter(emptyProvider{}, nil), http.MethodPost, "/tenants/TEN-001/actions/check", `{"module":"bookings"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestEnforcementHandler_GetPanel(t *testing.T) {
	rec := &spyRecorder{}
	w := do(t, newRouter(seedStore(t), rec), http.MethodGet, "/tenants/TEN-003/enforcement", "")
	require.Equal(t, http.StatusOK, w.Code)

	checks, meta := envelope[[]billing.ActionCheck](t, w)
	require.Len(t, checks, len(types.AllModules))
	assert.Equal(t, len(types.AllModules), meta.Total)

	for i, m := range types.AllModules {
		assert.Equal(t, m, checks[i].Module)
		assert.Equal(t, m.ActionLabel(), checks[i].Action)
	}
	assert.False(t, checks[0].Allowed)
	assert.Equal(t, "bookings limit reached (26800/25000)", checks[0].Reason)
	for _, c := range checks[1:] {
		assert.True(t, c.Allowed, c.Module)
	}
	assert.Len(t, rec.calls, len(types.AllModules))
}
