package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"templeadmin/internal/billing"
	"templeadmin/internal/core"
	"templeadmin/internal/types"
)

// TenantOverview is a tenant row in the directory listing. CurrentPlan is
// derived through the subscription, "Not Assigned" when it cannot be.
type TenantOverview struct {
	types.Tenant
	CurrentPlan string `json:"currentPlan"`
}

// TenantDetail is the single-tenant view.
type TenantDetail struct {
	types.Tenant
	CurrentPlan  string                    `json:"currentPlan"`
	Subscription *types.SubscriptionRecord `json:"subscription"`
	Plan         *types.SubscriptionPlan   `json:"plan"`
}

// SubscriptionView is a subscription with its plan and the whole days left
// until expiry, negative once expired.
type SubscriptionView struct {
	Subscription  types.SubscriptionRecord `json:"subscription"`
	Plan          *types.SubscriptionPlan  `json:"plan"`
	DaysRemaining int                      `json:"daysRemaining"`
}

// TenantHandler serves tenant and subscription lookups.
type TenantHandler struct {
	catalog CatalogProvider
	now     Clock
	logger  *slog.Logger
}

// NewTenantHandler creates a TenantHandler. A nil clock uses the system time.
func NewTenantHandler(p CatalogProvider, now Clock, l *slog.Logger) *TenantHandler {
	if l == nil {
		l = slog.Default()
	}
	if now == nil {
		now = systemClock
	}
	return &TenantHandler{catalog: p, now: now, logger: l}
}

// RegisterRoutes mounts the tenant endpoints.
func (h *TenantHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tenants", h.List)
	r.Get("/tenants/{tenantID}", h.Get)
	r.Get("/tenants/{tenantID}/subscription", h.GetSubscription)
	r.Get("/tenants/{tenantID}/subscription/history", h.GetHistory)
}

// List handles GET /v1/tenants.
func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	c, err := currentCatalog(h.catalog)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	tenants := c.Tenants()
	out := make([]TenantOverview, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, TenantOverview{Tenant: t, CurrentPlan: billing.CurrentPlanName(c, t.ID)})
	}
	core.Data(w, r, out, listMeta(c, len(out)))
}

// Get handles GET /v1/tenants/{tenantID}.
func (h *TenantHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := currentCatalog(h.catalog)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	tenant, err := pathTenant(c, r, "tenantID")
	if err != nil {
		core.Error(w, r, err)
		return
	}

	detail := TenantDetail{Tenant: tenant, CurrentPlan: billing.CurrentPlanName(c, tenant.ID)}
	if sub, ok := c.GetSubscriptionByTenantID(tenant.ID); ok {
		detail.Subscription = &sub
		if plan, ok := c.GetPlanByID(sub.PlanID); ok {
			detail.Plan = &plan
		}
	}
	core.Data(w, r, detail, nil)
}

// GetSubscription handles GET /v1/tenants/{tenantID}/subscription.
func (h *TenantHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	c, err := currentCatalog(h.catalog)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	tenant, err := pathTenant(c, r, "tenantID")
	if err != nil {
		core.Error(w, r, err)
		return
	}

	sub, ok := c.GetSubscriptionByTenantID(tenant.ID)
	if !ok {
		core.Error(w, r, types.NewAppErrorWithDetails(types.ErrCodeNotFoundSubscription,
			"tenant has no subscription", nil, map[string]any{"tenant_id": tenant.ID}))
		return
	}

	view := SubscriptionView{Subscription: sub, DaysRemaining: sub.ExpiryDate.DaysUntil(h.now())}
	if plan, ok := c.GetPlanByID(sub.PlanID); ok {
		view.Plan = &plan
	} else {
		h.logger.WarnContext(r.Context(), "subscription references unknown plan",
			"tenant_id", tenant.ID, "plan_id", sub.PlanID)
	}
	core.Data(w, r, view, nil)
}

// GetHistory handles GET /v1/tenants/{tenantID}/subscription/history.
func (h *TenantHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	c, err := currentCatalog(h.catalog)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	tenant, err := pathTenant(c, r, "tenantID")
	if err != nil {
		core.Error(w, r, err)
		return
	}

	history := c.GetSubscriptionHistoryByTenantID(tenant.ID)
	core.Data(w, r, history, listMeta(c, len(history)))
}
