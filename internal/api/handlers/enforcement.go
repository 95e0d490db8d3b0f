package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"templeadmin/internal/billing"
	"templeadmin/internal/core"
	"templeadmin/internal/types"
)

// CheckActionRequest is the body of POST /v1/tenants/{tenantID}/actions/check.
type CheckActionRequest struct {
	Module string `json:"module" validate:"required,module"`
}

// EnforcementHandler answers allow/deny questions. A denial is a 200 with
// allowed=false; only an unknown tenant or bad input is an error.
type EnforcementHandler struct {
	catalog   CatalogProvider
	recorder  billing.DecisionRecorder
	validator *core.Validator
	logger    *slog.Logger
}

// NewEnforcementHandler creates an EnforcementHandler. rec may be nil.
func NewEnforcementHandler(p CatalogProvider, rec billing.DecisionRecorder, v *core.Validator, l *slog.Logger) *EnforcementHandler {
	if l == nil {
		l = slog.Default()
	}
	return &EnforcementHandler{catalog: p, recorder: rec, validator: v, logger: l}
}

// RegisterRoutes mounts the enforcement endpoints.
func (h *EnforcementHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tenants/{tenantID}/enforcement", h.GetPanel)
	r.Post("/tenants/{tenantID}/actions/check", h.CheckAction)
}

// GetPanel handles GET /v1/tenants/{tenantID}/enforcement: one decision per
// module, labelled with the action it gates.
func (h *EnforcementHandler) GetPanel(w http.ResponseWriter, r *http.Request) {
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

	checks := billing.NewEnforcer(c, h.recorder).CheckAll(tenant.ID)
	core.Data(w, r, checks, &types.ResponseMeta{Total: len(checks)})
}

// CheckAction handles POST /v1/tenants/{tenantID}/actions/check.
func (h *EnforcementHandler) CheckAction(w http.ResponseWriter, r *http.Request) {
	var req CheckActionRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

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

	module, _ := types.ParseModule(req.Module)
	decision := billing.NewEnforcer(c, h.recorder).CanPerformAction(tenant.ID, module)
	if !decision.Allowed {
		h.logger.InfoContext(r.Context(), "action denied",
			"tenant_id", tenant.ID,
			"module", string(module),
			"reason", decision.Reason,
		)
	}

	core.Data(w, r, billing.ActionCheck{Module: module, Action: module.ActionLabel(), Decision: decision}, nil)
}
