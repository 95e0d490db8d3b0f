package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"templeadmin/internal/core"
	"templeadmin/internal/types"
)

// PlanHandler serves the plan catalog.
type PlanHandler struct {
	catalog CatalogProvider
	logger  *slog.Logger
}

// NewPlanHandler creates a PlanHandler.
func NewPlanHandler(p CatalogProvider, l *slog.Logger) *PlanHandler {
	if l == nil {
		l = slog.Default()
	}
	return &PlanHandler{catalog: p, logger: l}
}

// RegisterRoutes mounts the plan endpoints.
func (h *PlanHandler) RegisterRoutes(r chi.Router) {
	r.Get("/plans", h.List)
	r.Get("/plans/{planID}", h.Get)
}

// List handles GET /v1/plans. The optional status query narrows the list to
// Active or Archived plans.
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	c, err := currentCatalog(h.catalog)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	status := types.PlanStatus(r.URL.Query().Get("status"))
	switch status {
	case "":
	case types.PlanStatusActive, types.PlanStatusArchived:
	default:
		core.Error(w, r, types.NewAppErrorWithDetails(types.ErrCodeValidationInvalidStatus,
			"status must be Active or Archived", nil, map[string]any{"status": string(status)}))
		return
	}

	var plans []types.SubscriptionPlan
	switch status {
	case types.PlanStatusActive:
		plans = c.ActivePlans()
	case types.PlanStatusArchived:
		for _, p := range c.Plans() {
			if p.Status == types.PlanStatusArchived {
				plans = append(plans, p)
			}
		}
	default:
		plans = c.Plans()
	}
	if plans == nil {
		plans = []types.SubscriptionPlan{}
	}

	core.Data(w, r, plans, listMeta(c, len(plans)))
}

// Get handles GET /v1/plans/{planID}.
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := currentCatalog(h.catalog)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	id := urlParam(r, "planID")
	plan, ok := c.GetPlanByID(id)
	if !ok {
		core.Error(w, r, types.NewAppErrorWithDetails(types.ErrCodeNotFoundPlan, "plan not found", nil,
			map[string]any{"plan_id": id}))
		return
	}
	core.Data(w, r, plan, nil)
}

func urlParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
