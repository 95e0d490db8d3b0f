package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"templeadmin/internal/billing"
	"templeadmin/internal/catalog"
	"templeadmin/internal/core"
	"templeadmin/internal/types"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// UsageHandler serves derived usage summaries and the usage report.
type UsageHandler struct {
	catalog   CatalogProvider
	validator *core.Validator
	now       Clock
	logger    *slog.Logger
}

// NewUsageHandler creates a UsageHandler. A nil clock uses the system time.
func NewUsageHandler(p CatalogProvider, v *core.Validator, now Clock, l *slog.Logger) *UsageHandler {
	if l == nil {
		l = slog.Default()
	}
	if now == nil {
		now = systemClock
	}
	return &UsageHandler{catalog: p, validator: v, now: now, logger: l}
}

// RegisterRoutes mounts the usage endpoints.
func (h *UsageHandler) RegisterRoutes(r chi.Router) {
	r.Get("/usage", h.List)
	r.Get("/usage/report", h.Report)
	r.Get("/tenants/{tenantID}/usage", h.GetSummary)
	r.Get("/tenants/{tenantID}/usage/record", h.GetRecord)
}

// GetSummary handles GET /v1/tenants/{tenantID}/usage.
func (h *UsageHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	c, err := currentCatalog(h.catalog)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	id := urlParam(r, "tenantID")
	summary, ok := billing.NewEvaluator(c).GetTenantUsageSummary(id)
	if !ok {
		core.Error(w, r, tenantNotFound(id))
		return
	}
	core.Data(w, r, summary, nil)
}

// GetRecord handles GET /v1/tenants/{tenantID}/usage/record, the raw counters.
func (h *UsageHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
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

	usage, ok := c.GetTenantUsage(tenant.ID)
	if !ok {
		core.Error(w, r, types.NewAppErrorWithDetails(types.ErrCodeNotFoundUsage,
			"no usage recorded for tenant", nil, map[string]any{"tenant_id": tenant.ID}))
		return
	}
	core.Data(w, r, usage, nil)
}

// List handles GET /v1/usage?region=&plan=&status=&q=. The status counts in
// meta cover every tenant so the summary cards do not move with the filter.
func (h *UsageHandler) List(w http.ResponseWriter, r *http.Request) {
	c, filter, ok := h.prepare(w, r)
	if !ok {
		return
	}

	all := billing.NewEvaluator(c).GetAllTenantUsageSummaries()
	filtered := billing.FilterSummaries(all, filter)

	meta := listMeta(c, len(filtered))
	meta.StatusCounts = billing.CountByStatus(all)
	core.Data(w, r, filtered, meta)
}

// Report handles GET /v1/usage/report: the filtered summaries as XLSX.
func (h *UsageHandler) Report(w http.ResponseWriter, r *http.Request) {
	c, filter, ok := h.prepare(w, r)
	if !ok {
		return
	}

	summaries := billing.FilterSummaries(billing.NewEvaluator(c).GetAllTenantUsageSummaries(), filter)

	var buf bytes.Buffer
	if err := billing.WriteUsageReport(&buf, summaries); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render usage report", "error", err)
		core.Error(w, r, types.NewAppError(types.ErrCodeInternalReport, "failed to render usage report", err))
		return
	}

	filename := fmt.Sprintf("usage-report-%s.xlsx", types.DateOf(h.now()))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *UsageHandler) prepare(w http.ResponseWriter, r *http.Request) (c *catalog.Catalog, f billing.SummaryFilter, ok bool) {
	c, err := currentCatalog(h.catalog)
	if err != nil {
		core.Error(w, r, err)
		return nil, f, false
	}

	q := r.URL.Query()
	f = billing.SummaryFilter{
		Region: q.Get("region"),
		Plan:   q.Get("plan"),
		Status: q.Get("status"),
		Search: q.Get("q"),
	}
	if err := h.validator.ValidateStruct(f); err != nil {
		core.Error(w, r, err)
		return nil, f, false
	}
	return c, f, true
}
