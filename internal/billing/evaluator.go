package billing

import (
	"math"

	"templeadmin/internal/types"
)

// Fixed thresholds, in whole percent of the plan ceiling.
const (
	OverLimitThreshold = 100
	NearLimitThreshold = 75
)

// Percentage returns used as a share of limit, rounded half-up to a whole
// percent. A limit of 0 yields 0 whatever was used: the module is disabled
// for the plan and the display never divides by zero. Ratios too large for
// an int saturate at math.MaxInt; NaN yields 0.
func Percentage(used, limit float64) int {
	if limit <= 0 {
		return 0
	}
	p := math.Floor(used/limit*100 + 0.5)
	switch {
	case math.IsNaN(p):
		return 0
	case p >= math.MaxInt:
		return math.MaxInt
	case p <= math.MinInt:
		return math.MinInt
	}
	return int(p)
}

// LevelFor maps a percentage to its usage level.
func LevelFor(pct int) types.UsageLevel {
	switch {
	case pct >= OverLimitThreshold:
		return types.LevelOverLimit
	case pct >= NearLimitThreshold:
		return types.LevelNearLimit
	default:
		return types.LevelNormal
	}
}

// WorstLevel returns the most severe of levels, or normal when empty.
func WorstLevel(levels ...types.UsageLevel) types.UsageLevel {
	worst := types.LevelNormal
	for _, l := range levels {
		if l.Severity() > worst.Severity() {
			worst = l
		}
	}
	return worst
}

// EvaluateModule builds the status entry for one module.
func EvaluateModule(m types.Module, used, limit float64) types.UsageStatus {
	pct := Percentage(used, limit)
	return types.UsageStatus{
		Module:     m,
		Label:      m.Label(),
		Unit:       m.Unit(),
		Used:       used,
		Limit:      limit,
		Percentage: pct,
		Status:     LevelFor(pct),
	}
}

// Evaluator derives usage summaries from a catalog. Its output is
// informational; Enforcer is the authoritative gate.
type Evaluator struct {
	catalog CatalogReader
}

// NewEvaluator returns an Evaluator reading from r.
func NewEvaluator(r CatalogReader) *Evaluator {
	return &Evaluator{catalog: r}
}

// GetTenantUsageSummary evaluates all four modules for the tenant. It reports
// false only when the tenant is unknown; a missing subscription, plan or
// usage record degrades to zero limits or zero usage.
func (e *Evaluator) GetTenantUsageSummary(tenantID string) (types.TenantUsageSummary, bool) {
	tenant, ok := e.catalog.GetTenant(tenantID)
	if !ok {
		return types.TenantUsageSummary{}, false
	}
	return e.summarize(tenant), true
}

// GetAllTenantUsageSummaries returns one summary per known tenant in
// catalog order.
func (e *Evaluator) GetAllTenantUsageSummaries() []types.TenantUsageSummary {
	tenants := e.catalog.Tenants()
	out := make([]types.TenantUsageSummary, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, e.summarize(t))
	}
	return out
}

func (e *Evaluator) summarize(tenant types.Tenant) types.TenantUsageSummary {
	usage, _ := e.catalog.GetTenantUsage(tenant.ID)

	summary := types.TenantUsageSummary{
		TenantID:   tenant.ID,
		TempleName: tenant.TempleName,
		Region:     tenant.Region,
		PlanName:   PlanNotAssigned,
		Modules:    make([]types.UsageStatus, 0, len(types.AllModules)),
	}

	var plan types.SubscriptionPlan
	if sub, ok := e.catalog.GetSubscriptionByTenantID(tenant.ID); ok {
		summary.SubscriptionStatus = sub.SubscriptionStatus
		if p, ok := e.catalog.GetPlanByID(sub.PlanID); ok {
			plan = p
			summary.PlanID = p.ID
			summary.PlanName = p.Name
		}
	}

	levels := make([]types.UsageLevel, 0, len(types.AllModules))
	for _, m := range types.AllModules {
		st := EvaluateModule(m, usage.Used(m), plan.Limit(m))
		summary.Modules = append(summary.Modules, st)
		levels = append(levels, st.Status)
	}
	summary.OverallStatus = WorstLevel(levels...)
	return summary
}
