// Package billing evaluates tenant usage against plan ceilings and decides
// whether a resource-consuming action may proceed.
package billing

import "templeadmin/internal/types"

// PlanNotAssigned is shown in place of a plan name when the tenant has no
// subscription or its plan cannot be resolved.
const PlanNotAssigned = "Not Assigned"

// CatalogReader is the read-only lookup surface the evaluator and enforcer
// need. *catalog.Catalog satisfies it.
type CatalogReader interface {
	GetPlanByID(id string) (types.SubscriptionPlan, bool)
	GetSubscriptionByTenantID(tenantID string) (types.SubscriptionRecord, bool)
	GetTenantUsage(tenantID string) (types.TenantUsage, bool)
	GetTenant(id string) (types.Tenant, bool)
	Tenants() []types.Tenant
}

// CurrentPlan follows tenant -> subscription -> plan. It reports false when
// either link is missing.
func CurrentPlan(r CatalogReader, tenantID string) (types.SubscriptionPlan, bool) {
	sub, ok := r.GetSubscriptionByTenantID(tenantID)
	if !ok {
		return types.SubscriptionPlan{}, false
	}
	return r.GetPlanByID(sub.PlanID)
}

// CurrentPlanName returns the tenant's plan name or PlanNotAssigned.
func CurrentPlanName(r CatalogReader, tenantID string) string {
	if p, ok := CurrentPlan(r, tenantID); ok {
		return p.Name
	}
	return PlanNotAssigned
}
