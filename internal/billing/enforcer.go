package billing

import (
	"fmt"
	"strconv"

	"templeadmin/internal/types"
)

// Denial reasons for subscription state. Limit denials are formatted by
// limitReason.
const (
	ReasonNoSubscription        = "No active subscription"
	ReasonSubscriptionExpired   = "Subscription expired"
	ReasonSubscriptionSuspended = "Subscription suspended"
	ReasonSubscriptionCancelled = "Subscription cancelled"
)

// DecisionRecorder observes every decision the Enforcer makes.
type DecisionRecorder interface {
	RecordDecision(module types.Module, allowed bool)
}

type noopRecorder struct{}

func (noopRecorder) RecordDecision(types.Module, bool) {}

// ActionCheck is the decision for one module's gated action.
type ActionCheck struct {
	Module types.Module `json:"module"`
	Action string       `json:"action"`
	types.Decision
}

// Enforcer answers whether a tenant may consume one more unit of a module.
// It compares raw counters and never consults the rounded percentage.
type Enforcer struct {
	catalog  CatalogReader
	recorder DecisionRecorder
}

// NewEnforcer returns an Enforcer reading from r. rec may be nil.
func NewEnforcer(r CatalogReader, rec DecisionRecorder) *Enforcer {
	if rec == nil {
		rec = noopRecorder{}
	}
	return &Enforcer{catalog: r, recorder: rec}
}

// CanPerformAction applies the rules in order; the first match wins:
//
//  1. no subscription record: deny
//  2. subscription expired, suspended or cancelled: deny
//  3. plan or usage record missing: allow
//  4. used >= limit: deny with the counters in the reason
//
// Trial and active subscriptions fall through to the limit check.
func (e *Enforcer) CanPerformAction(tenantID string, module types.Module) types.Decision {
	d := e.decide(tenantID, module)
	e.recorder.RecordDecision(module, d.Allowed)
	return d
}

// CheckAll evaluates every module's action for the tenant.
func (e *Enforcer) CheckAll(tenantID string) []ActionCheck {
	out := make([]ActionCheck, 0, len(types.AllModules))
	for _, m := range types.AllModules {
		out = append(out, ActionCheck{
			Module:   m,
			Action:   m.ActionLabel(),
			Decision: e.CanPerformAction(tenantID, m),
		})
	}
	return out
}

func (e *Enforcer) decide(tenantID string, module types.Module) types.Decision {
	sub, ok := e.catalog.GetSubscriptionByTenantID(tenantID)
	if !ok {
		return deny(ReasonNoSubscription)
	}

	switch sub.SubscriptionStatus {
	case types.SubStatusExpired:
		return deny(ReasonSubscriptionExpired)
	case types.SubStatusSuspended:
		return deny(ReasonSubscriptionSuspended)
	case types.SubStatusCancelled:
		return deny(ReasonSubscriptionCancelled)
	}

	plan, planOK := e.catalog.GetPlanByID(sub.PlanID)
	usage, usageOK := e.catalog.GetTenantUsage(tenantID)
	if !planOK || !usageOK {
		return types.Decision{Allowed: true}
	}

	used, limit := usage.Used(module), plan.Limit(module)
	if used >= limit {
		return deny(limitReason(module, used, limit))
	}
	return types.Decision{Allowed: true}
}

func deny(reason string) types.Decision {
	return types.Decision{Allowed: false, Reason: reason}
}

func limitReason(m types.Module, used, limit float64) string {
	return fmt.Sprintf("%s limit reached (%s/%s)", m, formatCount(used), formatCount(limit))
}

// formatCount prints the shortest decimal form: 2, 0.5, 4.2.
func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
