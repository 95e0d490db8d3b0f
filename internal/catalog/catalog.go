// Package catalog holds the immutable reference data the console evaluates:
// plans, subscriptions, subscription history, usage records and tenants.
//
// A Catalog is built once by New and never mutated. All lookups are total:
// an unknown identifier yields (zero, false) or an empty slice, never an
// error. Values handed out are copies, so callers cannot alter the snapshot.
package catalog

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"

	"templeadmin/internal/types"
)

// Data is the raw record set a Catalog is built from. Sources (seed, YAML,
// PostgreSQL) produce Data; only New turns it into a queryable snapshot.
type Data struct {
	Plans         []types.SubscriptionPlan         `yaml:"plans" validate:"dive"`
	Subscriptions []types.SubscriptionRecord       `yaml:"subscriptions" validate:"dive"`
	History       []types.SubscriptionHistoryEntry `yaml:"history" validate:"dive"`
	Usage         []types.TenantUsage              `yaml:"usage" validate:"dive"`
	Tenants       []types.Tenant                   `yaml:"tenants" validate:"dive"`
}

// Catalog is an immutable, indexed snapshot of Data.
type Catalog struct {
	data Data

	planByID        map[string]int
	subByTenant     map[string]int
	usageByTenant   map[string]int
	tenantByID      map[string]int
	historyByTenant map[string][]int

	source   string
	loadedAt time.Time
}

var validate = newValidator()

// newValidator adds the "finite" tag, which rejects NaN and the infinities
// that gte=0 lets through.
func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}); err != nil {
		panic(err)
	}
	return v
}

// New validates d and indexes it. source names where the records came from
// and is reported by Source. The Catalog keeps its own copy of d.
//
// Rejected: invalid enum values, negative or non-finite counters and
// ceilings, duplicate identifiers, more than one subscription for a tenant,
// and usage periods that end before they start. Dangling plan references are accepted; the
// evaluator degrades them to zero ceilings.
func New(source string, d Data) (*Catalog, error) {
	if err := validate.Struct(d); err != nil {
		return nil, types.NewAppError(types.ErrCodeValidationCatalog,
			fmt.Sprintf("catalog %q failed validation", source), err)
	}

	c := &Catalog{
		data:            cloneData(d),
		planByID:        make(map[string]int, len(d.Plans)),
		subByTenant:     make(map[string]int, len(d.Subscriptions)),
		usageByTenant:   make(map[string]int, len(d.Usage)),
		tenantByID:      make(map[string]int, len(d.Tenants)),
		historyByTenant: make(map[string][]int),
		source:          source,
		loadedAt:        time.Now().UTC(),
	}

	var problems []string

	for i, p := range c.data.Plans {
		if _, dup := c.planByID[p.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate plan id %s", p.ID))
			continue
		}
		c.planByID[p.ID] = i
	}

	for i, t := range c.data.Tenants {
		if _, dup := c.tenantByID[t.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate tenant id %s", t.ID))
			continue
		}
		c.tenantByID[t.ID] = i
	}

	subIDs := make(map[string]struct{}, len(c.data.Subscriptions))
	for i, s := range c.data.Subscriptions {
		if _, dup := subIDs[s.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate subscription id %s", s.ID))
			continue
		}
		subIDs[s.ID] = struct{}{}
		if prev, dup := c.subByTenant[s.TenantID]; dup {
			problems = append(problems, fmt.Sprintf("tenant %s has subscriptions %s and %s",
				s.TenantID, c.data.Subscriptions[prev].ID, s.ID))
			continue
		}
		c.subByTenant[s.TenantID] = i
	}

	for i, u := range c.data.Usage {
		if !u.PeriodStart.IsZero() && !u.PeriodEnd.IsZero() && u.PeriodEnd.Before(u.PeriodStart) {
			problems = append(problems, fmt.Sprintf("usage for %s ends before it starts", u.TenantID))
			continue
		}
		// The most recent period wins; ties keep the earlier record.
		if prev, ok := c.usageByTenant[u.TenantID]; ok &&
			!c.data.Usage[prev].PeriodStart.Before(u.PeriodStart) {
			continue
		}
		c.usageByTenant[u.TenantID] = i
	}

	historyIDs := make(map[string]struct{}, len(c.data.History))
	for i, h := range c.data.History {
		if _, dup := historyIDs[h.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate history id %s", h.ID))
			continue
		}
		historyIDs[h.ID] = struct{}{}
		c.historyByTenant[h.TenantID] = append(c.historyByTenant[h.TenantID], i)
	}

	if len(problems) > 0 {
		return nil, types.NewAppErrorWithDetails(types.ErrCodeValidationCatalog,
			fmt.Sprintf("catalog %q is inconsistent", source), nil,
			map[string]any{"problems": problems})
	}
	return c, nil
}

// Source names the origin of the snapshot (seed, yaml, postgres).
func (c *Catalog) Source() string { return c.source }

// LoadedAt is when the snapshot was built.
func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }

// GetPlanByID returns the plan with the given id.
func (c *Catalog) GetPlanByID(id string) (types.SubscriptionPlan, bool) {
	i, ok := c.planByID[id]
	if !ok {
		return types.SubscriptionPlan{}, false
	}
	return clonePlan(c.data.Plans[i]), true
}

// GetSubscriptionByTenantID returns the tenant's subscription record.
func (c *Catalog) GetSubscriptionByTenantID(tenantID string) (types.SubscriptionRecord, bool) {
	i, ok := c.subByTenant[tenantID]
	if !ok {
		return types.SubscriptionRecord{}, false
	}
	return cloneSubscription(c.data.Subscriptions[i]), true
}

// GetTenantUsage returns the tenant's current usage record.
func (c *Catalog) GetTenantUsage(tenantID string) (types.TenantUsage, bool) {
	i, ok := c.usageByTenant[tenantID]
	if !ok {
		return types.TenantUsage{}, false
	}
	return c.data.Usage[i], true
}

// GetSubscriptionHistoryByTenantID returns the tenant's history entries in
// catalog order. The result is never nil.
func (c *Catalog) GetSubscriptionHistoryByTenantID(tenantID string) []types.SubscriptionHistoryEntry {
	idx := c.historyByTenant[tenantID]
	out := make([]types.SubscriptionHistoryEntry, 0, len(idx))
	for _, i := range idx {
		out = append(out, cloneHistory(c.data.History[i]))
	}
	return out
}

// GetTenant returns the tenant with the given id.
func (c *Catalog) GetTenant(id string) (types.Tenant, bool) {
	i, ok := c.tenantByID[id]
	if !ok {
		return types.Tenant{}, false
	}
	return c.data.Tenants[i], true
}

// Tenants returns every tenant in catalog order.
func (c *Catalog) Tenants() []types.Tenant {
	return slices.Clone(c.data.Tenants)
}

// Plans returns every plan in catalog order.
func (c *Catalog) Plans() []types.SubscriptionPlan {
	out := make([]types.SubscriptionPlan, 0, len(c.data.Plans))
	for _, p := range c.data.Plans {
		out = append(out, clonePlan(p))
	}
	return out
}

// ActivePlans returns the plans a tenant can currently be moved onto.
func (c *Catalog) ActivePlans() []types.SubscriptionPlan {
	var out []types.SubscriptionPlan
	for _, p := range c.data.Plans {
		if p.Status == types.PlanStatusActive {
			out = append(out, clonePlan(p))
		}
	}
	return out
}

// Subscriptions returns every subscription record in catalog order.
func (c *Catalog) Subscriptions() []types.SubscriptionRecord {
	out := make([]types.SubscriptionRecord, 0, len(c.data.Subscriptions))
	for _, s := range c.data.Subscriptions {
		out = append(out, cloneSubscription(s))
	}
	return out
}

// Data returns a deep copy of the records behind the snapshot.
func (c *Catalog) Data() Data {
	return cloneData(c.data)
}

func cloneData(d Data) Data {
	out := Data{
		Plans:         make([]types.SubscriptionPlan, 0, len(d.Plans)),
		Subscriptions: make([]types.SubscriptionRecord, 0, len(d.Subscriptions)),
		History:       make([]types.SubscriptionHistoryEntry, 0, len(d.History)),
		Usage:         slices.Clone(d.Usage),
		Tenants:       slices.Clone(d.Tenants),
	}
	for _, p := range d.Plans {
		out.Plans = append(out.Plans, clonePlan(p))
	}
	for _, s := range d.Subscriptions {
		out.Subscriptions = append(out.Subscriptions, cloneSubscription(s))
	}
	for _, h := range d.History {
		out.History = append(out.History, cloneHistory(h))
	}
	return out
}

func clonePlan(p types.SubscriptionPlan) types.SubscriptionPlan {
	p.Features = slices.Clone(p.Features)
	return p
}

func cloneSubscription(s types.SubscriptionRecord) types.SubscriptionRecord {
	s.LastPaymentDate = clonePtr(s.LastPaymentDate)
	s.LastPaymentAmount = clonePtr(s.LastPaymentAmount)
	return s
}

func cloneHistory(h types.SubscriptionHistoryEntry) types.SubscriptionHistoryEntry {
	h.FromPlan = clonePtr(h.FromPlan)
	h.ToPlan = clonePtr(h.ToPlan)
	h.FromCycle = clonePtr(h.FromCycle)
	h.ToCycle = clonePtr(h.ToCycle)
	return h
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
