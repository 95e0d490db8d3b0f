package catalog

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"templeadmin/internal/types"
)

func seedCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New(SourceSeed, SeedData())
	require.NoError(t, err)
	return c
}

func TestSeedCatalogBuilds(t *testing.T) {
	c := seedCatalog(t)

	assert.Equal(t, SourceSeed, c.Source())
	assert.False(t, c.LoadedAt().IsZero())
	assert.Len(t, c.Plans(), 6)
	assert.Len(t, c.Tenants(), 6)
	assert.Len(t, c.Subscriptions(), 6)
}

func TestGetPlanByID(t *testing.T) {
	c := seedCatalog(t)

	p, ok := c.GetPlanByID("PLAN-003")
	require.True(t, ok)
	assert.Equal(t, "Premium", p.Name)
	assert.Equal(t, 10000.0, p.MaxBookings)

	_, ok = c.GetPlanByID("PLAN-999")
	assert.False(t, ok)

	_, ok = c.GetPlanByID("")
	assert.False(t, ok)
}

func TestGetSubscriptionByTenantID(t *testing.T) {
	c := seedCatalog(t)

	s, ok := c.GetSubscriptionByTenantID("TEN-006")
	require.True(t, ok)
	assert.Equal(t, types.SubStatusSuspended, s.SubscriptionStatus)
	assert.Equal(t, "PLAN-002", s.PlanID)

	trial, ok := c.GetSubscriptionByTenantID("TEN-005")
	require.True(t, ok)
	assert.Nil(t, trial.LastPaymentDate)
	assert.Nil(t, trial.LastPaymentAmount)

	_, ok = c.GetSubscriptionByTenantID("TEN-404")
	assert.False(t, ok)
}

func TestGetTenantUsage(t *testing.T) {
	c := seedCatalog(t)

	u, ok := c.GetTenantUsage("TEN-001")
	require.True(t, ok)
	assert.Equal(t, 8432.0, u.Bookings)
	assert.Equal(t, 4.2, u.Storage)

	_, ok = c.GetTenantUsage("TEN-404")
	assert.False(t, ok)
}

func TestGetSubscriptionHistoryPreservesCatalogOrder(t *testing.T) {
	c := seedCatalog(t)

	h := c.GetSubscriptionHistoryByTenantID("TEN-001")
	require.Len(t, h, 2)
	assert.Equal(t, "SH-001", h[0].ID)
	assert.Equal(t, "SH-005", h[1].ID)

	none := c.GetSubscriptionHistoryByTenantID("TEN-003")
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestActivePlansExcludesArchived(t *testing.T) {
	c := seedCatalog(t)

	active := c.ActivePlans()
	require.Len(t, active, 5)
	for _, p := range active {
		assert.Equal(t, types.PlanStatusActive, p.Status, p.ID)
		assert.NotEqual(t, "PLAN-006", p.ID)
	}
}

func TestLookupsReturnCopies(t *testing.T) {
	c := seedCatalog(t)

	p, _ := c.GetPlanByID("PLAN-002")
	p.Features[0] = "tampered"
	p.MaxBookings = 1

	again, _ := c.GetPlanByID("PLAN-002")
	assert.Equal(t, "Directory Listing", again.Features[0])
	assert.Equal(t, 5000.0, again.MaxBookings)

	s, _ := c.GetSubscriptionByTenantID("TEN-001")
	*s.LastPaymentAmount = 1
	s2, _ := c.GetSubscriptionByTenantID("TEN-001")
	assert.Equal(t, 15000.0, *s2.LastPaymentAmount)

	tenants := c.Tenants()
	tenants[0].TempleName = "tampered"
	first, _ := c.GetTenant("TEN-001")
	assert.Equal(t, "Sri Lakshmi Narasimha Temple", first.TempleName)
}

func TestNewCopiesInput(t *testing.T) {
	d := SeedData()
	c, err := New("test", d)
	require.NoError(t, err)

	d.Plans[0].Name = "mutated"
	p, _ := c.GetPlanByID("PLAN-001")
	assert.Equal(t, "Free", p.Name)
}

func TestNewRejectsSecondSubscriptionForTenant(t *testing.T) {
	d := SeedData()
	dup := d.Subscriptions[0]
	dup.ID = "SUB-900"
	d.Subscriptions = append(d.Subscriptions, dup)

	_, err := New("test", d)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeValidationCatalog, appErr.Code)
	problems, _ := appErr.Details["problems"].([]string)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "TEN-001")
}

func TestNewRejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Data)
	}{
		{"negative ceiling", func(d *Data) { d.Plans[0].MaxUsers = -1 }},
		{"unknown plan status", func(d *Data) { d.Plans[0].Status = "Retired" }},
		{"unknown subscription status", func(d *Data) { d.Subscriptions[0].SubscriptionStatus = "paused" }},
		{"unknown billing cycle", func(d *Data) { d.Subscriptions[0].BillingCycle = "weekly" }},
		{"negative usage", func(d *Data) { d.Usage[0].Bookings = -5 }},
		{"infinite usage", func(d *Data) { d.Usage[0].Bookings = math.Inf(1) }},
		{"nan usage", func(d *Data) { d.Usage[0].Storage = math.NaN() }},
		{"infinite ceiling", func(d *Data) { d.Plans[0].MaxBookings = math.Inf(1) }},
		{"infinite payment", func(d *Data) {
			amount := math.Inf(1)
			d.Subscriptions[0].LastPaymentAmount = &amount
		}},
		{"health score out of range", func(d *Data) { d.Tenants[0].HealthScore = 101 }},
		{"missing tenant id", func(d *Data) { d.Tenants[0].ID = "" }},
		{"duplicate plan id", func(d *Data) { d.Plans[1].ID = d.Plans[0].ID }},
		{"duplicate tenant id", func(d *Data) { d.Tenants[1].ID = d.Tenants[0].ID }},
		{"period ends before start", func(d *Data) {
			d.Usage[0].PeriodEnd = types.MustParseDate("2026-01-01")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := SeedData()
			tt.mutate(&d)
			_, err := New("test", d)
			require.Error(t, err)

			var appErr *types.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, types.ErrCodeValidationCatalog, appErr.Code)
		})
	}
}

func TestNewAcceptsDanglingPlanReference(t *testing.T) {
	d := SeedData()
	d.Subscriptions[0].PlanID = "PLAN-GONE"

	c, err := New("test", d)
	require.NoError(t, err)

	s, ok := c.GetSubscriptionByTenantID("TEN-001")
	require.True(t, ok)
	_, ok = c.GetPlanByID(s.PlanID)
	assert.False(t, ok)
}

func TestUsageLookupPrefersLatestPeriod(t *testing.T) {
	d := SeedData()
	d.Usage = append(d.Usage, types.TenantUsage{
		TenantID:    "TEN-001",
		Bookings:    9100,
		PeriodStart: types.MustParseDate("2026-03-01"),
		PeriodEnd:   types.MustParseDate("2026-03-31"),
	}, types.TenantUsage{
		TenantID:    "TEN-001",
		Bookings:    7000,
		PeriodStart: types.MustParseDate("2026-01-01"),
		PeriodEnd:   types.MustParseDate("2026-01-31"),
	})

	c, err := New("test", d)
	require.NoError(t, err)

	u, ok := c.GetTenantUsage("TEN-001")
	require.True(t, ok)
	assert.Equal(t, 9100.0, u.Bookings)
}

func TestEmptyCatalog(t *testing.T) {
	c, err := New("empty", Data{})
	require.NoError(t, err)

	assert.Empty(t, c.Tenants())
	assert.Empty(t, c.Plans())
	assert.Empty(t, c.ActivePlans())
	_, ok := c.GetTenant("TEN-001")
	assert.False(t, ok)
}
