package catalog

import (
	"context"

	"templeadmin/internal/types"
)

// SourceSeed names the built-in reference data.
const SourceSeed = "seed"

// SeedSource serves the built-in reference catalog. It never fails.
type SeedSource struct{}

func (SeedSource) Name() string { return SourceSeed }

func (SeedSource) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return New(SourceSeed, SeedData())
}

// SeedData returns a fresh copy of the built-in records.
func SeedData() Data {
	return Data{
		Plans:         seedPlans(),
		Subscriptions: seedSubscriptions(),
		History:       seedHistory(),
		Usage:         seedUsage(),
		Tenants:       seedTenants(),
	}
}

func ptr[T any](v T) *T { return &v }

func date(s string) types.Date { return types.MustParseDate(s) }

func seedPlans() []types.SubscriptionPlan {
	return []types.SubscriptionPlan{
		{
			ID: "PLAN-001", Name: "Free",
			MonthlyPrice: 0, YearlyPrice: 0,
			MaxUsers: 2, MaxBookings: 100, MaxStorage: 0.5, APILimit: 1000,
			Features:    []string{"Directory Listing", "Basic Profile"},
			Status:      types.PlanStatusActive,
			Version:     "v1.0",
			TenantCount: 2847,
		},
		{
			ID: "PLAN-002", Name: "Standard",
			MonthlyPrice: 8000, YearlyPrice: 80000,
			MaxUsers: 5, MaxBookings: 5000, MaxStorage: 2, APILimit: 25000,
			Features:    []string{"Directory Listing", "Booking System", "Reports", "Email Support"},
			Status:      types.PlanStatusActive,
			Version:     "v2.1",
			TenantCount: 3256,
		},
		{
			ID: "PLAN-003", Name: "Premium",
			MonthlyPrice: 15000, YearlyPrice: 150000,
			MaxUsers: 15, MaxBookings: 10000, MaxStorage: 5, APILimit: 50000,
			Features: []string{"Directory Listing", "Booking System", "Reports",
				"Live Streaming", "Multi-Branch", "Priority Support"},
			Status:      types.PlanStatusActive,
			Version:     "v2.0",
			TenantCount: 1834,
		},
		{
			ID: "PLAN-004", Name: "Enterprise",
			MonthlyPrice: 45000, YearlyPrice: 450000,
			MaxUsers: 50, MaxBookings: 50000, MaxStorage: 20, APILimit: 200000,
			Features:    []string{"All Features", "Dedicated Support", "Custom Integrations", "SLA Guarantee"},
			Status:      types.PlanStatusActive,
			Version:     "v1.5",
			TenantCount: 423,
		},
		{
			ID: "PLAN-005", Name: "Government",
			MonthlyPrice: 25000, YearlyPrice: 250000,
			MaxUsers: 30, MaxBookings: 25000, MaxStorage: 15, APILimit: 100000,
			Features:    []string{"All Features", "Compliance Reports", "Audit Logs", "Government Portal Integration"},
			Status:      types.PlanStatusActive,
			Version:     "v1.0",
			TenantCount: 72,
		},
		{
			ID: "PLAN-006", Name: "Starter (Legacy)",
			MonthlyPrice: 5000, YearlyPrice: 50000,
			MaxUsers: 3, MaxBookings: 2000, MaxStorage: 1, APILimit: 10000,
			Features:    []string{"Directory Listing", "Basic Booking"},
			Status:      types.PlanStatusArchived,
			Version:     "v1.0",
			TenantCount: 156,
		},
	}
}

func seedSubscriptions() []types.SubscriptionRecord {
	return []types.SubscriptionRecord{
		{
			ID: "SUB-001", TenantID: "TEN-001", PlanID: "PLAN-003",
			BillingCycle: types.CycleMonthly,
			StartDate:    date("2024-01-15"), ExpiryDate: date("2026-03-15"),
			SubscriptionStatus: types.SubStatusActive, AutoRenew: true,
			LastPaymentDate: ptr(date("2026-02-01")), LastPaymentAmount: ptr(15000.0),
			CreatedAt: date("2024-01-15"), UpdatedAt: date("2026-02-01"),
		},
		{
			ID: "SUB-002", TenantID: "TEN-002", PlanID: "PLAN-004",
			BillingCycle: types.CycleYearly,
			StartDate:    date("2023-06-20"), ExpiryDate: date("2026-06-20"),
			SubscriptionStatus: types.SubStatusActive, AutoRenew: true,
			LastPaymentDate: ptr(date("2025-06-20")), LastPaymentAmount: ptr(450000.0),
			CreatedAt: date("2023-06-20"), UpdatedAt: date("2025-06-20"),
		},
		{
			ID: "SUB-003", TenantID: "TEN-003", PlanID: "PLAN-005",
			BillingCycle: types.CycleYearly,
			StartDate:    date("2023-03-10"), ExpiryDate: date("2026-03-10"),
			SubscriptionStatus: types.SubStatusActive, AutoRenew: true,
			LastPaymentDate: ptr(date("2025-03-10")), LastPaymentAmount: ptr(250000.0),
			CreatedAt: date("2023-03-10"), UpdatedAt: date("2025-03-10"),
		},
		{
			ID: "SUB-004", TenantID: "TEN-004", PlanID: "PLAN-004",
			BillingCycle: types.CycleMonthly,
			StartDate:    date("2023-08-15"), ExpiryDate: date("2026-03-15"),
			SubscriptionStatus: types.SubStatusActive, AutoRenew: false,
			LastPaymentDate: ptr(date("2026-02-10")), LastPaymentAmount: ptr(45000.0),
			CreatedAt: date("2023-08-15"), UpdatedAt: date("2026-02-10"),
		},
		{
			ID: "SUB-005", TenantID: "TEN-005", PlanID: "PLAN-001",
			BillingCycle: types.CycleTrial,
			StartDate:    date("2026-02-01"), ExpiryDate: date("2026-02-15"),
			SubscriptionStatus: types.SubStatusTrial, AutoRenew: false,
			CreatedAt: date("2026-02-01"), UpdatedAt: date("2026-02-01"),
		},
		{
			ID: "SUB-006", TenantID: "TEN-006", PlanID: "PLAN-002",
			BillingCycle: types.CycleMonthly,
			StartDate:    date("2023-11-20"), ExpiryDate: date("2025-12-20"),
			SubscriptionStatus: types.SubStatusSuspended, AutoRenew: false,
			LastPaymentDate: ptr(date("2025-10-20")), LastPaymentAmount: ptr(8000.0),
			CreatedAt: date("2023-11-20"), UpdatedAt: date("2025-12-21"),
		},
	}
}

func seedHistory() []types.SubscriptionHistoryEntry {
	return []types.SubscriptionHistoryEntry{
		{
			ID: "SH-001", TenantID: "TEN-001", Action: "Plan Upgrade",
			FromPlan: ptr("Standard"), ToPlan: ptr("Premium"),
			FromCycle: ptr("monthly"), ToCycle: ptr("monthly"),
			PerformedBy: "Admin", Reason: "Customer requested upgrade for Live Streaming",
			Date: date("2024-06-01"),
		},
		{
			ID: "SH-002", TenantID: "TEN-002", Action: "Subscription Created",
			ToPlan: ptr("Enterprise"), ToCycle: ptr("yearly"),
			PerformedBy: "System", Reason: "Initial activation",
			Date: date("2023-06-20"),
		},
		{
			ID: "SH-003", TenantID: "TEN-006", Action: "Subscription Suspended",
			PerformedBy: "System", Reason: "Payment failed - auto suspended",
			Date: date("2025-12-21"),
		},
		{
			ID: "SH-004", TenantID: "TEN-005", Action: "Trial Started",
			ToPlan: ptr("Free"), ToCycle: ptr("trial"),
			PerformedBy: "System", Reason: "Auto-trial on registration approval",
			Date: date("2026-02-01"),
		},
		{
			ID: "SH-005", TenantID: "TEN-001", Action: "Subscription Created",
			ToPlan: ptr("Standard"), ToCycle: ptr("monthly"),
			PerformedBy: "System", Reason: "Initial activation",
			Date: date("2024-01-15"),
		},
	}
}

func seedUsage() []types.TenantUsage {
	start, end := date("2026-02-01"), date("2026-02-28")
	return []types.TenantUsage{
		{TenantID: "TEN-001", Bookings: 8432, Storage: 4.2, APICalls: 45000, Users: 12, PeriodStart: start, PeriodEnd: end},
		{TenantID: "TEN-002", Bookings: 32100, Storage: 12.5, APICalls: 185000, Users: 38, PeriodStart: start, PeriodEnd: end},
		{TenantID: "TEN-003", Bookings: 26800, Storage: 9.1, APICalls: 64000, Users: 21, PeriodStart: start, PeriodEnd: end},
		{TenantID: "TEN-004", Bookings: 12000, Storage: 6.3, APICalls: 52000, Users: 18, PeriodStart: start, PeriodEnd: end},
		{TenantID: "TEN-005", Bookings: 42, Storage: 0.1, APICalls: 320, Users: 1, PeriodStart: start, PeriodEnd: end},
		{TenantID: "TEN-006", Bookings: 0, Storage: 1.2, APICalls: 0, Users: 3, PeriodStart: start, PeriodEnd: end},
	}
}

func seedTenants() []types.Tenant {
	return []types.Tenant{
		{
			ID: "TEN-001", TempleName: "Sri Lakshmi Narasimha Temple", DirectoryID: "DIR-4521",
			TenantStatus: types.TenantStatusActive, RegistrationID: "REG-4521", Region: "Tamil Nadu",
			AccountManager: "Priya Sharma", HealthScore: 92, CreatedDate: date("2024-01-15"), LastActivity: "2 hours ago",
		},
		{
			ID: "TEN-002", TempleName: "ISKCON Mumbai", DirectoryID: "DIR-1234",
			TenantStatus: types.TenantStatusActive, RegistrationID: "REG-1234", Region: "Maharashtra",
			AccountManager: "Rahul Verma", HealthScore: 98, CreatedDate: date("2023-06-20"), LastActivity: "10 min ago",
		},
		{
			ID: "TEN-003", TempleName: "Golden Temple Trust", DirectoryID: "DIR-0089",
			TenantStatus: types.TenantStatusActive, RegistrationID: "REG-0089", Region: "Punjab",
			AccountManager: "Deepak Singh", HealthScore: 95, CreatedDate: date("2023-03-10"), LastActivity: "1 hour ago",
		},
		{
			ID: "TEN-004", TempleName: "Kashi Vishwanath", DirectoryID: "DIR-2345",
			TenantStatus: types.TenantStatusActive, RegistrationID: "REG-2345", Region: "Uttar Pradesh",
			AccountManager: "Amit Patel", HealthScore: 88, CreatedDate: date("2023-08-15"), LastActivity: "3 hours ago",
		},
		{
			ID: "TEN-005", TempleName: "Local Shiva Temple", DirectoryID: "DIR-8877",
			TenantStatus: types.TenantStatusTrial, RegistrationID: "REG-8877", Region: "Karnataka",
			AccountManager: "Unassigned", HealthScore: 65, CreatedDate: date("2026-02-01"), LastActivity: "1 day ago",
		},
		{
			ID: "TEN-006", TempleName: "Problem Temple XYZ", DirectoryID: "DIR-5544",
			TenantStatus: types.TenantStatusSuspended, RegistrationID: "REG-5544", Region: "Gujarat",
			AccountManager: "Neha Kumar", HealthScore: 32, CreatedDate: date("2023-11-20"), LastActivity: "2 weeks ago",
		},
	}
}
