package types

// Module identifies one of the four tracked resource dimensions of a tenant.
// The set is closed; every switch over Module must handle all four values.
type Module string

const (
	ModuleBookings Module = "bookings"
	ModuleStorage  Module = "storage"
	ModuleAPICalls Module = "apiCalls"
	ModuleUsers    Module = "users"
)

// AllModules lists the tracked modules in evaluation order.
var AllModules = []Module{ModuleBookings, ModuleStorage, ModuleAPICalls, ModuleUsers}

// ParseModule converts a raw string into a Module.
func ParseModule(s string) (Module, bool) {
	switch m := Module(s); m {
	case ModuleBookings, ModuleStorage, ModuleAPICalls, ModuleUsers:
		return m, true
	default:
		return "", false
	}
}

// Label returns the display name used in usage tables.
func (m Module) Label() string {
	switch m {
	case ModuleBookings:
		return "Bookings"
	case ModuleStorage:
		return "Storage"
	case ModuleAPICalls:
		return "API Calls"
	case ModuleUsers:
		return "Users"
	default:
		return string(m)
	}
}

// ActionLabel names the resource-consuming action gated by this module.
func (m Module) ActionLabel() string {
	switch m {
	case ModuleBookings:
		return "Create Booking"
	case ModuleStorage:
		return "Upload File"
	case ModuleAPICalls:
		return "API Call"
	case ModuleUsers:
		return "Add Admin User"
	default:
		return string(m)
	}
}

// Unit is the measurement unit shown next to the counter, if any.
func (m Module) Unit() string {
	if m == ModuleStorage {
		return "GB"
	}
	return ""
}

// UsageLevel is the derived severity of a module's consumption.
type UsageLevel string

const (
	LevelNormal    UsageLevel = "normal"
	LevelNearLimit UsageLevel = "near-limit"
	LevelOverLimit UsageLevel = "over-limit"
)

// Severity orders levels: normal < near-limit < over-limit.
func (l UsageLevel) Severity() int {
	switch l {
	case LevelOverLimit:
		return 2
	case LevelNearLimit:
		return 1
	default:
		return 0
	}
}

// PlanStatus is the lifecycle state of a catalog plan.
type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "Active"
	PlanStatusArchived PlanStatus = "Archived"
)

// BillingCycle is how a subscription is invoiced.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
	CycleTrial   BillingCycle = "trial"
)

// SubscriptionStatus represents the state of a tenant subscription.
type SubscriptionStatus string

const (
	SubStatusTrial     SubscriptionStatus = "trial"
	SubStatusActive    SubscriptionStatus = "active"
	SubStatusExpired   SubscriptionStatus = "expired"
	SubStatusSuspended SubscriptionStatus = "suspended"
	SubStatusCancelled SubscriptionStatus = "cancelled"
)

// TenantStatus represents the account lifecycle state of a tenant.
type TenantStatus string

const (
	TenantStatusTrial     TenantStatus = "trial"
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusExpired   TenantStatus = "expired"
)
