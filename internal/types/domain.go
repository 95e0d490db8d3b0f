package types

// SubscriptionPlan is a named tier of service with prices and resource ceilings.
// A ceiling of 0 disables the module for the plan; it never means unlimited.
type SubscriptionPlan struct {
	ID           string     `json:"id" yaml:"id" validate:"required"`
	Name         string     `json:"name" yaml:"name" validate:"required"`
	MonthlyPrice float64    `json:"monthlyPrice" yaml:"monthlyPrice" validate:"finite,gte=0"`
	YearlyPrice  float64    `json:"yearlyPrice" yaml:"yearlyPrice" validate:"finite,gte=0"`
	MaxUsers     float64    `json:"maxUsers" yaml:"maxUsers" validate:"finite,gte=0"`
	MaxBookings  float64    `json:"maxBookings" yaml:"maxBookings" validate:"finite,gte=0"`
	MaxStorage   float64    `json:"maxStorage" yaml:"maxStorage" validate:"finite,gte=0"`
	APILimit     float64    `json:"apiLimit" yaml:"apiLimit" validate:"finite,gte=0"`
	Features     []string   `json:"features" yaml:"features"`
	Status       PlanStatus `json:"status" yaml:"status" validate:"required,oneof=Active Archived"`
	Version      string     `json:"version" yaml:"version"`
	TenantCount  int        `json:"tenantCount" yaml:"tenantCount" validate:"gte=0"`
}

// Limit returns the plan ceiling for the module.
func (p SubscriptionPlan) Limit(m Module) float64 {
	switch m {
	case ModuleBookings:
		return p.MaxBookings
	case ModuleStorage:
		return p.MaxStorage
	case ModuleAPICalls:
		return p.APILimit
	case ModuleUsers:
		return p.MaxUsers
	default:
		return 0
	}
}

// SubscriptionRecord binds one tenant to one plan.
type SubscriptionRecord struct {
	ID                 string             `json:"id" yaml:"id" validate:"required"`
	TenantID           string             `json:"tenantId" yaml:"tenantId" validate:"required"`
	PlanID             string             `json:"planId" yaml:"planId" validate:"required"`
	BillingCycle       BillingCycle       `json:"billingCycle" yaml:"billingCycle" validate:"required,oneof=monthly yearly trial"`
	StartDate          Date               `json:"startDate" yaml:"startDate"`
	ExpiryDate         Date               `json:"expiryDate" yaml:"expiryDate"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus" yaml:"subscriptionStatus" validate:"required,oneof=trial active expired suspended cancelled"`
	AutoRenew          bool               `json:"autoRenew" yaml:"autoRenew"`
	LastPaymentDate    *Date              `json:"lastPaymentDate" yaml:"lastPaymentDate"`
	LastPaymentAmount  *float64           `json:"lastPaymentAmount" yaml:"lastPaymentAmount" validate:"omitempty,finite,gte=0"`
	CreatedAt          Date               `json:"createdAt" yaml:"createdAt"`
	UpdatedAt          Date               `json:"updatedAt" yaml:"updatedAt"`
}

// SubscriptionHistoryEntry records one change to a tenant's subscription.
type SubscriptionHistoryEntry struct {
	ID          string  `json:"id" yaml:"id" validate:"required"`
	TenantID    string  `json:"tenantId" yaml:"tenantId" validate:"required"`
	Action      string  `json:"action" yaml:"action" validate:"required"`
	FromPlan    *string `json:"fromPlan" yaml:"fromPlan"`
	ToPlan      *string `json:"toPlan" yaml:"toPlan"`
	FromCycle   *string `json:"fromCycle" yaml:"fromCycle"`
	ToCycle     *string `json:"toCycle" yaml:"toCycle"`
	PerformedBy string  `json:"performedBy" yaml:"performedBy"`
	Reason      string  `json:"reason" yaml:"reason"`
	Date        Date    `json:"date" yaml:"date"`
}

// TenantUsage holds measured consumption for one tenant over a reporting period.
type TenantUsage struct {
	TenantID    string  `json:"tenantId" yaml:"tenantId" validate:"required"`
	Bookings    float64 `json:"bookings" yaml:"bookings" validate:"finite,gte=0"`
	Storage     float64 `json:"storage" yaml:"storage" validate:"finite,gte=0"`
	APICalls    float64 `json:"apiCalls" yaml:"apiCalls" validate:"finite,gte=0"`
	Users       float64 `json:"users" yaml:"users" validate:"finite,gte=0"`
	PeriodStart Date    `json:"periodStart" yaml:"periodStart"`
	PeriodEnd   Date    `json:"periodEnd" yaml:"periodEnd"`
}

// Used returns the counter for the module.
func (u TenantUsage) Used(m Module) float64 {
	switch m {
	case ModuleBookings:
		return u.Bookings
	case ModuleStorage:
		return u.Storage
	case ModuleAPICalls:
		return u.APICalls
	case ModuleUsers:
		return u.Users
	default:
		return 0
	}
}

// Tenant is a temple or trust onboarded onto the platform. The plan is not
// stored here; it is derived through the tenant's SubscriptionRecord.
type Tenant struct {
	ID             string       `json:"id" yaml:"id" validate:"required"`
	TempleName     string       `json:"templeName" yaml:"templeName" validate:"required"`
	DirectoryID    string       `json:"directoryId" yaml:"directoryId"`
	TenantStatus   TenantStatus `json:"tenantStatus" yaml:"tenantStatus" validate:"required,oneof=trial active suspended expired"`
	RegistrationID string       `json:"registrationId" yaml:"registrationId"`
	Region         string       `json:"region" yaml:"region"`
	AccountManager string       `json:"accountManager" yaml:"accountManager"`
	HealthScore    int          `json:"healthScore" yaml:"healthScore" validate:"gte=0,lte=100"`
	CreatedDate    Date         `json:"createdDate" yaml:"createdDate"`
	LastActivity   string       `json:"lastActivity" yaml:"lastActivity"`
}

// UsageStatus is the derived used/limit/percentage/status view of one module.
type UsageStatus struct {
	Module     Module     `json:"module"`
	Label      string     `json:"label"`
	Unit       string     `json:"unit,omitempty"`
	Used       float64    `json:"used"`
	Limit      float64    `json:"limit"`
	Percentage int        `json:"percentage"`
	Status     UsageLevel `json:"status"`
}

// TenantUsageSummary aggregates a tenant's module statuses.
type TenantUsageSummary struct {
	TenantID           string             `json:"tenantId"`
	TempleName         string             `json:"templeName"`
	Region             string             `json:"region"`
	PlanID             string             `json:"planId,omitempty"`
	PlanName           string             `json:"planName"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus,omitempty"`
	Modules            []UsageStatus      `json:"modules"`
	OverallStatus      UsageLevel         `json:"overallStatus"`
}

// Module returns the status entry for m.
func (s TenantUsageSummary) Module(m Module) (UsageStatus, bool) {
	for _, st := range s.Modules {
		if st.Module == m {
			return st, true
		}
	}
	return UsageStatus{}, false
}

// Decision is the outcome of an enforcement check. A denial is a normal
// result, not an error.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}
