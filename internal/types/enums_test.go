package types

import "testing"

func TestParseModule(t *testing.T) {
	for _, m := range AllModules {
		got, ok := ParseModule(string(m))
		if !ok || got != m {
			t.Errorf("ParseModule(%q) = %q, %v", m, got, ok)
		}
	}

	if _, ok := ParseModule("Bookings"); ok {
		t.Error("module keys are case-sensitive")
	}
	if _, ok := ParseModule(""); ok {
		t.Error("empty module should not parse")
	}
}

func TestModuleLabels(t *testing.T) {
	tests := []struct {
		m      Module
		label  string
		action string
		unit   string
	}{
		{ModuleBookings, "Bookings", "Create Booking", ""},
		{ModuleStorage, "Storage", "Upload File", "GB"},
		{ModuleAPICalls, "API Calls", "API Call", ""},
		{ModuleUsers, "Users", "Add Admin User", ""},
	}
	for _, tt := range tests {
		if tt.m.Label() != tt.label || tt.m.ActionLabel() != tt.action || tt.m.Unit() != tt.unit {
			t.Errorf("%s: got (%q, %q, %q)", tt.m, tt.m.Label(), tt.m.ActionLabel(), tt.m.Unit())
		}
	}
}

func TestUsageLevelSeverityOrder(t *testing.T) {
	if !(LevelNormal.Severity() < LevelNearLimit.Severity() && LevelNearLimit.Severity() < LevelOverLimit.Severity()) {
		t.Error("severity must order normal < near-limit < over-limit")
	}
}

func TestPlanLimitAndUsageUsed(t *testing.T) {
	p := SubscriptionPlan{MaxBookings: 10000, MaxStorage: 5, APILimit: 50000, MaxUsers: 15}
	u := TenantUsage{Bookings: 8432, Storage: 4.2, APICalls: 45000, Users: 12}

	want := map[Module][2]float64{
		ModuleBookings: {10000, 8432},
		ModuleStorage:  {5, 4.2},
		ModuleAPICalls: {50000, 45000},
		ModuleUsers:    {15, 12},
	}
	for m, w := range want {
		if p.Limit(m) != w[0] {
			t.Errorf("Limit(%s) = %v, want %v", m, p.Limit(m), w[0])
		}
		if u.Used(m) != w[1] {
			t.Errorf("Used(%s) = %v, want %v", m, u.Used(m), w[1])
		}
	}
}
