package billing

import (
	"regexp"
	"strings"

	"templeadmin/internal/types"
)

// FilterAll disables a filter dimension, matching the console's "all" option.
const FilterAll = "all"

var whitespaceRun = regexp.MustCompile(`\s+`)

// RegionSlug lower-cases a region name and joins words with "-":
// "Tamil Nadu" -> "tamil-nadu".
func RegionSlug(region string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(region), "-")
}

// SummaryFilter narrows a list of usage summaries. Empty or "all" fields
// match everything.
type SummaryFilter struct {
	Region string `json:"region,omitempty"`
	Plan   string `json:"plan,omitempty"`
	Status string `json:"status,omitempty" validate:"omitempty,oneof=all normal near-limit over-limit"`
	Search string `json:"q,omitempty" validate:"omitempty,max=200"`
}

func active(v string) bool {
	return v != "" && v != FilterAll
}

// Match reports whether s passes every active filter. Region accepts either a
// slug or a display name; plan names compare case-insensitively; search is a
// case-insensitive substring match on the temple name.
func (f SummaryFilter) Match(s types.TenantUsageSummary) bool {
	if active(f.Region) && RegionSlug(s.Region) != RegionSlug(f.Region) {
		return false
	}
	if active(f.Plan) && strings.ToLower(s.PlanName) != strings.ToLower(f.Plan) {
		return false
	}
	if active(f.Status) && string(s.OverallStatus) != f.Status {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(s.TempleName), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// FilterSummaries returns the summaries matching f, preserving order.
func FilterSummaries(in []types.TenantUsageSummary, f SummaryFilter) []types.TenantUsageSummary {
	out := make([]types.TenantUsageSummary, 0, len(in))
	for _, s := range in {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// CountByStatus tallies overall statuses. All three levels are present in
// the result, zero when unused.
func CountByStatus(in []types.TenantUsageSummary) map[types.UsageLevel]int {
	counts := map[types.UsageLevel]int{
		types.LevelNormal:    0,
		types.LevelNearLimit: 0,
		types.LevelOverLimit: 0,
	}
	for _, s := range in {
		counts[s.OverallStatus]++
	}
	return counts
}
