package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"templeadmin/internal/catalog"
	"templeadmin/internal/types"
)

func TestRegionSlug(t *testing.T) {
	assert.Equal(t, "tamil-nadu", RegionSlug("Tamil Nadu"))
	assert.Equal(t, "uttar-pradesh", RegionSlug("Uttar  Pradesh"))
	assert.Equal(t, "punjab", RegionSlug("Punjab"))
	assert.Equal(t, "", RegionSlug(""))
}

func TestFilterSummaries(t *testing.T) {
	all := NewEvaluator(seedReader(t)).GetAllTenantUsageSummaries()

	ids := func(in []types.TenantUsageSummary) []string {
		out := make([]string, 0, len(in))
		for _, s := range in {
			out = append(out, s.TenantID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter SummaryFilter
		want   []string
	}{
		{"no filter", SummaryFilter{}, []string{"TEN-001", "TEN-002", "TEN-003", "TEN-004", "TEN-005", "TEN-006"}},
		{"all keyword", SummaryFilter{Region: FilterAll, Plan: FilterAll, Status: FilterAll}, []string{"TEN-001", "TEN-002", "TEN-003", "TEN-004", "TEN-005", "TEN-006"}},
		{"region slug", SummaryFilter{Region: "tamil-nadu"}, []string{"TEN-001"}},
		{"region display name", SummaryFilter{Region: "Uttar Pradesh"}, []string{"TEN-004"}},
		{"plan case-insensitive", SummaryFilter{Plan: "enterprise"}, []string{"TEN-002", "TEN-004"}},
		{"search substring", SummaryFilter{Search: "TEMPLE"}, []string{"TEN-001", "TEN-003", "TEN-005", "TEN-006"}},
		{"combined", SummaryFilter{Plan: "Enterprise", Search: "kashi"}, []string{"TEN-004"}},
		{"no match", SummaryFilter{Region: "kerala"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterSummaries(all, tt.filter)))
		})
	}
}

func TestFilterByStatusAndCounts(t *testing.T) {
	all := NewEvaluator(seedReader(t)).GetAllTenantUsageSummaries()

	over := FilterSummaries(all, SummaryFilter{Status: string(types.LevelOverLimit)})
	require.Len(t, over, 1)
	assert.Equal(t, "TEN-003", over[0].TenantID)

	assert.Equal(t, map[types.UsageLevel]int{
		types.LevelNormal:    3,
		types.LevelNearLimit: 2,
		types.LevelOverLimit: 1,
	}, CountByStatus(all))

	r := buildReader(t, func(d *catalog.Data) {
		usageFor(d, "TEN-002").Users = 50
	})
	counts := CountByStatus(NewEvaluator(r).GetAllTenantUsageSummaries())
	assert.Equal(t, 2, counts[types.LevelOverLimit])
	assert.Equal(t, 1, counts[types.LevelNearLimit])
}

func TestCountByStatusEmpty(t *testing.T) {
	counts := CountByStatus(nil)
	assert.Equal(t, map[types.UsageLevel]int{
		types.LevelNormal:    0,
		types.LevelNearLimit: 0,
		types.LevelOverLimit: 0,
	}, counts)
}
