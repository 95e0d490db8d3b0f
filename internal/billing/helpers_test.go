package billing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"templeadmin/internal/catalog"
	"templeadmin/internal/types"
)

func seedReader(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(catalog.SourceSeed, catalog.SeedData())
	require.NoError(t, err)
	return c
}

// buildReader builds a catalog from the seed after applying mutate.
func buildReader(t *testing.T, mutate func(d *catalog.Data)) *catalog.Catalog {
	t.Helper()
	d := catalog.SeedData()
	mutate(&d)
	c, err := catalog.New("test", d)
	require.NoError(t, err)
	return c
}

func usageFor(d *catalog.Data, tenantID string) *types.TenantUsage {
	for i := range d.Usage {
		if d.Usage[i].TenantID == tenantID {
			return &d.Usage[i]
		}
	}
	return nil
}

func subscriptionFor(d *catalog.Data, tenantID string) *types.SubscriptionRecord {
	for i := range d.Subscriptions {
		if d.Subscriptions[i].TenantID == tenantID {
			return &d.Subscriptions[i]
		}
	}
	return nil
}

func withoutSubscription(d *catalog.Data, tenantID string) {
	out := d.Subscriptions[:0]
	for _, s := range d.Subscriptions {
		if s.TenantID != tenantID {
			out = append(out, s)
		}
	}
	d.Subscriptions = out
}

func withoutUsage(d *catalog.Data, tenantID string) {
	out := d.Usage[:0]
	for _, u := range d.Usage {
		if u.TenantID != tenantID {
			out = append(out, u)
		}
	}
	d.Usage = out
}

type recordedDecision struct {
	module  types.Module
	allowed bool
}

type spyRecorder struct {
	calls []recordedDecision
}

func (s *spyRecorder) RecordDecision(m types.Module, allowed bool) {
	s.calls = append(s.calls, recordedDecision{module: m, allowed: allowed})
}
