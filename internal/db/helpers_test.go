package db

import (
	"context"
	"reflect"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"

	"templeadmin/internal/catalog"
	"templeadmin/internal/types"
)

// --- Mock DBTX ---

type mockDBTX struct {
	mock.Mock
}

func (m *mockDBTX) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *mockDBTX) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if r := args.Get(0); r != nil {
		return r.(pgx.Rows), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDBTX) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

// --- Mock Rows ---

// mockRows assigns each row value to the matching Scan destination; the
// value's type must equal the destination's element type. A nil value
// zeroes the destination.
type mockRows struct {
	data    [][]any
	idx     int
	closed  bool
	scanErr error
	errVal  error
}

func newMockRows(data [][]any) *mockRows {
	return &mockRows{data: data, idx: -1}
}

func (r *mockRows) Next() bool {
	if r.closed {
		return false
	}
	r.idx++
	return r.idx < len(r.data)
}

func (r *mockRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	row := r.data[r.idx]
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if row[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(row[i]))
	}
	return nil
}

func (r *mockRows) Close()                                       { r.closed = true }
func (r *mockRows) Err() error                                   { return r.errVal }
func (r *mockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *mockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *mockRows) RawValues() [][]byte                          { return nil }
func (r *mockRows) Values() ([]any, error)                       { return nil, nil }
func (r *mockRows) Conn() *pgx.Conn                              { return nil }

// --- Row builders mirroring the SELECT column order ---

// The last column of every row is the record's ordinal, its slice index.

func dateTime(d types.Date) time.Time { return d.Time() }

func optionalDate(d *types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}

func planRows(plans []types.SubscriptionPlan) [][]any {
	out := make([][]any, 0, len(plans))
	for i, p := range plans {
		out = append(out, []any{p.ID, p.Name, p.MonthlyPrice, p.YearlyPrice,
			p.MaxUsers, p.MaxBookings, p.MaxStorage, p.APILimit,
			append([]string(nil), p.Features...), string(p.Status), p.Version, p.TenantCount, i})
	}
	return out
}

func subscriptionRows(subs []types.SubscriptionRecord) [][]any {
	out := make([][]any, 0, len(subs))
	for i, s := range subs {
		out = append(out, []any{s.ID, s.TenantID, s.PlanID, string(s.BillingCycle),
			dateTime(s.StartDate), dateTime(s.ExpiryDate), string(s.SubscriptionStatus), s.AutoRenew,
			optionalDate(s.LastPaymentDate), s.LastPaymentAmount, dateTime(s.CreatedAt), dateTime(s.UpdatedAt), i})
	}
	return out
}

func historyRows(entries []types.SubscriptionHistoryEntry) [][]any {
	out := make([][]any, 0, len(entries))
	for i, h := range entries {
		out = append(out, []any{h.ID, h.TenantID, h.Action, h.FromPlan, h.ToPlan,
			h.FromCycle, h.ToCycle, h.PerformedBy, h.Reason, dateTime(h.Date), i})
	}
	return out
}

func usageRows(usage []types.TenantUsage) [][]any {
	out := make([][]any, 0, len(usage))
	for i, u := range usage {
		out = append(out, []any{u.TenantID, u.Bookings, u.Storage, u.APICalls, u.Users,
			dateTime(u.PeriodStart), dateTime(u.PeriodEnd), i})
	}
	return out
}

func tenantRows(tenants []types.Tenant) [][]any {
	out := make([][]any, 0, len(tenants))
	for i, t := range tenants {
		created := t.CreatedDate
		out = append(out, []any{t.ID, t.TempleName, t.DirectoryID, string(t.TenantStatus),
			t.RegistrationID, t.Region, t.AccountManager, t.HealthScore,
			optionalDate(&created), t.LastActivity, i})
	}
	return out
}

// expectCatalogQueries wires every catalog SELECT to rows built from d.
func expectCatalogQueries(db *mockDBTX, d catalog.Data) {
	expectCatalogQueriesIn(db, d, func(rows [][]any) [][]any { return rows })
}

// expectCatalogQueriesIn is expectCatalogQueries with the row order of
// every table rearranged by reorder.
func expectCatalogQueriesIn(db *mockDBTX, d catalog.Data, reorder func([][]any) [][]any) {
	db.On("Query", mock.Anything, selectPlansSQL, mock.Anything).Return(newMockRows(reorder(planRows(d.Plans))), nil)
	db.On("Query", mock.Anything, selectSubscriptionsSQL, mock.Anything).Return(newMockRows(reorder(subscriptionRows(d.Subscriptions))), nil)
	db.On("Query", mock.Anything, selectHistorySQL, mock.Anything).Return(newMockRows(reorder(historyRows(d.History))), nil)
	db.On("Query", mock.Anything, selectUsageSQL, mock.Anything).Return(newMockRows(reorder(usageRows(d.Usage))), nil)
	db.On("Query", mock.Anything, selectTenantsSQL, mock.Anything).Return(newMockRows(reorder(tenantRows(d.Tenants))), nil)
}
