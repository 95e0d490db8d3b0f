package db

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"templeadmin/internal/catalog"
	"templeadmin/internal/types"
)

// SourcePostgres names catalogs read from PostgreSQL.
const SourcePostgres = "postgres"

const (
	selectPlansSQL = `SELECT id, name, monthly_price::float8, yearly_price::float8,
       max_users, max_bookings, max_storage, api_limit,
       features, status, version, tenant_count, ordinal
FROM subscription_plans
ORDER BY ordinal, id`

	selectSubscriptionsSQL = `SELECT id, tenant_id, plan_id, billing_cycle, start_date, expiry_date,
       subscription_status, auto_renew, last_payment_date, last_payment_amount::float8,
       created_at, updated_at, ordinal
FROM subscriptions
ORDER BY ordinal, id`

	selectHistorySQL = `SELECT id, tenant_id, action, from_plan, to_plan, from_cycle, to_cycle,
       performed_by, reason, date, ordinal
FROM subscription_history
ORDER BY ordinal, id`

	selectUsageSQL = `SELECT tenant_id, bookings, storage, api_calls, users, period_start, period_end, ordinal
FROM tenant_usage
ORDER BY ordinal, tenant_id, period_start`

	selectTenantsSQL = `SELECT id, temple_name, directory_id, tenant_status, registration_id, region,
       account_manager, health_score, created_date, last_activity, ordinal
FROM tenants
ORDER BY ordinal, id`
)

// CatalogRepo loads read-only catalog snapshots. It implements
// catalog.Source.
type CatalogRepo struct {
	db     DBTX
	logger *slog.Logger
}

// NewCatalogRepo creates a CatalogRepo over a pool or transaction.
func NewCatalogRepo(db DBTX, logger *slog.Logger) *CatalogRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogRepo{db: db, logger: logger}
}

func (r *CatalogRepo) Name() string { return SourcePostgres }

// Load reads all five tables and builds a validated snapshot.
func (r *CatalogRepo) Load(ctx context.Context) (*catalog.Catalog, error) {
	d, err := r.LoadData(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.New(SourcePostgres, d)
}

// LoadData reads the raw records. The tables are queried concurrently; the
// first failure cancels the rest.
func (r *CatalogRepo) LoadData(ctx context.Context) (catalog.Data, error) {
	start := time.Now()
	var d catalog.Data

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Plans, err = queryAll(gctx, r.db, selectPlansSQL, "plans", scanPlan)
		return err
	})
	g.Go(func() (err error) {
		d.Subscriptions, err = queryAll(gctx, r.db, selectSubscriptionsSQL, "subscriptions", scanSubscription)
		return err
	})
	g.Go(func() (err error) {
		d.History, err = queryAll(gctx, r.db, selectHistorySQL, "subscription history", scanHistory)
		return err
	})
	g.Go(func() (err error) {
		d.Usage, err = queryAll(gctx, r.db, selectUsageSQL, "usage", scanUsage)
		return err
	})
	g.Go(func() (err error) {
		d.Tenants, err = queryAll(gctx, r.db, selectTenantsSQL, "tenants", scanTenant)
		return err
	})
	if err := g.Wait(); err != nil {
		return catalog.Data{}, err
	}

	r.logger.Debug("catalog tables loaded",
		slog.Int("plans", len(d.Plans)),
		slog.Int("subscriptions", len(d.Subscriptions)),
		slog.Int("tenants", len(d.Tenants)),
		slog.Duration("duration", time.Since(start)),
	)
	return d, nil
}

// rowScanner scans one row into a record and stores the row's ordinal.
type rowScanner[T any] func(rows pgx.Rows, ordinal *int) (T, error)

type ordinalRow[T any] struct {
	ordinal int
	v       T
}

// queryAll returns the records of one table in catalog order, the order
// they had in the imported document.
func queryAll[T any](ctx context.Context, db DBTX, sql, what string, scan rowScanner[T]) ([]T, error) {
	rows, err := db.Query(ctx, sql)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query "+what, err)
	}
	defer rows.Close()

	var all []ordinalRow[T]
	for rows.Next() {
		var o ordinalRow[T]
		o.v, err = scan(rows, &o.ordinal)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan "+what, err)
		}
		all = append(all, o)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to iterate "+what, err)
	}

	slices.SortStableFunc(all, func(a, b ordinalRow[T]) int { return cmp.Compare(a.ordinal, b.ordinal) })
	var out []T
	for _, o := range all {
		out = append(out, o.v)
	}
	return out, nil
}

func scanPlan(rows pgx.Rows, ordinal *int) (types.SubscriptionPlan, error) {
	var (
		p      types.SubscriptionPlan
		status string
	)
	err := rows.Scan(&p.ID, &p.Name, &p.MonthlyPrice, &p.YearlyPrice,
		&p.MaxUsers, &p.MaxBookings, &p.MaxStorage, &p.APILimit,
		&p.Features, &status, &p.Version, &p.TenantCount, ordinal)
	p.Status = types.PlanStatus(status)
	return p, err
}

func scanSubscription(rows pgx.Rows, ordinal *int) (types.SubscriptionRecord, error) {
	var (
		s                          types.SubscriptionRecord
		cycle, status              string
		start, expiry, created, up time.Time
		lastPayment                *time.Time
	)
	err := rows.Scan(&s.ID, &s.TenantID, &s.PlanID, &cycle, &start, &expiry,
		&status, &s.AutoRenew, &lastPayment, &s.LastPaymentAmount, &created, &up, ordinal)
	if err != nil {
		return s, err
	}
	s.BillingCycle = types.BillingCycle(cycle)
	s.SubscriptionStatus = types.SubscriptionStatus(status)
	s.StartDate = types.DateOf(start)
	s.ExpiryDate = types.DateOf(expiry)
	s.CreatedAt = types.DateOf(created)
	s.UpdatedAt = types.DateOf(up)
	if lastPayment != nil {
		d := types.DateOf(*lastPayment)
		s.LastPaymentDate = &d
	}
	return s, nil
}

func scanHistory(rows pgx.Rows, ordinal *int) (types.SubscriptionHistoryEntry, error) {
	var (
		h  types.SubscriptionHistoryEntry
		on time.Time
	)
	err := rows.Scan(&h.ID, &h.TenantID, &h.Action, &h.FromPlan, &h.ToPlan,
		&h.FromCycle, &h.ToCycle, &h.PerformedBy, &h.Reason, &on, ordinal)
	h.Date = types.DateOf(on)
	return h, err
}

func scanUsage(rows pgx.Rows, ordinal *int) (types.TenantUsage, error) {
	var (
		u          types.TenantUsage
		start, end time.Time
	)
	err := rows.Scan(&u.TenantID, &u.Bookings, &u.Storage, &u.APICalls, &u.Users, &start, &end, ordinal)
	u.PeriodStart = types.DateOf(start)
	u.PeriodEnd = types.DateOf(end)
	return u, err
}

func scanTenant(rows pgx.Rows, ordinal *int) (types.Tenant, error) {
	var (
		t       types.Tenant
		status  string
		created *time.Time
	)
	err := rows.Scan(&t.ID, &t.TempleName, &t.DirectoryID, &status, &t.RegistrationID, &t.Region,
		&t.AccountManager, &t.HealthScore, &created, &t.LastActivity, ordinal)
	t.TenantStatus = types.TenantStatus(status)
	if created != nil {
		t.CreatedDate = types.DateOf(*created)
	}
	return t, err
}
