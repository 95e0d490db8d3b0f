package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"templeadmin/internal/catalog"
	"templeadmin/internal/types"
)

// TxStarter is satisfied by *pgxpool.Pool.
type TxStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

const truncateCatalogSQL = `TRUNCATE tenant_usage, subscription_history, subscriptions, tenants, subscription_plans`

const (
	insertPlanSQL = `INSERT INTO subscription_plans
    (id, name, monthly_price, yearly_price, max_users, max_bookings, max_storage, api_limit,
     features, status, version, tenant_count, ordinal)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	insertTenantSQL = `INSERT INTO tenants
    (id, temple_name, directory_id, tenant_status, registration_id, region,
     account_manager, health_score, created_date, last_activity, ordinal)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	insertSubscriptionSQL = `INSERT INTO subscriptions
    (id, tenant_id, plan_id, billing_cycle, start_date, expiry_date, subscription_status,
     auto_renew, last_payment_date, last_payment_amount, created_at, updated_at, ordinal)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	insertHistorySQL = `INSERT INTO subscription_history
    (id, tenant_id, action, from_plan, to_plan, from_cycle, to_cycle, performed_by, reason, date, ordinal)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	insertUsageSQL = `INSERT INTO tenant_usage
    (tenant_id, period_start, period_end, bookings, storage, api_calls, users, ordinal)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
)

// ImportCatalog replaces the catalog tables with d in one transaction. The
// data is validated with catalog.New first, so a rejected document never
// truncates the existing rows.
func ImportCatalog(ctx context.Context, db TxStarter, d catalog.Data) error {
	if _, err := catalog.New(SourcePostgres, d); err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		return writeCatalog(ctx, tx, d)
	})
}

// writeCatalog inserts parents before children so the foreign keys hold.
// Each row stores its slice index as ordinal, which readers order by.
func writeCatalog(ctx context.Context, db DBTX, d catalog.Data) error {
	exec := func(what, sql string, args ...any) error {
		if _, err := db.Exec(ctx, sql, args...); err != nil {
			return types.NewAppError(types.ErrCodeInternalDB, fmt.Sprintf("failed to write %s", what), err)
		}
		return nil
	}

	if err := exec("catalog reset", truncateCatalogSQL); err != nil {
		return err
	}
	for i, p := range d.Plans {
		features := p.Features
		if features == nil {
			features = []string{}
		}
		if err := exec("plan "+p.ID, insertPlanSQL, p.ID, p.Name, p.MonthlyPrice, p.YearlyPrice,
			p.MaxUsers, p.MaxBookings, p.MaxStorage, p.APILimit,
			features, string(p.Status), p.Version, p.TenantCount, i); err != nil {
			return err
		}
	}
	for i, t := range d.Tenants {
		if err := exec("tenant "+t.ID, insertTenantSQL, t.ID, t.TempleName, t.DirectoryID,
			string(t.TenantStatus), t.RegistrationID, t.Region, t.AccountManager, t.HealthScore,
			nullableDate(t.CreatedDate), t.LastActivity, i); err != nil {
			return err
		}
	}
	for i, s := range d.Subscriptions {
		var lastPayment *time.Time
		if s.LastPaymentDate != nil {
			lastPayment = nullableDate(*s.LastPaymentDate)
		}
		if err := exec("subscription "+s.ID, insertSubscriptionSQL, s.ID, s.TenantID, s.PlanID,
			string(s.BillingCycle), s.StartDate.Time(), s.ExpiryDate.Time(), string(s.SubscriptionStatus),
			s.AutoRenew, lastPayment, s.LastPaymentAmount, s.CreatedAt.Time(), s.UpdatedAt.Time(), i); err != nil {
			return err
		}
	}
	for i, h := range d.History {
		if err := exec("history "+h.ID, insertHistorySQL, h.ID, h.TenantID, h.Action,
			h.FromPlan, h.ToPlan, h.FromCycle, h.ToCycle, h.PerformedBy, h.Reason, h.Date.Time(), i); err != nil {
			return err
		}
	}
	for i, u := range d.Usage {
		if err := exec("usage for "+u.TenantID, insertUsageSQL, u.TenantID,
			u.PeriodStart.Time(), u.PeriodEnd.Time(), u.Bookings, u.Storage, u.APICalls, u.Users, i); err != nil {
			return err
		}
	}
	return nil
}

func nullableDate(d types.Date) *time.Time {
	if d.IsZero() {
		return nil
	}
	t := d.Time()
	return &t
}
