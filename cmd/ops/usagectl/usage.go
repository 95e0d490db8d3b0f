package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"templeadmin/internal/billing"
	"templeadmin/internal/types"
)

func (a *cli) newPlansCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List subscription plans and their ceilings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			var plans []types.SubscriptionPlan
			switch types.PlanStatus(status) {
			case "":
				plans = c.Plans()
			case types.PlanStatusActive:
				plans = c.ActivePlans()
			case types.PlanStatusArchived:
				for _, p := range c.Plans() {
					if p.Status == types.PlanStatusArchived {
						plans = append(plans, p)
					}
				}
			default:
				return fmt.Errorf("invalid plan status %q (want Active or Archived)", status)
			}

			return a.printer.print(plans, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tNAME\tSTATUS\tMONTHLY\tUSERS\tBOOKINGS\tSTORAGE (GB)\tAPI CALLS")
				for _, p := range plans {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						p.ID, p.Name, p.Status, count(p.MonthlyPrice),
						count(p.MaxUsers), count(p.MaxBookings), count(p.MaxStorage), count(p.APILimit))
				}
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by plan status (Active, Archived)")
	return cmd
}

// addFilterFlags binds the usage list filters shared by summaries and export.
func addFilterFlags(cmd *cobra.Command, f *billing.SummaryFilter) {
	cmd.Flags().StringVar(&f.Region, "region", "", "region slug or name, e.g. tamil-nadu")
	cmd.Flags().StringVar(&f.Plan, "plan", "", "plan name, case-insensitive")
	cmd.Flags().StringVar(&f.Status, "status", "", "overall status: normal, near-limit, over-limit")
	cmd.Flags().StringVar(&f.Search, "search", "", "substring of the temple name")
}

func validateFilter(f billing.SummaryFilter) error {
	switch f.Status {
	case "", billing.FilterAll, string(types.LevelNormal), string(types.LevelNearLimit), string(types.LevelOverLimit):
		return nil
	default:
		return fmt.Errorf("invalid status %q (want normal, near-limit or over-limit)", f.Status)
	}
}

func (a *cli) newSummariesCmd() *cobra.Command {
	var filter billing.SummaryFilter
	cmd := &cobra.Command{
		Use:   "summaries",
		Short: "List per-tenant usage summaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFilter(filter); err != nil {
				return err
			}
			c, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			all := billing.NewEvaluator(c).GetAllTenantUsageSummaries()
			summaries := billing.FilterSummaries(all, filter)
			counts := billing.CountByStatus(all)

			return a.printer.print(summaries, func(w io.Writer) {
				fmt.Fprintln(w, "TENANT\tTEMPLE\tREGION\tPLAN\tBOOKINGS\tSTORAGE\tAPI CALLS\tUSERS\tSTATUS")
				for _, s := range summaries {
					cols := []string{s.TenantID, s.TempleName, s.Region, s.PlanName}
					for _, m := range types.AllModules {
						st, _ := s.Module(m)
						cols = append(cols, fmt.Sprintf("%d%%", st.Percentage))
					}
					fmt.Fprintf(w, "%s\t%s\n", strings.Join(cols, "\t"), a.printer.level(s.OverallStatus))
				}
				fmt.Fprintf(w, "\n%d of %d tenants\tnormal %d\tnear-limit %d\tover-limit %d\n",
					len(summaries), len(all),
					counts[types.LevelNormal], counts[types.LevelNearLimit], counts[types.LevelOverLimit])
			})
		},
	}
	addFilterFlags(cmd, &filter)
	return cmd
}

func (a *cli) newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <tenant-id>",
		Short: "Show one tenant's usage against its plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			s, ok := billing.NewEvaluator(c).GetTenantUsageSummary(args[0])
			if !ok {
				return fmt.Errorf("tenant %q not found", args[0])
			}

			return a.printer.print(s, func(w io.Writer) {
				fmt.Fprintf(w, "Tenant:\t%s (%s)\n", s.TempleName, s.TenantID)
				fmt.Fprintf(w, "Region:\t%s\n", s.Region)
				fmt.Fprintf(w, "Plan:\t%s\n", s.PlanName)
				fmt.Fprintf(w, "Subscription:\t%s\n", orDash(string(s.SubscriptionStatus)))
				fmt.Fprintf(w, "Overall:\t%s\n\n", a.printer.level(s.OverallStatus))
				fmt.Fprintln(w, "MODULE\tUSED\tLIMIT\tPCT\tSTATUS")
				for _, st := range s.Modules {
					label := st.Label
					if st.Unit != "" {
						label += " (" + st.Unit + ")"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%d%%\t%s\n",
						label, count(st.Used), count(st.Limit), st.Percentage, a.printer.level(st.Status))
				}
			})
		},
	}
}

func (a *cli) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <tenant-id> [module]",
		Short: "Ask whether a tenant may perform a module's action",
		Long: `check prints the enforcement decision for one module (bookings, storage,
apiCalls, users), or for every module when none is given.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID := args[0]

			var modules []types.Module
			if len(args) == 2 {
				m, ok := types.ParseModule(args[1])
				if !ok {
					return fmt.Errorf("unknown module %q (want bookings, storage, apiCalls or users)", args[1])
				}
				modules = []types.Module{m}
			}

			c, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			if _, ok := c.GetTenant(tenantID); !ok {
				return fmt.Errorf("tenant %q not found", tenantID)
			}

			enforcer := billing.NewEnforcer(c, nil)
			var checks []billing.ActionCheck
			if modules == nil {
				checks = enforcer.CheckAll(tenantID)
			} else {
				m := modules[0]
				checks = []billing.ActionCheck{{Module: m, Action: m.ActionLabel(), Decision: enforcer.CanPerformAction(tenantID, m)}}
			}

			return a.printer.print(checks, func(w io.Writer) {
				fmt.Fprintln(w, "MODULE\tACTION\tREASON\tDECISION")
				for _, ch := range checks {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ch.Module, ch.Action, orDash(ch.Reason), a.printer.decision(ch.Decision))
				}
			})
		},
	}
}

func (a *cli) newExportCmd() *cobra.Command {
	var (
		filter billing.SummaryFilter
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the usage report as an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if err := validateFilter(filter); err != nil {
				return err
			}
			c, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			summaries := billing.FilterSummaries(billing.NewEvaluator(c).GetAllTenantUsageSummaries(), filter)

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create report: %w", err)
			}
			defer func() {
				if cerr := f.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("close report: %w", cerr)
				}
			}()

			if err := billing.WriteUsageReport(f, summaries); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d tenants to %s\n", len(summaries), out)
			return nil
		},
	}
	addFilterFlags(cmd, &filter)
	cmd.Flags().StringVar(&out, "out", "usage-report.xlsx", "output path")
	return cmd
}
