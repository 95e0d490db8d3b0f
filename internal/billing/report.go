package billing

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"templeadmin/internal/types"
)

// UsageReportSheet is the worksheet holding one row per tenant.
const UsageReportSheet = "Usage"

// UsageReportHeader returns the column titles of the usage sheet.
func UsageReportHeader() []string {
	header := []string{"Tenant ID", "Temple", "Region", "Plan", "Subscription"}
	for _, m := range types.AllModules {
		label := m.Label()
		if u := m.Unit(); u != "" {
			label = fmt.Sprintf("%s (%s)", label, u)
		}
		header = append(header, label+" Used", label+" Limit", label+" %")
	}
	return append(header, "Overall Status")
}

// WriteUsageReport renders summaries as an XLSX workbook to w.
func WriteUsageReport(w io.Writer, summaries []types.TenantUsageSummary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, UsageReportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, 0, len(UsageReportHeader()))
	for _, h := range UsageReportHeader() {
		header = append(header, h)
	}
	if err := f.SetSheetRow(UsageReportSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, s := range summaries {
		excelRow := []interface{}{
			s.TenantID,
			s.TempleName,
			s.Region,
			s.PlanName,
			string(s.SubscriptionStatus),
		}
		for _, m := range types.AllModules {
			st, _ := s.Module(m)
			excelRow = append(excelRow, st.Used, st.Limit, st.Percentage)
		}
		excelRow = append(excelRow, string(s.OverallStatus))

		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
		if err := f.SetSheetRow(UsageReportSheet, cell, &excelRow); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	if err := f.SetPanes(UsageReportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
