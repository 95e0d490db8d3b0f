package billing

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteUsageReport(t *testing.T) {
	summaries := NewEvaluator(seedReader(t)).GetAllTenantUsageSummaries()

	var buf bytes.Buffer
	require.NoError(t, WriteUsageReport(&buf, summaries))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(UsageReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, len(summaries)+1)

	assert.Equal(t, UsageReportHeader(), rows[0])
	assert.Contains(t, rows[0], "Storage (GB) Used")

	first := rows[1]
	assert.Equal(t, "TEN-001", first[0])
	assert.Equal(t, "Sri Lakshmi Narasimha Temple", first[1])
	assert.Equal(t, "Premium", first[3])
	assert.Equal(t, "active", first[4])
	assert.Equal(t, "8432", first[5])
	assert.Equal(t, "10000", first[6])
	assert.Equal(t, "84", first[7])
	assert.Equal(t, "near-limit", first[len(first)-1])
}

func TestWriteUsageReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUsageReport(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(UsageReportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
