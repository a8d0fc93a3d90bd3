package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/gestor/backend/internal/domain/audit"
	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/domain/production"
	"github.com/gestor/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// sampleResult audits a paid quote with no order and no income plus an
// orphan installment: two high findings and one medium.
func sampleResult(t *testing.T) *audit.AuditResult {
	t.Helper()
	tenantID := uuid.New()
	q, err := sales.NewQuote(tenantID, "ORC-7", "Serralheria Norte", decimal.NewFromInt(1000), decimal.NewFromInt(1000))
	require.NoError(t, err)
	q.Status = sales.QuoteStatusPago

	result, err := audit.RunAudit(&audit.Snapshot{
		Quotes:           []sales.Quote{*q},
		ProductionOrders: []production.ProductionOrder{},
		Receivables: []finance.ReceivableInstallment{
			{ID: uuid.New(), TenantID: tenantID, Amount: decimal.NewFromInt(50), DueDate: time.Now()},
		},
		Commissions: []finance.Commission{},
	})
	require.NoError(t, err)
	return result
}

func TestAuditWorkbookWriter_WriteAuditReport(t *testing.T) {
	result := sampleResult(t)
	require.NotEmpty(t, result.Findings)

	writer := NewAuditWorkbookWriter()
	writer.now = func() time.Time { return time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC) }
	tenantID := uuid.New()

	var buf bytes.Buffer
	require.NoError(t, writer.WriteAuditReport(&buf, tenantID, result))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{FindingsSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(FindingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, len(result.Findings)+1)
	assert.Equal(t, "Severidade", rows[0][0])
	for i, fd := range result.Findings {
		assert.Equal(t, string(fd.Severity), rows[i+1][0])
		assert.Equal(t, kindLabels[fd.Kind], rows[i+1][1])
		assert.Equal(t, fd.ReferenceID.String(), rows[i+1][7])
	}

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, tenantID.String(), summary[0][1])
	assert.Equal(t, "2026-10-01T09:00:00Z", summary[1][1])
	total, err := f.GetCellValue(SummarySheet, "B8")
	require.NoError(t, err)
	assert.Equal(t, "3", total)
}

func TestAuditWorkbookWriter_EmptyResult(t *testing.T) {
	result, err := audit.RunAudit(&audit.Snapshot{
		Quotes:           []sales.Quote{},
		ProductionOrders: []production.ProductionOrder{},
		Receivables:      []finance.ReceivableInstallment{},
		Commissions:      []finance.Commission{},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewAuditWorkbookWriter().WriteAuditReport(&buf, uuid.New(), result))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(FindingsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	total, err := f.GetCellValue(SummarySheet, "B8")
	require.NoError(t, err)
	assert.Equal(t, "0", total)
}
