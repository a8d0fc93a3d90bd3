// Package export renders audit results as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/gestor/backend/internal/domain/audit"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the audit workbook
const (
	FindingsSheet = "Inconsistencias"
	SummarySheet  = "Resumo"
)

// ContentTypeXLSX is the media type of the generated workbook
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var findingsHeader = []any{
	"Severidade", "Tipo", "Descricao", "Orcamento", "Cliente", "Valor", "Fracao paga", "Referencia", "Tipo referencia",
}

var kindLabels = map[audit.FindingKind]string{
	audit.KindQuoteWithoutOrder:       "Orcamento sem pedido",
	audit.KindOrderWithoutPayment:     "Pedido sem pagamento",
	audit.KindOrphanReceivable:        "Conta orfa",
	audit.KindStatusDivergence:        "Status divergente",
	audit.KindCommissionWithoutIncome: "Comissao sem recebimento",
}

// AuditWorkbookWriter writes an audit result as an XLSX workbook with a
// findings sheet in audit order and a summary sheet with counts.
type AuditWorkbookWriter struct {
	now func() time.Time
}

// NewAuditWorkbookWriter creates a new AuditWorkbookWriter
func NewAuditWorkbookWriter() *AuditWorkbookWriter {
	return &AuditWorkbookWriter{now: time.Now}
}

// WriteAuditReport renders result into w
func (x *AuditWorkbookWriter) WriteAuditReport(w io.Writer, tenantID uuid.UUID, result *audit.AuditResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", FindingsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeFindings(f, result.Findings, bold); err != nil {
		return fmt.Errorf("write findings sheet: %w", err)
	}
	if err := x.writeSummary(f, tenantID, result.Summary, bold); err != nil {
		return fmt.Errorf("write summary sheet: %w", err)
	}

	return f.Write(w)
}

func writeFindings(f *excelize.File, findings []audit.Finding, headerStyle int) error {
	if err := f.SetSheetRow(FindingsSheet, "A1", &findingsHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(FindingsSheet, "A1", "I1", headerStyle); err != nil {
		return err
	}

	for i, fd := range findings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		var paid any
		if fd.Payload.PaidFraction != nil {
			paid = fd.Payload.PaidFraction.InexactFloat64()
		}
		row := []any{
			string(fd.Severity),
			kindLabels[fd.Kind],
			fd.Description,
			fd.Payload.Code,
			fd.Payload.ClientName,
			fd.Payload.Amount.InexactFloat64(),
			paid,
			fd.ReferenceID.String(),
			fd.ReferenceType,
		}
		if err := f.SetSheetRow(FindingsSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(FindingsSheet, "C", "C", 60); err != nil {
		return err
	}
	return f.SetColWidth(FindingsSheet, "H", "H", 38)
}

func (x *AuditWorkbookWriter) writeSummary(f *excelize.File, tenantID uuid.UUID, s audit.Summary, headerStyle int) error {
	rows := [][]any{
		{"Empresa", tenantID.String()},
		{"Gerado em", x.now().Format(time.RFC3339)},
		{},
		{"Severidade", "Quantidade"},
		{"critical", s.Critical},
		{"high", s.High},
		{"medium", s.Medium},
		{"Total", s.Total},
		{},
		{"Tipo", "Quantidade"},
	}
	for _, kind := range audit.AllFindingKinds {
		rows = append(rows, []any{kindLabels[kind], s.ByKind[kind]})
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	for _, header := range []string{"A4", "A10"} {
		if err := f.SetCellStyle(SummarySheet, header, header, headerStyle); err != nil {
			return err
		}
	}
	return f.SetColWidth(SummarySheet, "A", "A", 28)
}
