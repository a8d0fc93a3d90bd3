package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/gestor/backend/internal/domain/audit"
	"github.com/gestor/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRunner struct {
	result    *audit.AuditResult
	margins   *audit.MarginAlertResult
	err       error
	tenant    uuid.UUID
	threshold *decimal.Decimal
	exported  bool
	released  bool
}

func (f *fakeRunner) RunConsistencyAudit(_ context.Context, tenantID uuid.UUID) (*audit.AuditResult, error) {
	f.tenant = tenantID
	return f.result, f.err
}

func (f *fakeRunner) ExportConsistencyAudit(_ context.Context, tenantID uuid.UUID, w io.Writer) (*audit.AuditResult, error) {
	f.tenant = tenantID
	f.exported = true
	if f.err != nil {
		return nil, f.err
	}
	_, err := w.Write([]byte("PK-workbook"))
	return f.result, err
}

func (f *fakeRunner) ComputeMarginAlerts(_ context.Context, tenantID uuid.UUID, threshold *decimal.Decimal) (*audit.MarginAlertResult, error) {
	f.tenant = tenantID
	f.threshold = threshold
	return f.margins, f.err
}

func (f *fakeRunner) factory() runnerFactory {
	return func(context.Context, *config.Config, *zap.Logger) (auditRunner, func(), error) {
		return f, func() { f.released = true }, nil
	}
}

func execute(t *testing.T, connect runnerFactory, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(connect)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func sampleAudit() *audit.AuditResult {
	quoteID := uuid.New()
	f := audit.Finding{
		Kind:          audit.KindOrderWithoutPayment,
		Severity:      audit.SeverityCritical,
		Description:   "Pedido PED-0001 sem pagamento registrado",
		QuoteID:       &quoteID,
		ReferenceID:   uuid.New(),
		ReferenceType: "production_order",
		Payload: audit.FindingPayload{
			Code:       "PED-0001",
			ClientName: "Gráfica Aurora",
			Amount:     decimal.NewFromInt(1500),
		},
	}
	return &audit.AuditResult{
		Findings: []audit.Finding{f},
		Summary: audit.Summary{
			Total:    1,
			Critical: 1,
			ByKind:   map[audit.FindingKind]int{audit.KindOrderWithoutPayment: 1},
		},
	}
}

func TestAuditCommand_Table(t *testing.T) {
	runner := &fakeRunner{result: sampleAudit()}
	tenant := uuid.New()

	out, err := execute(t, runner.factory(), "audit", "--tenant", tenant.String())

	require.NoError(t, err)
	assert.Equal(t, tenant, runner.tenant)
	assert.False(t, runner.exported)
	assert.True(t, runner.released)
	assert.Contains(t, out, "Findings: 1 (critical 1, high 0, medium 0)")
	assert.Contains(t, out, "pedido_sem_pagamento")
	assert.Contains(t, out, "PED-0001")
	assert.Contains(t, out, "1500.00")
}

func TestAuditCommand_JSON(t *testing.T) {
	runner := &fakeRunner{result: sampleAudit()}

	out, err := execute(t, runner.factory(), "audit", "--tenant", uuid.NewString(), "--json")

	require.NoError(t, err)
	var decoded audit.AuditResult
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 1, decoded.Summary.Critical)
	assert.Len(t, decoded.Findings, 1)
}

func TestAuditCommand_Export(t *testing.T) {
	t.Run("writes workbook", func(t *testing.T) {
		runner := &fakeRunner{result: sampleAudit()}
		path := filepath.Join(t.TempDir(), "auditoria.xlsx")

		_, err := execute(t, runner.factory(), "audit", "--tenant", uuid.NewString(), "--xlsx", path)

		require.NoError(t, err)
		assert.True(t, runner.exported)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "PK-workbook", string(data))
	})

	t.Run("removes file on failure", func(t *testing.T) {
		runner := &fakeRunner{err: errors.New("snapshot failed")}
		path := filepath.Join(t.TempDir(), "auditoria.xlsx")

		_, err := execute(t, runner.factory(), "audit", "--tenant", uuid.NewString(), "--xlsx", path)

		assert.EqualError(t, err, "snapshot failed")
		assert.NoFileExists(t, path)
	})
}

func TestAuditCommand_InvalidTenant(t *testing.T) {
	calls := 0
	connect := func(context.Context, *config.Config, *zap.Logger) (auditRunner, func(), error) {
		calls++
		return nil, nil, errors.New("unexpected")
	}

	tests := []struct {
		name string
		args []string
	}{
		{"missing", []string{"audit"}},
		{"not a uuid", []string{"audit", "--tenant", "acme"}},
		{"nil uuid", []string{"audit", "--tenant", uuid.Nil.String()}},
		{"margins nil uuid", []string{"margins", "--tenant", uuid.Nil.String()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, connect, tt.args...)
			assert.Error(t, err)
		})
	}
	assert.Zero(t, calls)
}

func TestAuditCommand_ConnectError(t *testing.T) {
	connect := func(context.Context, *config.Config, *zap.Logger) (auditRunner, func(), error) {
		return nil, nil, errors.New("connect database: refused")
	}

	_, err := execute(t, connect, "audit", "--tenant", uuid.NewString())

	assert.EqualError(t, err, "connect database: refused")
}

func TestMarginsCommand(t *testing.T) {
	margins := &audit.MarginAlertResult{
		Threshold:        decimal.NewFromInt(5),
		EvaluatedCount:   2,
		AverageProjected: decimal.NewFromInt(30),
		AverageRealized:  decimal.NewFromInt(22),
		AverageDelta:     decimal.NewFromInt(-8),
		PortfolioAlert:   true,
		CriticalQuotes: []audit.MarginAlert{{
			QuoteID:    uuid.New(),
			Code:       "ORC-0042",
			ClientName: "Papelaria Central",
			Projected:  decimal.NewFromInt(35),
			Realized:   decimal.NewFromInt(20),
			Shortfall:  decimal.NewFromInt(15),
		}},
	}

	t.Run("threshold override", func(t *testing.T) {
		runner := &fakeRunner{margins: margins}

		out, err := execute(t, runner.factory(), "margins", "--tenant", uuid.NewString(), "--threshold", "5")

		require.NoError(t, err)
		require.NotNil(t, runner.threshold)
		assert.True(t, runner.threshold.Equal(decimal.NewFromInt(5)))
		assert.Contains(t, out, "Quotes evaluated: 2")
		assert.Contains(t, out, "delta: -8.00 pp")
		assert.Contains(t, out, "ALERT")
		assert.Contains(t, out, "ORC-0042")
		assert.Contains(t, out, "15.00")
	})

	t.Run("configured threshold", func(t *testing.T) {
		runner := &fakeRunner{margins: &audit.MarginAlertResult{CriticalQuotes: []audit.MarginAlert{}}}

		out, err := execute(t, runner.factory(), "margins", "--tenant", uuid.NewString())

		require.NoError(t, err)
		assert.Nil(t, runner.threshold)
		assert.Contains(t, out, "No quotes with projected and realized margins")
	})

	t.Run("invalid threshold", func(t *testing.T) {
		runner := &fakeRunner{margins: margins}

		_, err := execute(t, runner.factory(), "margins", "--tenant", uuid.NewString(), "--threshold", "ten")

		assert.ErrorContains(t, err, "invalid --threshold")
		assert.False(t, runner.released)
	})
}

func TestRootCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "auditctl.toml")
	require.NoError(t, os.WriteFile(path, []byte("[audit]\nmargin_threshold = -1\n"), 0o600))

	runner := &fakeRunner{margins: &audit.MarginAlertResult{}}
	_, err := execute(t, runner.factory(), "--config", path, "margins", "--tenant", uuid.NewString())

	assert.ErrorContains(t, err, "margin_threshold")
}

func TestRenderAudit_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderAudit(&buf, &audit.AuditResult{}))
	assert.Equal(t, "Findings: 0 (critical 0, high 0, medium 0)\n", buf.String())
}
