package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/gestor/backend/internal/domain/audit"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *cli) auditCmd() *cobra.Command {
	var (
		tenant  string
		asJSON  bool
		xlsxOut string
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Cross-check quotes, orders, receivables and commissions",
		Example: `  auditctl audit --tenant 0b7c...
  auditctl audit --tenant 0b7c... --xlsx auditoria.xlsx`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenantID, err := parseTenant(tenant)
			if err != nil {
				return err
			}

			ctx, cancel := c.commandContext(cmd.Context())
			defer cancel()

			runner, release, err := c.connect(ctx, c.cfg, c.log)
			if err != nil {
				return err
			}
			defer release()

			var result *audit.AuditResult
			if xlsxOut != "" {
				result, err = exportAudit(ctx, runner, tenantID, xlsxOut)
			} else {
				result, err = runner.RunConsistencyAudit(ctx, tenantID)
			}
			if err != nil {
				return err
			}
			c.log.Info("Consistency audit finished",
				zap.String("tenant_id", tenantID.String()),
				zap.Int("findings", result.Summary.Total),
			)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return renderAudit(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant UUID (required)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&xlsxOut, "xlsx", "", "also write the report workbook to this file")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}

// exportAudit writes the workbook to path. A partially written file is
// removed when the export fails.
func exportAudit(ctx context.Context, runner auditRunner, tenantID uuid.UUID, path string) (*audit.AuditResult, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	result, err := runner.ExportConsistencyAudit(ctx, tenantID, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close %s: %w", path, closeErr)
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	return result, nil
}

func renderAudit(w io.Writer, result *audit.AuditResult) error {
	s := result.Summary
	fmt.Fprintf(w, "Findings: %d (critical %d, high %d, medium %d)\n", s.Total, s.Critical, s.High, s.Medium)
	if s.Total == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nSEVERITY\tKIND\tREFERENCE\tCODE\tCLIENT\tAMOUNT\tDESCRIPTION")
	for _, f := range result.Findings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			f.Severity,
			f.Kind,
			f.ReferenceType+":"+f.ReferenceID.String()[:8],
			dash(f.Payload.Code),
			dash(f.Payload.ClientName),
			f.Payload.Amount.StringFixed(2),
			f.Description,
		)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseTenant(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid --tenant %q: must be a non-nil UUID", raw)
	}
	return id, nil
}

// commandContext bounds a command by the configured audit timeout
func (c *cli) commandContext(parent context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.Audit.Timeout > 0 {
		return context.WithTimeout(parent, c.cfg.Audit.Timeout)
	}
	return context.WithCancel(parent)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
