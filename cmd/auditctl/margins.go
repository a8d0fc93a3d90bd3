package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/gestor/backend/internal/domain/audit"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *cli) marginsCmd() *cobra.Command {
	var (
		tenant    string
		threshold string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "margins",
		Short: "Compare projected and realized margins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenantID, err := parseTenant(tenant)
			if err != nil {
				return err
			}

			var override *decimal.Decimal
			if threshold != "" {
				d, err := decimal.NewFromString(threshold)
				if err != nil {
					return fmt.Errorf("invalid --threshold %q: %w", threshold, err)
				}
				override = &d
			}

			ctx, cancel := c.commandContext(cmd.Context())
			defer cancel()

			runner, release, err := c.connect(ctx, c.cfg, c.log)
			if err != nil {
				return err
			}
			defer release()

			result, err := runner.ComputeMarginAlerts(ctx, tenantID, override)
			if err != nil {
				return err
			}
			c.log.Info("Margin check finished",
				zap.String("tenant_id", tenantID.String()),
				zap.Int("evaluated", result.EvaluatedCount),
				zap.Bool("portfolio_alert", result.PortfolioAlert),
			)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return renderMargins(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant UUID (required)")
	cmd.Flags().StringVar(&threshold, "threshold", "", "shortfall in percentage points (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}

func renderMargins(w io.Writer, result *audit.MarginAlertResult) error {
	if result.EvaluatedCount == 0 {
		fmt.Fprintln(w, "No quotes with projected and realized margins")
		return nil
	}

	fmt.Fprintf(w, "Quotes evaluated: %d\n", result.EvaluatedCount)
	fmt.Fprintf(w, "Average projected: %s%%  realized: %s%%  delta: %s pp\n",
		result.AverageProjected.StringFixed(2),
		result.AverageRealized.StringFixed(2),
		result.AverageDelta.StringFixed(2),
	)
	if result.PortfolioAlert {
		fmt.Fprintf(w, "ALERT: portfolio margin is more than %s pp below projection\n", result.Threshold.String())
	}
	if len(result.CriticalQuotes) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nCODE\tCLIENT\tPROJECTED\tREALIZED\tSHORTFALL")
	for _, a := range result.CriticalQuotes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			dash(a.Code),
			dash(a.ClientName),
			a.Projected.StringFixed(2),
			a.Realized.StringFixed(2),
			a.Shortfall.StringFixed(2),
		)
	}
	return tw.Flush()
}
