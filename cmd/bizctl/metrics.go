package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/bizdesk-api/internal/application/analytics"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/postgres"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/scheduler"
)

func newMetricsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Métricas de negocio",
	}

	var (
		period   string
		date     string
		previous bool
	)
	rollup := &cobra.Command{
		Use:   "rollup",
		Short: "Calcula y guarda las métricas de un periodo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := time.Now().UTC()
			switch {
			case previous:
				target = scheduler.PreviousPeriodDate(period, target)
			case date != "":
				d, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("--date debe tener formato YYYY-MM-DD: %w", err)
				}
				target = d
			}

			ctx := cmd.Context()
			dbs, err := e.databases(ctx)
			if err != nil {
				return err
			}
			defer dbs.CloseAll()

			svc := analytics.NewService(postgres.NewAnalyticsRepository(dbs.Analytics()), e.log)
			out, err := svc.GenerateBusinessMetrics(ctx, period, target)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, m := range out {
				fmt.Fprintf(w, "%-24s %12s  %s .. %s\n",
					m.MetricName, m.Value.String(),
					m.PeriodStart.Format(time.DateOnly), m.PeriodEnd.Format(time.DateOnly))
			}
			return nil
		},
	}
	rollup.Flags().StringVar(&period, "period", "daily", "daily, weekly o monthly")
	rollup.Flags().StringVar(&date, "date", "", "fecha dentro del periodo (YYYY-MM-DD); por defecto hoy")
	rollup.Flags().BoolVar(&previous, "previous", false, "usar el periodo anterior al actual")
	cmd.AddCommand(rollup)
	return cmd
}
