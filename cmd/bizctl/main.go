// bizctl herramienta de operación: migraciones, datos de demostración y rollups manuales.
//
// Uso:
//
//	bizctl migrate up|down|version [--set main]
//	bizctl seed --clients 20
//	bizctl metrics rollup --period daily --date 2025-01-31
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/bizdesk-api/internal/infrastructure/postgres"
	"github.com/jhoicas/bizdesk-api/pkg/config"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
)

// env configuración y logger compartidos por los subcomandos.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

// databases abre las bases configuradas. El llamador debe invocar CloseAll.
func (e *env) databases(ctx context.Context) (*postgres.Manager, error) {
	return postgres.NewManager(ctx, e.cfg.DB, e.log)
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "bizctl",
		Short:         "Operación de BizDesk: migraciones, semillas y métricas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("bizctl")
			return nil
		},
	}
	root.AddCommand(newMigrateCmd(e), newSeedCmd(e), newMetricsCmd(e))
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logger.New(logger.Config{}).Error().Err(err).Msg("bizctl")
		os.Exit(1)
	}
}
