package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/bizdesk-api/internal/application/usecase"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/postgres"
	"github.com/jhoicas/bizdesk-api/internal/seed"
)

func newSeedCmd(e *env) *cobra.Command {
	var opts seed.Options
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Carga datos de demostración (catálogo, clientes, entidades, correo)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			dbs, err := e.databases(ctx)
			if err != nil {
				return err
			}
			defer dbs.CloseAll()

			users := postgres.NewUserRepository(dbs.Main())
			entities := postgres.NewBusinessEntityRepository(dbs.Main())
			auditor := usecase.NewAuditor(postgres.NewAuditLogRepository(dbs.Compliance()), e.log)

			sum, err := seed.Run(ctx, seed.Deps{
				Clients:  usecase.NewClientUseCase(users, entities, auditor),
				Entities: usecase.NewBusinessEntityUseCase(entities, users, auditor),
				Catalog: usecase.NewCatalogUseCase(
					postgres.NewPlanRepository(dbs.Main()),
					postgres.NewServiceRepository(dbs.Main()),
					postgres.NewPlanServiceRepository(dbs.Main()),
					auditor,
				),
				Reports: usecase.NewAnnualReportUseCase(postgres.NewAnnualReportRepository(dbs.Main()), entities, nil, auditor),
				Mailbox: usecase.NewMailboxUseCase(postgres.NewMailboxRepository(dbs.Main()), entities, nil, auditor),
			}, opts, e.log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"planes=%d servicios=%d clientes=%d entidades=%d reportes=%d correo=%d\n",
				sum.Plans, sum.Services, sum.Clients, sum.Entities, sum.Reports, sum.MailItems)
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.Clients, "clients", 10, "clientes a crear")
	f.IntVar(&opts.EntitiesPerUser, "entities", 2, "entidades por cliente")
	f.IntVar(&opts.MailPerEntity, "mail", 3, "piezas de correo por entidad (0 = sin buzón)")
	f.BoolVar(&opts.Catalog, "catalog", false, "crear también planes y servicios")
	f.Uint64Var(&opts.Seed, "seed", 0, "semilla del generador (0 = aleatoria)")
	return cmd
}
