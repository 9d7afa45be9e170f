// Package seed genera datos de demostración pasando por los casos de uso, así que
// respeta las mismas reglas (estados canónicos, tarifas, suscripción activa) que la API.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/application/usecase"
	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/reference"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
)

// Deps casos de uso que alimenta el seeder.
type Deps struct {
	Clients  *usecase.ClientUseCase
	Entities *usecase.BusinessEntityUseCase
	Catalog  *usecase.CatalogUseCase
	Reports  *usecase.AnnualReportUseCase
	Mailbox  *usecase.MailboxUseCase
}

// Options tamaño de la siembra. Seed 0 = aleatoria.
type Options struct {
	Clients         int
	EntitiesPerUser int
	MailPerEntity   int
	Catalog         bool
	Seed            uint64
}

// Summary conteo de lo creado.
type Summary struct {
	Plans     int
	Services  int
	Clients   int
	Entities  int
	Reports   int
	MailItems int
}

// ActorID identidad con la que la siembra firma la auditoría.
const ActorID = "bizctl-seed"

var mailCategories = []string{"legal", "tax", "government", "financial", "general", "marketing"}

var catalogPlans = []dto.PlanRequest{
	{Name: "Starter", Price: decimal.NewFromInt(49), BillingCycle: "monthly", Features: []string{"Registered agent", "Annual report reminders"}, SortOrder: 1},
	{Name: "Growth", Price: decimal.NewFromInt(99), BillingCycle: "monthly", Features: []string{"Annual report filing", "Digital mailbox"}, SortOrder: 2},
	{Name: "Premium", Price: decimal.NewFromInt(199), BillingCycle: "monthly", Features: []string{"Bookkeeping", "Tax filing", "Priority support"}, SortOrder: 3},
}

var catalogServices = []dto.ServiceRequest{
	{Name: "Registered Agent", Category: "compliance", Price: decimal.NewFromInt(125)},
	{Name: "Annual Report Filing", Category: "compliance", Price: decimal.NewFromInt(99)},
	{Name: "EIN Application", Category: "formation", Price: decimal.NewFromInt(79)},
	{Name: "Digital Mailbox", Category: "mail", Price: decimal.RequireFromString("9.99")},
}

// Run siembra catálogo, clientes, entidades, reportes del año en curso y correo.
func Run(ctx context.Context, deps Deps, opts Options, log *logger.Logger) (Summary, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("seed")
	if opts.EntitiesPerUser <= 0 {
		opts.EntitiesPerUser = 1
	}
	f := gofakeit.New(opts.Seed)
	admin := usecase.Actor{UserID: ActorID, Role: entity.RoleAdmin}
	var sum Summary

	if opts.Catalog {
		if err := seedCatalog(ctx, deps.Catalog, admin, &sum); err != nil {
			return sum, err
		}
	}

	year := time.Now().UTC().Year()
	states := reference.States()
	for i := 0; i < opts.Clients; i++ {
		client, err := deps.Clients.Create(ctx, admin, dto.CreateClientRequest{
			FirstName:   f.FirstName(),
			LastName:    f.LastName(),
			Email:       f.Email(),
			PhoneNumber: f.Phone(),
			CompanyName: f.Company(),
		})
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			log.Debug().Msg("email repetido, se omite el cliente")
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("seed: cliente: %w", err)
		}
		sum.Clients++

		for j := 0; j < opts.EntitiesPerUser; j++ {
			state := f.RandomString(states)
			types := reference.GetStateEntityTypes(state)
			if len(types) == 0 {
				continue
			}
			be, err := deps.Entities.Create(ctx, admin, dto.CreateBusinessEntityRequest{
				OwnerUserID:   client.ID,
				LegalName:     f.Company() + " " + f.CompanySuffix(),
				EntityType:    f.RandomString(types),
				State:         state,
				FormationDate: f.DateRange(time.Now().AddDate(-10, 0, 0), time.Now().AddDate(0, -1, 0)).Format("2006-01-02"),
			})
			if err != nil {
				return sum, fmt.Errorf("seed: entidad: %w", err)
			}
			sum.Entities++

			if _, err := deps.Reports.Create(ctx, admin, dto.CreateAnnualReportRequest{
				BusinessEntityID: be.ID,
				FilingYear:       year,
				RequiredFields:   map[string]string{"principalAddress": f.Street() + ", " + f.City()},
			}); err != nil {
				log.Warn().Err(err).Str("state", be.State).Str("entity_type", be.EntityType).Msg("reporte anual omitido")
			} else {
				sum.Reports++
			}

			if opts.MailPerEntity <= 0 {
				continue
			}
			if _, err := deps.Mailbox.Subscribe(ctx, admin, be.ID, dto.CreateMailboxSubscriptionRequest{
				Plan:              f.RandomString([]string{"basic", "premium", "business"}),
				ForwardingAddress: f.Street() + ", " + f.City() + " " + f.Zip(),
			}); err != nil {
				return sum, fmt.Errorf("seed: buzón: %w", err)
			}
			for k := 0; k < opts.MailPerEntity; k++ {
				if _, err := deps.Mailbox.AdminCreateItem(ctx, admin, dto.CreateMailItemRequest{
					BusinessEntityID: be.ID,
					Sender:           f.Company(),
					Subject:          f.Sentence(5),
					Category:         f.RandomString(mailCategories),
					Priority:         f.RandomString([]string{"low", "normal", "high", "urgent"}),
					ReceivedAt:       f.DateRange(time.Now().AddDate(0, -2, 0), time.Now()).Format("2006-01-02"),
				}, nil); err != nil {
					return sum, fmt.Errorf("seed: correo: %w", err)
				}
				sum.MailItems++
			}
		}
	}
	log.Info().
		Int("clients", sum.Clients).
		Int("entities", sum.Entities).
		Int("reports", sum.Reports).
		Int("mail_items", sum.MailItems).
		Msg("siembra completada")
	return sum, nil
}

func seedCatalog(ctx context.Context, catalog *usecase.CatalogUseCase, admin usecase.Actor, sum *Summary) error {
	services := make([]*dto.ServiceResponse, 0, len(catalogServices))
	for _, in := range catalogServices {
		s, err := catalog.CreateService(ctx, admin, in)
		if err != nil {
			return fmt.Errorf("seed: servicio %s: %w", in.Name, err)
		}
		services = append(services, s)
		sum.Services++
	}
	for i, in := range catalogPlans {
		p, err := catalog.CreatePlan(ctx, admin, in)
		if err != nil {
			return fmt.Errorf("seed: plan %s: %w", in.Name, err)
		}
		sum.Plans++
		// cada plan incluye los primeros i+2 servicios
		for _, s := range lo.Slice(services, 0, i+2) {
			if _, err := catalog.CreatePlanService(ctx, admin, dto.CreatePlanServiceRequest{
				PlanID:    p.ID,
				ServiceID: s.ID,
			}); err != nil {
				return fmt.Errorf("seed: plan %s / servicio %s: %w", p.Name, s.Name, err)
			}
		}
	}
	return nil
}
