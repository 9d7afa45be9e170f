package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizdesk-api/internal/application/ports"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/memory"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
)

var admin = Actor{UserID: "admin-1", Role: entity.RoleAdmin, IPAddress: "10.0.0.1"}

// fixture repos en memoria compartidos por los casos de uso de cada test.
type fixture struct {
	users    *memory.UserRepository
	entities *memory.BusinessEntityRepository
	audit    *memory.AuditLogRepository
	auditor  *Auditor
}

func newFixture() *fixture {
	users := memory.NewUserRepository()
	audit := memory.NewAuditLogRepository()
	return &fixture{
		users:    users,
		entities: memory.NewBusinessEntityRepository(users),
		audit:    audit,
		auditor:  NewAuditor(audit, logger.Nop()),
	}
}

func (f *fixture) client(t *testing.T, email string) Actor {
	t.Helper()
	u := &entity.User{ID: uuid.New().String(), Email: email, FirstName: "Test", Role: entity.RoleClient, IsActive: true, CreatedAt: time.Now()}
	require.NoError(t, f.users.Create(context.Background(), u))
	return Actor{UserID: u.ID, Role: entity.RoleClient}
}

func (f *fixture) business(t *testing.T, owner Actor, state, entityType string) *entity.BusinessEntity {
	t.Helper()
	e := &entity.BusinessEntity{
		ID:          uuid.New().String(),
		OwnerUserID: owner.UserID,
		LegalName:   "Acme " + state,
		EntityType:  entityType,
		State:       state,
		Status:      entity.EntityStatusActive,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, f.entities.Create(context.Background(), e))
	return e
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

// fakeGateway pasarela de pagos en memoria.
type fakeGateway struct {
	mu      sync.Mutex
	intents map[string]*ports.PaymentIntent
	calls   int
}

func newFakeGateway() *fakeGateway { return &fakeGateway{intents: map[string]*ports.PaymentIntent{}} }

func (g *fakeGateway) CreatePaymentIntent(_ context.Context, req ports.PaymentIntentRequest) (*ports.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	id := fmt.Sprintf("pi_%d", g.calls)
	pi := &ports.PaymentIntent{ID: id, ClientSecret: id + "_secret", Amount: req.Amount, Currency: "usd", Status: "requires_payment_method"}
	g.intents[id] = pi
	cp := *pi
	return &cp, nil
}

func (g *fakeGateway) GetPaymentIntent(_ context.Context, id string) (*ports.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	pi, ok := g.intents[id]
	if !ok {
		return nil, fmt.Errorf("no such payment intent %s", id)
	}
	cp := *pi
	return &cp, nil
}

func (g *fakeGateway) PublishableKey() string { return "pk_test_123" }

func (g *fakeGateway) settle(id string, amount decimal.Decimal) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents[id].Status = "succeeded"
	g.intents[id].Amount = amount
}

// fakeReceipts devuelve un PDF mínimo.
type fakeReceipts struct{}

func (fakeReceipts) AnnualReportReceipt(context.Context, *entity.AnnualReport, *entity.BusinessEntity) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}
