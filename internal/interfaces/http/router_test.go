package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizdesk-api/internal/application/auth"
	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/application/usecase"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/cache"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/bizdesk-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/bizdesk-api/pkg/jwt"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
)

const adminID = "00000000-0000-0000-0000-0000000000aa"

// newTestServer monta el router completo sobre repositorios en memoria.
// Sin pasarela de pagos: las órdenes quedan en pending_payment sin intención.
// Siembra el admin y el cliente a cuyo nombre firma bearer.
func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	log := logger.Nop()
	users := memory.NewUserRepository()
	now := time.Now().UTC()
	require.NoError(t, users.Create(context.Background(), &entity.User{
		ID: adminID, Email: "admin@example.com", Role: entity.RoleAdmin, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, users.Create(context.Background(), &entity.User{
		ID: testUserID, Email: "user@example.com", PasswordHash: "x", Role: entity.RoleClient, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}))
	entities := memory.NewBusinessEntityRepository(users)
	auditor := usecase.NewAuditor(memory.NewAuditLogRepository(), log)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log, nil)})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(users, nil, auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}),
		ClientUC:   usecase.NewClientUseCase(users, entities, auditor),
		CheckoutUC: usecase.NewCheckoutUseCase(nil, cache.NewMemoryIdempotencyStore(), memory.NewTaxFilingOrderRepository(), entities, nil, log),
		Auditor:    auditor,

		JWTSecret:          testJWTSecret,
		LoginRatePerMinute: 100,
		ServiceName:        "bizdesk-test",
	})
	return app
}

func bearer(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, "user@example.com", role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func send(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAdminClients_CrearYListar(t *testing.T) {
	app := newTestServer(t)
	admin := bearer(t, adminID, "admin")

	resp := send(t, app, http.MethodPost, "/api/admin/clients", admin, dto.CreateClientRequest{
		FirstName: "Jane", LastName: "Doe", Email: "Jane@Example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.UserResponse](t, resp)
	assert.Equal(t, "jane@example.com", created.Email)
	assert.Equal(t, "client", created.Role)
	assert.True(t, created.IsActive)

	resp = send(t, app, http.MethodGet, "/api/admin/clients", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.ClientListResponse](t, resp)
	assert.EqualValues(t, 2, list.Page.Total)
	jane, ok := lo.Find(list.Items, func(u dto.UserResponse) bool { return u.ID == created.ID })
	require.True(t, ok)
	assert.Equal(t, "Jane", jane.FirstName)
}

func TestAdminClients_EmailDuplicado_Retorna409(t *testing.T) {
	app := newTestServer(t)
	admin := bearer(t, adminID, "admin")
	in := dto.CreateClientRequest{FirstName: "Jane", Email: "jane@example.com"}

	resp := send(t, app, http.MethodPost, "/api/admin/clients", admin, in)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = send(t, app, http.MethodPost, "/api/admin/clients", admin, in)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestAdminClients_SinNombre_Retorna400ConCampo(t *testing.T) {
	app := newTestServer(t)

	resp := send(t, app, http.MethodPost, "/api/admin/clients", bearer(t, adminID, "admin"),
		dto.CreateClientRequest{Email: "jane@example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Fields, "firstName")
}

func TestAdminClients_RolCliente_Retorna403(t *testing.T) {
	app := newTestServer(t)

	resp := send(t, app, http.MethodGet, "/api/admin/clients", bearer(t, testUserID, "client"), nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuth_SinToken_Retorna401ConPrefijo(t *testing.T) {
	app := newTestServer(t)

	resp := send(t, app, http.MethodGet, "/api/auth/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Regexp(t, `^401: Unauthorized`, decode[dto.ErrorResponse](t, resp).Message)
}

func TestAuth_RegistroYUsuarioActual(t *testing.T) {
	app := newTestServer(t)

	resp := send(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "owner@example.com", Password: "s3cret-pass", FirstName: "Olga",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, login.Token)

	resp = send(t, app, http.MethodGet, "/api/auth/user", "Bearer "+login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[dto.UserResponse](t, resp)
	assert.Equal(t, "owner@example.com", me.Email)
	assert.Equal(t, "client", me.Role)
}

func TestAuth_RegistroSobreClienteCreadoPorAdmin_Retorna409(t *testing.T) {
	app := newTestServer(t)
	admin := bearer(t, adminID, "admin")

	resp := send(t, app, http.MethodPost, "/api/admin/clients", admin, dto.CreateClientRequest{
		FirstName: "Jane", Email: "jane@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	jane := decode[dto.UserResponse](t, resp)

	resp = send(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "jane@example.com", Password: "attacker-pass", FirstName: "Mallory",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, resp).Code)

	resp = send(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "jane@example.com", Password: "attacker-pass"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = send(t, app, http.MethodGet, "/api/admin/clients/"+jane.ID, admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Jane", decode[dto.UserResponse](t, resp).FirstName)
}

func TestAuth_ActivacionConTokenDelAdmin(t *testing.T) {
	app := newTestServer(t)
	admin := bearer(t, adminID, "admin")

	resp := send(t, app, http.MethodPost, "/api/admin/clients", admin, dto.CreateClientRequest{
		FirstName: "Jane", Email: "jane@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	jane := decode[dto.UserResponse](t, resp)

	resp = send(t, app, http.MethodPost, "/api/admin/clients/"+jane.ID+"/activation-token", bearer(t, testUserID, "client"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = send(t, app, http.MethodPost, "/api/admin/clients/"+jane.ID+"/activation-token", admin, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	act := decode[dto.ActivationTokenResponse](t, resp)

	resp = send(t, app, http.MethodGet, "/api/auth/user", "Bearer "+act.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decode[dto.ErrorResponse](t, resp).Code)

	resp = send(t, app, http.MethodPost, "/api/auth/activate", "", dto.ActivateAccountRequest{Token: act.Token, Password: "s3cret-pass"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	assert.Equal(t, jane.ID, login.User.ID)

	resp = send(t, app, http.MethodPost, "/api/auth/activate", "", dto.ActivateAccountRequest{Token: act.Token, Password: "another-pass"})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = send(t, app, http.MethodGet, "/api/auth/user", "Bearer "+login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "jane@example.com", decode[dto.UserResponse](t, resp).Email)
}

func TestAuth_ClienteDesactivadoPierdeSesion_Retorna401(t *testing.T) {
	app := newTestServer(t)

	resp := send(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "owner@example.com", Password: "s3cret-pass", FirstName: "Olga",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)

	off := false
	resp = send(t, app, http.MethodPatch, "/api/admin/clients/"+login.User.ID+"/status", bearer(t, adminID, "admin"),
		dto.SetClientStatusRequest{IsActive: &off})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = send(t, app, http.MethodGet, "/api/auth/user", "Bearer "+login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "UNAUTHORIZED", body.Code)
	assert.Regexp(t, `^401: Unauthorized`, body.Message)

	resp = send(t, app, http.MethodPost, "/api/tax-filing/submit", "Bearer "+login.Token, dto.TaxFilingRequest{
		BusinessStructure: "llc", TaxYear: 2024, BusinessName: "Acme", ContactEmail: "owner@example.com",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_TokenDeUsuarioInexistente_Retorna401(t *testing.T) {
	app := newTestServer(t)

	resp := send(t, app, http.MethodGet, "/api/auth/user", bearer(t, "ghost", "client"), nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Regexp(t, `^401: Unauthorized`, decode[dto.ErrorResponse](t, resp).Message)
}

func TestTaxFiling_SCorpResuelvePlanEImporte(t *testing.T) {
	app := newTestServer(t)

	resp := send(t, app, http.MethodPost, "/api/tax-filing/submit", bearer(t, testUserID, "client"), dto.TaxFilingRequest{
		BusinessStructure: "s-corp",
		TaxYear:           2024,
		BusinessName:      "Acme Holdings",
		ShareholderInfo:   "Jane Doe 60%, John Doe 40%",
		ContactEmail:      "jane@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.TaxFilingResponse](t, resp)
	assert.Equal(t, "s-corp-tax-return", out.Plan)
	assert.Equal(t, "599", out.Amount.String())
	assert.Equal(t, "pending_payment", out.Status)
}

func TestTaxFiling_SCorpSinShareholderInfo_Retorna400(t *testing.T) {
	app := newTestServer(t)

	resp := send(t, app, http.MethodPost, "/api/tax-filing/submit", bearer(t, testUserID, "client"), dto.TaxFilingRequest{
		BusinessStructure: "s-corp",
		TaxYear:           2024,
		BusinessName:      "Acme Holdings",
		ContactEmail:      "jane@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Contains(t, body.Fields, "shareholderInfo")
}

func TestReference_TarifaDesconocida_Retorna404(t *testing.T) {
	app := newTestServer(t)

	resp := send(t, app, http.MethodGet, "/api/reference/state-fees/Texas/Cooperative", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = send(t, app, http.MethodGet, "/api/reference/state-fees/TX/LLC", "", nil)
	fee := decode[dto.StateFeeResponse](t, resp)
	assert.Equal(t, "Texas", fee.State)
}

func TestHealth_Liveness(t *testing.T) {
	app := newTestServer(t)

	resp := send(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "bizdesk-test", body["service"])
}

func TestSystemHealth_SinBaseDeDatos_Retorna503(t *testing.T) {
	app := newTestServer(t)

	resp := send(t, app, http.MethodGet, "/api/system/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "down", decode[dto.SystemHealthResponse](t, resp).Status)
}
