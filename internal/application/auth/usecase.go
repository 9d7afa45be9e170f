package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/bizdesk-api/internal/application/analytics"
	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
	"github.com/jhoicas/bizdesk-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// RequestMeta datos de la petición HTTP que acompañan al evento de login.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	tracker  *analytics.Tracker
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, tracker *analytics.Tracker, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, tracker: tracker, jwtCfg: jwtCfg}
}

// ActivationTTL vigencia de los tokens de activación emitidos por un admin.
const ActivationTTL = 72 * time.Hour

// RegisterUser crea un cliente con password bcrypt y devuelve token + usuario.
// Cualquier email ya registrado devuelve ErrEmailAlreadyExists, incluidos los clientes
// dados de alta por un admin: esos se activan con Activate.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PhoneNumber:  in.PhoneNumber,
		CompanyName:  in.CompanyName,
		Role:         entity.RoleClient,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.tracker.TrackUserActivity(entity.UserActivity{UserID: user.ID, Action: "register", Resource: "auth"})
	return uc.issue(user)
}

// IssueActivation emite el token con el que un cliente creado por un admin fija su password.
func (uc *AuthUseCase) IssueActivation(ctx context.Context, userID string) (*dto.ActivationTokenResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.PasswordHash != "" {
		return nil, fmt.Errorf("%w: account already activated", domain.ErrConflict)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", domain.ErrConflict)
	}
	token, exp, err := jwt.GenerateActivation(uc.jwtCfg.Secret, user.ID, user.Email, uc.jwtCfg.Issuer, ActivationTTL)
	if err != nil {
		return nil, err
	}
	return &dto.ActivationTokenResponse{Token: token, ExpiresAt: exp.UTC()}, nil
}

// Activate fija el password de una cuenta pendiente y abre sesión.
// El token deja de servir en cuanto la cuenta tiene password.
func (uc *AuthUseCase) Activate(ctx context.Context, in dto.ActivateAccountRequest) (*dto.LoginResponse, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, in.Token)
	if err != nil || claims.Purpose != jwt.PurposeActivation {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !strings.EqualFold(user.Email, claims.Email) {
		return nil, domain.ErrUnauthorized
	}
	if user.PasswordHash != "" {
		return nil, fmt.Errorf("%w: account already activated", domain.ErrConflict)
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	uc.tracker.TrackUserActivity(entity.UserActivity{UserID: user.ID, Action: "activate", Resource: "auth"})
	return uc.issue(user)
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email desconocido y password incorrecto devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest, meta RequestMeta) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}

	uc.tracker.TrackUserActivity(entity.UserActivity{
		UserID:    user.ID,
		Action:    "login",
		Resource:  "auth",
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})
	return uc.issue(user)
}

// CurrentUser devuelve el usuario del token. Una cuenta desactivada ya no tiene sesión.
func (uc *AuthUseCase) CurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	return ToUserResponse(user), nil
}

// IsActive indica si el usuario existe y sigue activo. Lo consulta el middleware en cada petición.
func (uc *AuthUseCase) IsActive(ctx context.Context, userID string) (bool, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user != nil && user.IsActive, nil
}

func (uc *AuthUseCase) issue(user *entity.User) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *ToUserResponse(user)}, nil
}

// ToUserResponse mapea la entidad a su DTO (sin password).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		CompanyName: u.CompanyName,
		Role:        u.Role,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
