package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
	"github.com/ironhealth/clinic-api/internal/core/validation"
	"github.com/ironhealth/clinic-api/internal/pkg/metrics"
)

const passwordCost = 12

// AuthService issues and verifies tokens and manages credentials. It also
// provisions the accounts behind new patients and professionals.
type AuthService struct {
	users     ports.UserRepository
	profiles  ports.ProfileResolver
	validator *validation.Validator
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	profiles ports.ProfileResolver,
	validator *validation.Validator,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		profiles:  profiles,
		validator: validator,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
		now:       time.Now,
	}
}

// Login verifies credentials against an active account. Unknown email,
// wrong password and disabled account all yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.Session, error) {
	session, err := s.login(ctx, in)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return session, nil
}

func (s *AuthService) login(ctx context.Context, in ports.LoginInput) (*ports.Session, error) {
	in.Normalize()
	if err := s.validator.Struct(&in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	identity, err := s.identityFor(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("login: sign token: %w", err)
	}
	return &ports.Session{Token: token, Identity: *identity}, nil
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}

	userID, _ := claims["id"].(string)
	if userID == "" {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidToken
	}

	return s.identityFor(ctx, user)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, in ports.ChangePasswordInput) error {
	if err := s.validator.Struct(&in); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return domain.ErrIncorrectPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), passwordCost)
	if err != nil {
		return fmt.Errorf("change password: hash: %w", err)
	}
	return s.users.UpdatePassword(ctx, user.ID, string(hash))
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	active := make([]*domain.User, 0, len(users))
	for _, u := range users {
		if u.IsActive {
			active = append(active, u)
		}
	}
	return active, nil
}

// Provision creates an active account with a bcrypt-hashed password.
func (s *AuthService) Provision(ctx context.Context, email, password, role string, profile *domain.ProfileRef) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return nil, fmt.Errorf("provision user: hash: %w", err)
	}

	now := s.now().UTC()
	return s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Profile:      profile,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// SeedAdmin creates the admin account unless one with that email exists.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	in := ports.LoginInput{Email: email, Password: password}
	in.Normalize()
	if err := s.validator.Struct(&in); err != nil {
		return false, err
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	if exists {
		return false, nil
	}
	if _, err := s.Provision(ctx, in.Email, in.Password, domain.RoleAdmin, nil); err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	return true, nil
}

// identityFor resolves the caller's profile document. Admins have none; a
// dangling profile reference leaves Profile nil rather than failing.
func (s *AuthService) identityFor(ctx context.Context, user *domain.User) (*domain.Identity, error) {
	identity := &domain.Identity{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		ProfileID: user.ProfileID(),
	}
	if user.Role == domain.RoleAdmin || user.Profile == nil {
		return identity, nil
	}

	profile, err := s.profiles.Resolve(ctx, *user.Profile)
	switch {
	case errors.Is(err, domain.ErrPatientNotFound), errors.Is(err, domain.ErrProfessionalNotFound):
		s.log.Warn().Str("user_id", user.ID).Str("profile_id", user.Profile.ID).Msg("profile reference is dangling")
	case err != nil:
		return nil, fmt.Errorf("resolve profile: %w", err)
	default:
		identity.Profile = profile
	}
	return identity, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"id":        user.ID,
		"role":      user.Role,
		"profileId": user.ProfileID(),
		"iat":       now.Unix(),
		"exp":       now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
