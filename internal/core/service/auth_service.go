package service

import (
	"context"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopcraft/shop-api/internal/api/metrics"
	"github.com/shopcraft/shop-api/internal/core/domain"
	"github.com/shopcraft/shop-api/internal/core/ports"
)

const minPasswordLength = 8

// AuthService implements registration, login, and role assignment.
type AuthService struct {
	repo   ports.AuthRepository
	issuer *TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, issuer *TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, issuer: issuer, log: log}
}

// Register creates a new identity holding the "User" role. The raw password
// is checked against the strength policy and stored only as a bcrypt hash.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if username == "" || email == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !strongPassword(password) {
		return nil, domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.Inc()
	s.log.Info().Str("email", created.Email).Msg("user registered")
	return created, nil
}

// Login verifies the credentials and returns a signed bearer token. An
// unknown email and a wrong password fail differently on purpose: the HTTP
// layer maps them to 400 and 401 respectively, matching the public contract.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("unknown_email").Inc()
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("bad_password").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.Inc()
	return token, user, nil
}

// AssignRole grants an additional role to an existing user.
func (s *AuthService) AssignRole(ctx context.Context, email, role string) error {
	if !domain.ValidRole(role) {
		return domain.ErrInvalidRole
	}
	if err := s.repo.AddRole(ctx, email, role); err != nil {
		return err
	}
	s.log.Info().Str("email", email).Str("role", role).Msg("role assigned")
	return nil
}

// strongPassword applies the registration password policy: at least eight
// characters containing an upper-case letter, a lower-case letter, a digit,
// and a symbol.
func strongPassword(pw string) bool {
	if len(pw) < minPasswordLength {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
