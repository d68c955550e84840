package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vncsmyrnk/democrasee/internal/core/domain"
	"github.com/vncsmyrnk/democrasee/internal/core/ports"
)

const defaultSessionTTL = 24 * time.Hour

type IdentityConfig struct {
	JWTSigningKey string
	SessionTTL    time.Duration
	AdminUsername string
	AdminPassword string
}

// IdentityService manages user records and bearer sessions. Passwords are
// stored as bcrypt hashes; tokens are HS256 JWTs whose SHA-256 digests back
// revocable session records, so any number of sessions can be live at once.
type IdentityService struct {
	userRepo    ports.UserRepository
	sessionRepo ports.SessionRepository
	conf        IdentityConfig
	now         func() time.Time
}

func NewIdentityService(userRepo ports.UserRepository, sessionRepo ports.SessionRepository, conf IdentityConfig) *IdentityService {
	if conf.SessionTTL <= 0 {
		conf.SessionTTL = defaultSessionTTL
	}
	return &IdentityService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		conf:        conf,
		now:         time.Now,
	}
}

// Bootstrap seeds the configured administrator when no user carries that
// username yet. Safe to call on every startup.
func (s *IdentityService) Bootstrap(ctx context.Context) error {
	_, err := s.userRepo.GetByUsername(ctx, s.conf.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("failed to look up administrator: %w", err)
	}

	admin, err := s.bootstrapAdmin()
	if err != nil {
		return err
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil
		}
		return fmt.Errorf("failed to create administrator: %w", err)
	}
	return nil
}

func (s *IdentityService) Register(ctx context.Context, username, secret string, isAdmin bool) (domain.User, error) {
	if err := validation.Validate(username, validation.Required, validation.Length(3, 50)); err != nil {
		return domain.User{}, fmt.Errorf("invalid username: %w", err)
	}
	// bcrypt caps input at 72 bytes.
	if err := validation.Validate(secret, validation.Required, validation.Length(6, 72)); err != nil {
		return domain.User{}, fmt.Errorf("invalid secret: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to hash secret: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return *user, nil
}

// Login verifies the secret and issues a bearer token. The same error covers
// unknown usernames and wrong secrets so neither field is disclosed.
func (s *IdentityService) Login(ctx context.Context, username, secret string) (string, domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.User{}, domain.ErrInvalidCredentials
		}
		return "", domain.User{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret)); err != nil {
		return "", domain.User{}, domain.ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	now := s.now().UTC()
	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(token),
		ExpiresAt: now.Add(s.conf.SessionTTL),
		Revoked:   false,
		CreatedAt: now,
	}
	if err := s.sessionRepo.Store(ctx, session); err != nil {
		return "", domain.User{}, fmt.Errorf("failed to store session: %w", err)
	}

	return token, *user, nil
}

// Logout revokes the token's session. Unknown tokens are a no-op.
func (s *IdentityService) Logout(ctx context.Context, token string) error {
	session, err := s.sessionRepo.GetByTokenHash(ctx, hashToken(token))
	if err != nil {
		return fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil {
		return nil
	}
	return s.sessionRepo.Revoke(ctx, session.ID)
}

// WhoAmI resolves a bearer token to its user, failing closed with
// domain.ErrNotAuthenticated on any invalid, revoked, or expired token.
func (s *IdentityService) WhoAmI(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, domain.ErrNotAuthenticated
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.conf.JWTSigningKey), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return domain.User{}, domain.ErrNotAuthenticated
	}

	session, err := s.sessionRepo.GetByTokenHash(ctx, hashToken(token))
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil || session.Revoked || s.now().After(session.ExpiresAt) {
		return domain.User{}, domain.ErrNotAuthenticated
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, domain.ErrNotAuthenticated
		}
		return domain.User{}, fmt.Errorf("failed to look up user: %w", err)
	}
	return *user, nil
}

// ResetAllExceptAdministrator replaces the whole user set with a fresh
// bootstrap administrator record and invalidates every session.
func (s *IdentityService) ResetAllExceptAdministrator(ctx context.Context, token string) error {
	if _, err := requireAdmin(ctx, s, token); err != nil {
		return err
	}

	admin, err := s.bootstrapAdmin()
	if err != nil {
		return err
	}
	return s.userRepo.ResetAll(ctx, admin)
}

func (s *IdentityService) bootstrapAdmin() (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(s.conf.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash administrator secret: %w", err)
	}
	return &domain.User{
		ID:           uuid.New(),
		Username:     s.conf.AdminUsername,
		PasswordHash: string(hash),
		IsAdmin:      true,
		CreatedAt:    s.now().UTC(),
	}, nil
}

func (s *IdentityService) generateAccessToken(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"admin":    user.IsAdmin,
		"exp":      now.Add(s.conf.SessionTTL).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.conf.JWTSigningKey))
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
