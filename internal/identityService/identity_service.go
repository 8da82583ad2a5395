package identity

import (
	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/utils"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores input past 72 bytes, so longer passwords are refused.
const maxPasswordBytes = 72

// SessionClaims is the payload of a signed session cookie
type SessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// IdentityService handles registration, credential checks and principal resolution
type IdentityService struct {
	store         repository.UserStore
	sessionSecret []byte
	sessionTTL    time.Duration
	hashCost      int
	now           func() time.Time
	validate      *validator.Validate
}

// Option customizes an IdentityService
type Option func(*IdentityService)

// WithHashCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *IdentityService) { s.hashCost = cost }
}

// WithClock overrides the time source used for timestamps and session expiry.
func WithClock(now func() time.Time) Option {
	return func(s *IdentityService) { s.now = now }
}

// NewIdentityService creates a new IdentityService instance
func NewIdentityService(store repository.UserStore, sessionSecret string, sessionTTL time.Duration, opts ...Option) *IdentityService {
	s := &IdentityService{
		store:         store,
		sessionSecret: []byte(sessionSecret),
		sessionTTL:    sessionTTL,
		hashCost:      bcrypt.DefaultCost,
		now:           time.Now,
		validate:      validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a regular user and returns it with its first token
func (s *IdentityService) Register(ctx context.Context, username, email, password string) (models.User, string, error) {
	return s.CreateUser(ctx, username, email, password, false)
}

// CreateUser creates a user with the given staff flag. Only the CLI creates admins.
func (s *IdentityService) CreateUser(ctx context.Context, username, email, password string, isAdmin bool) (models.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := s.validateRegistration(username, email, password); err != nil {
		return models.User{}, "", err
	}

	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return models.User{}, "", fmt.Errorf("service: %w - %q is taken", auctionerrors.ErrDuplicateUsername, username)
	} else if !errors.Is(err, auctionerrors.ErrUserNotFound) {
		return models.User{}, "", fmt.Errorf("service: failed to check username %q: %w", username, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("service: hash password: %w", err)
	}

	token, err := utils.GenerateToken()
	if err != nil {
		return models.User{}, "", fmt.Errorf("service: %w", err)
	}

	user := models.User{
		UserID:       utils.GenerateID(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
		DateJoined:   s.now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user, token); err != nil {
		return models.User{}, "", fmt.Errorf("service: failed to create user %q: %w", username, err)
	}

	utils.Info("user registered", map[string]any{"user_id": user.UserID, "username": username, "is_admin": isAdmin})
	return user, token, nil
}

// validateRegistration checks input validity for a new account
func (s *IdentityService) validateRegistration(username, email, password string) error {
	if !models.IsValidUsername(username) {
		return fmt.Errorf("service: %w - username must be 1-%d letters, digits or @.+-_", auctionerrors.ErrValidation, models.MaxUsernameLength)
	}
	if err := s.validate.Var(email, fmt.Sprintf("required,email,max=%d", models.MaxEmailLength)); err != nil {
		return fmt.Errorf("service: %w - invalid email address", auctionerrors.ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("service: %w - password is required", auctionerrors.ErrValidation)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("service: %w - password longer than %d bytes", auctionerrors.ErrValidation, maxPasswordBytes)
	}
	return nil
}

// Login checks credentials and returns the user's token, creating one if none exists
func (s *IdentityService) Login(ctx context.Context, username, password string) (models.User, string, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, auctionerrors.ErrUserNotFound) {
			return models.User{}, "", fmt.Errorf("service: %w", auctionerrors.ErrInvalidCredentials)
		}
		return models.User{}, "", fmt.Errorf("service: failed to load user %q: %w", username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, "", fmt.Errorf("service: %w", auctionerrors.ErrInvalidCredentials)
	}

	candidate, err := utils.GenerateToken()
	if err != nil {
		return models.User{}, "", fmt.Errorf("service: %w", err)
	}

	token, err := s.store.GetOrCreateToken(ctx, user.UserID, candidate)
	if err != nil {
		return models.User{}, "", fmt.Errorf("service: failed to get token for %q: %w", username, err)
	}
	return user, token, nil
}

// VerifyToken resolves an API token to its user
func (s *IdentityService) VerifyToken(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, fmt.Errorf("service: %w - empty token", auctionerrors.ErrUnauthorized)
	}
	user, err := s.store.GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrUserNotFound) {
			return models.User{}, fmt.Errorf("service: %w - unknown token", auctionerrors.ErrUnauthorized)
		}
		return models.User{}, fmt.Errorf("service: failed to verify token: %w", err)
	}
	return user, nil
}

// IssueSession signs a session value for the user and returns it with its expiry
func (s *IdentityService) IssueSession(user models.User) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.sessionTTL)
	claims := &SessionClaims{
		UserID: user.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.sessionSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("service: sign session: %w", err)
	}
	return signed, exp, nil
}

// VerifySession validates a session value and loads its user
func (s *IdentityService) VerifySession(ctx context.Context, value string) (models.User, error) {
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.sessionSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return models.User{}, fmt.Errorf("service: %w - invalid session", auctionerrors.ErrUnauthorized)
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrUserNotFound) {
			return models.User{}, fmt.Errorf("service: %w - session user no longer exists", auctionerrors.ErrUnauthorized)
		}
		return models.User{}, fmt.Errorf("service: failed to load session user: %w", err)
	}
	return user, nil
}

// GetUser returns a user with the ids of the listings they own
func (s *IdentityService) GetUser(ctx context.Context, userID string) (models.UserProfile, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("service: failed to get user %s: %w", userID, err)
	}
	return s.profile(ctx, user)
}

// ListUsers returns every user with their listing ids
func (s *IdentityService) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list users: %w", err)
	}

	profiles := make([]models.UserProfile, 0, len(users))
	for _, u := range users {
		p, err := s.profile(ctx, u)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (s *IdentityService) profile(ctx context.Context, user models.User) (models.UserProfile, error) {
	ids, err := s.store.GetListingIDsByOwner(ctx, user.UserID)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("service: failed to get listings of %s: %w", user.UserID, err)
	}
	return models.UserProfile{User: user, ListingIDs: ids}, nil
}
