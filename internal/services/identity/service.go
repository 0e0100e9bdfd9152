package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/mail"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/velatum/bellum/internal/dependencies/clock"
	"github.com/velatum/bellum/internal/model"
	"github.com/velatum/bellum/internal/store"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrEmailExists        = errors.New("an account with this email already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

const minPasswordLength = 6

// Login is an authenticated bearer session
type Login struct {
	Token     string
	AccountID model.AccountID
	Account   model.Account
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service is the identity provider: account creation, sign-in/out,
// current-user lookup and password reset. Accounts persist in the
// store; bearer sessions live in memory for their lifetime.
type Service struct {
	store  store.Store
	clock  clock.Clock
	logger *slog.Logger

	mu     sync.RWMutex
	logins map[string]*Login

	sessionDuration time.Duration
	resetDuration   time.Duration
}

// Config holds configuration for the identity service
type Config struct {
	SessionDuration time.Duration
	ResetDuration   time.Duration
}

// DefaultConfig returns default identity configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		ResetDuration:   time.Hour,
	}
}

// New creates a new identity Service
func New(store store.Store, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	if cfg.ResetDuration == 0 {
		cfg.ResetDuration = DefaultConfig().ResetDuration
	}
	return &Service{
		store:           store,
		clock:           clock,
		logger:          logger.With(slog.String("component", "identity")),
		logins:          make(map[string]*Login),
		sessionDuration: cfg.SessionDuration,
		resetDuration:   cfg.ResetDuration,
	}
}

// CreateAccount registers a new account and signs it in
func (s *Service) CreateAccount(ctx context.Context, email, password string) (*Login, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	// Check if the email is taken
	_, err := s.store.GetAccountByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		ID:           model.AccountID(uuid.NewString()),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}

	if err := s.store.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account created", slog.String("account_id", string(account.ID)))
	return s.createLogin(account), nil
}

// SignIn authenticates an account and creates a bearer session
func (s *Service) SignIn(ctx context.Context, email, password string) (*Login, error) {
	account, err := s.store.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.createLogin(account), nil
}

// SignOut invalidates a bearer session
func (s *Service) SignOut(token string) {
	s.mu.Lock()
	delete(s.logins, token)
	s.mu.Unlock()
}

// CurrentUser resolves a session token to its account
func (s *Service) CurrentUser(token string) (*model.Account, error) {
	login, err := s.ValidateLogin(token)
	if err != nil {
		return nil, err
	}
	return &login.Account, nil
}

// ValidateLogin checks if a session token is valid and returns the login
func (s *Service) ValidateLogin(token string) (*Login, error) {
	s.mu.RLock()
	login, ok := s.logins[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(login.ExpiresAt) {
		s.mu.Lock()
		delete(s.logins, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return login, nil
}

// SendPasswordReset creates a reset token for the account with the
// given email. Delivery is out of scope; the token is returned to the
// caller and logged.
func (s *Service) SendPasswordReset(ctx context.Context, email string) (string, error) {
	account, err := s.store.GetAccountByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	now := s.clock.Now()
	reset := &model.PasswordReset{
		Token:     uuid.NewString(),
		AccountID: account.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.resetDuration),
	}

	if err := s.store.SavePasswordReset(ctx, reset); err != nil {
		return "", err
	}

	s.logger.Info("password reset requested",
		slog.String("account_id", string(account.ID)),
		slog.String("reset_token", reset.Token))
	return reset.Token, nil
}

// ResetPassword consumes a reset token and replaces the account
// password. All existing logins for the account are invalidated.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	reset, err := s.store.GetPasswordReset(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	if s.clock.Now().After(reset.ExpiresAt) {
		_ = s.store.DeletePasswordReset(ctx, token)
		return ErrInvalidResetToken
	}

	account, err := s.store.GetAccount(ctx, reset.AccountID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	account.PasswordHash = string(hash)

	if err := s.store.SaveAccount(ctx, account); err != nil {
		return err
	}

	if err := s.store.DeletePasswordReset(ctx, token); err != nil {
		return err
	}

	s.mu.Lock()
	for t, login := range s.logins {
		if login.AccountID == account.ID {
			delete(s.logins, t)
		}
	}
	s.mu.Unlock()

	return nil
}

// createLogin creates a new bearer session for an account
func (s *Service) createLogin(account *model.Account) *Login {
	token := generateToken()
	now := s.clock.Now()

	login := &Login{
		Token:     token,
		AccountID: account.ID,
		Account:   *account,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.logins[token] = login
	s.mu.Unlock()

	return login
}

// generateToken generates an opaque bearer token
func generateToken() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return "vb_" + base64.RawURLEncoding.EncodeToString(b)
}

// CleanExpiredLogins removes expired sessions (call periodically)
func (s *Service) CleanExpiredLogins() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, login := range s.logins {
		if now.After(login.ExpiresAt) {
			delete(s.logins, token)
		}
	}
}
