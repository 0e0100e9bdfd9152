package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/velatum/bellum/internal/dependencies/clock"
	"github.com/velatum/bellum/internal/dependencies/random"
	"github.com/velatum/bellum/internal/services/identity"
	"github.com/velatum/bellum/internal/services/roster"
	"github.com/velatum/bellum/internal/services/session"
	"github.com/velatum/bellum/internal/sse"
	"github.com/velatum/bellum/internal/store"
	"github.com/velatum/bellum/internal/store/memory"
	redisstore "github.com/velatum/bellum/internal/store/redis"
)

// Store type constants
const (
	StoreTypeMemory = "memory"
	StoreTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Store
	Store store.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	IdentityService *identity.Service
	SessionService  *session.Service
	RosterService   *roster.Service
	HubManager      *sse.HubManager
}

// Config holds configuration for the application factory
type Config struct {
	// IdentityConfig holds configuration for the identity service (optional)
	// If zero value, defaults to identity.DefaultConfig()
	IdentityConfig identity.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StoreType selects the store backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StoreType string
	// RedisConfig holds Redis connection settings (required if StoreType is "redis")
	RedisConfig *redisstore.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create the store based on type
	var st store.Store
	storeType := cfg.StoreType
	if storeType == "" {
		storeType = StoreTypeMemory
	}

	switch storeType {
	case StoreTypeMemory:
		st = memory.New()
	case StoreTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StoreType is redis")
		}
		redisStore, err := redisstore.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		st = redisStore
	default:
		return nil, errors.New("invalid StoreType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default identity config if not provided
	identityCfg := cfg.IdentityConfig
	if identityCfg.SessionDuration == 0 {
		identityCfg = identity.DefaultConfig()
	}

	return newWithDependencies(st, clk, rnd, identityCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(st store.Store, clk clock.Clock, rnd random.Random, identityCfg identity.Config, logger *slog.Logger) *App {
	// Create services
	identityService := identity.New(st, clk, identityCfg, logger)
	sessionService := session.New(st, clk, rnd, logger)
	rosterService := roster.New(st, clk, logger)
	hubManager := sse.NewHubManager(st, logger)

	return &App{
		Store:           st,
		Clock:           clk,
		Random:          rnd,
		IdentityService: identityService,
		SessionService:  sessionService,
		RosterService:   rosterService,
		HubManager:      hubManager,
	}
}
