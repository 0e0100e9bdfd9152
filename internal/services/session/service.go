package session

import (
	"context"
	"log/slog"
	"strings"

	"github.com/velatum/bellum/internal/dependencies/clock"
	"github.com/velatum/bellum/internal/dependencies/random"
	"github.com/velatum/bellum/internal/model"
	"github.com/velatum/bellum/internal/store"
)

const (
	// AccessKeyLength is the length of generated session access keys
	AccessKeyLength = 5
	// AccessKeyAlphabet is the characters used in access keys
	AccessKeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// CreateConfig is the caller-supplied portion of a new session. The
// remaining fields (starting hand, stones, mission-card share, board)
// are derived.
type CreateConfig struct {
	GameName      model.SessionName
	MaxPlayers    int
	GameType      model.GameType
	GameRounds    model.GameRounds
	TurnTimeLimit int
}

// Service owns session creation and lookup
type Service struct {
	store  store.Store
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
}

// New creates a new session Service
func New(store store.Store, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clock,
		random: random,
		logger: logger.With(slog.String("component", "session")),
	}
}

// Create writes a new session document with derived defaults and an
// empty roster. Fails with ErrSessionExists if the name is taken.
func (s *Service) Create(ctx context.Context, cfg CreateConfig) (*model.Session, error) {
	name := model.SessionName(strings.TrimSpace(string(cfg.GameName)))
	if name == "" {
		return nil, model.ErrEmptySessionName
	}
	if cfg.MaxPlayers < model.MinPlayers || cfg.MaxPlayers > model.MaxPlayersLimit {
		return nil, model.ErrInvalidMaxPlayers
	}

	gameType := cfg.GameType
	if gameType == "" {
		gameType = model.GameTypeBeginner
	}
	rounds := cfg.GameRounds
	if rounds == "" {
		rounds = model.RoundsBestOf1
	}
	turnTimeLimit := cfg.TurnTimeLimit
	if turnTimeLimit == 0 {
		turnTimeLimit = 60
	}

	session := &model.Session{
		GameName:                name,
		MaxPlayers:              cfg.MaxPlayers,
		GameType:                gameType,
		GameRounds:              rounds,
		StartingHand:            model.DefaultStartingHand(),
		StartingBloodOathStones: 1,
		InitialMissionCards:     model.TotalMissionCards / cfg.MaxPlayers,
		TurnTimeLimit:           turnTimeLimit,
		AccessKey:               s.random.String(AccessKeyLength, AccessKeyAlphabet),
		CreatedAt:               s.clock.Now(),
		Players:                 []model.Player{},
		Board:                   model.DefaultBoard(),
		SessionStatus:           model.SessionActive,
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("session created",
		slog.String("session", string(name)),
		slog.Int("max_players", cfg.MaxPlayers))
	return session, nil
}

// Get retrieves a session by name
func (s *Service) Get(ctx context.Context, name model.SessionName) (*model.Session, error) {
	return s.store.GetSession(ctx, name)
}
