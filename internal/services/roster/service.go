package roster

import (
	"context"
	"log/slog"

	"github.com/velatum/bellum/internal/dependencies/clock"
	"github.com/velatum/bellum/internal/model"
	"github.com/velatum/bellum/internal/store"
)

// Service owns roster membership: joining a session and selecting an
// assassin. Every mutation goes through the store's atomic update
// primitive, so two players racing for the last seat never produce a
// roster larger than maxPlayers and a join never erases a concurrent
// assassin selection.
type Service struct {
	store  store.Store
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new roster Service
func New(store store.Store, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clock,
		logger: logger.With(slog.String("component", "roster")),
	}
}

// Join adds the player to the session roster. Re-joining under the same
// name is an idempotent no-op returning the current document; a full
// roster fails with ErrSessionFull.
func (s *Service) Join(ctx context.Context, name model.SessionName, playerName model.PlayerName) (*model.Session, error) {
	joined := false
	session, err := s.store.UpdateSession(ctx, name, func(session *model.Session) error {
		if session.GetPlayer(playerName) != nil {
			return store.ErrNoChange
		}
		if session.IsFull() {
			return model.ErrSessionFull
		}
		session.Players = append(session.Players, model.NewPlayer(
			playerName,
			session.StartingHand,
			session.StartingBloodOathStones,
			s.clock.Now(),
		))
		joined = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if joined {
		s.logger.Info("player joined",
			slog.String("session", string(name)),
			slog.String("player", string(playerName)),
			slog.Int("players", len(session.Players)))
	}
	return session, nil
}

// SelectAssassin records the player's assassin choice. If the player is
// not yet on the roster they are added first, subject to the same
// capacity check as Join. Re-selecting overwrites the previous choice;
// two players may pick the same assassin.
func (s *Service) SelectAssassin(ctx context.Context, name model.SessionName, playerName model.PlayerName, assassinID model.AssassinID) (*model.Session, error) {
	if _, err := model.FindAssassin(assassinID); err != nil {
		return nil, err
	}

	session, err := s.store.UpdateSession(ctx, name, func(session *model.Session) error {
		player := session.GetPlayer(playerName)
		if player == nil {
			if session.IsFull() {
				return model.ErrSessionFull
			}
			session.Players = append(session.Players, model.NewPlayer(
				playerName,
				session.StartingHand,
				session.StartingBloodOathStones,
				s.clock.Now(),
			))
			player = &session.Players[len(session.Players)-1]
		}
		if player.Assassin == assassinID {
			return store.ErrNoChange
		}
		player.Assassin = assassinID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("assassin selected",
		slog.String("session", string(name)),
		slog.String("player", string(playerName)),
		slog.String("assassin", string(assassinID)))
	return session, nil
}
