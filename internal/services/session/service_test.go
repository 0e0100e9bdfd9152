package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/velatum/bellum/internal/dependencies/mocks"
	"github.com/velatum/bellum/internal/model"
	"github.com/velatum/bellum/internal/store/memory"
	"github.com/velatum/bellum/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	store   *memory.Store
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.store, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestCreateSucceeds() {
	s.random.QueueString("K7Q2Z")

	session, err := s.service.Create(s.ctx, CreateConfig{
		GameName:   "Alpha",
		MaxPlayers: 3,
	})
	s.Require().NoError(err)

	s.Equal(model.SessionName("Alpha"), session.GameName)
	s.Equal(3, session.MaxPlayers)
	s.Equal("K7Q2Z", session.AccessKey)
	s.Equal(model.SessionActive, session.SessionStatus)
	s.Equal(s.clock.Now(), session.CreatedAt)
	s.Empty(session.Players)
}

func (s *ServiceSuite) TestCreateDerivesDefaults() {
	s.random.QueueString("AAAAA")

	session, err := s.service.Create(s.ctx, CreateConfig{
		GameName:   "Alpha",
		MaxPlayers: 4,
	})
	s.Require().NoError(err)

	s.Equal(model.StartingHand{TacticalCards: 5, PowerCards: 1}, session.StartingHand)
	s.Equal(1, session.StartingBloodOathStones)
	s.Equal(15, session.InitialMissionCards)
	s.Equal(60, session.TurnTimeLimit)
	s.Equal(model.GameTypeBeginner, session.GameType)
	s.Equal(model.RoundsBestOf1, session.GameRounds)
}

func (s *ServiceSuite) TestCreateMissionCardsRoundDown() {
	s.random.QueueString("AAAAA")

	session, err := s.service.Create(s.ctx, CreateConfig{
		GameName:   "Alpha",
		MaxPlayers: 5,
	})
	s.Require().NoError(err)

	s.Equal(12, session.InitialMissionCards)
}

func (s *ServiceSuite) TestCreateSetsUpBoard() {
	s.random.QueueString("AAAAA")

	session, err := s.service.Create(s.ctx, CreateConfig{
		GameName:   "Alpha",
		MaxPlayers: 2,
	})
	s.Require().NoError(err)

	s.Equal("13x13", session.Board.Size)
	s.Equal(model.Location{6, 6}, session.Board.ScarletArena.Location)
	s.Len(session.Board.Quadrants, 4)
}

func (s *ServiceSuite) TestCreateHonoursExplicitSettings() {
	s.random.QueueString("AAAAA")

	session, err := s.service.Create(s.ctx, CreateConfig{
		GameName:      "Alpha",
		MaxPlayers:    2,
		GameType:      model.GameTypeAdvanced,
		GameRounds:    model.RoundsBestOf3,
		TurnTimeLimit: 90,
	})
	s.Require().NoError(err)

	s.Equal(model.GameTypeAdvanced, session.GameType)
	s.Equal(model.RoundsBestOf3, session.GameRounds)
	s.Equal(90, session.TurnTimeLimit)
}

func (s *ServiceSuite) TestCreateIsPersisted() {
	s.random.QueueString("AAAAA")

	_, err := s.service.Create(s.ctx, CreateConfig{GameName: "Alpha", MaxPlayers: 2})
	s.Require().NoError(err)

	stored, err := s.store.GetSession(s.ctx, "Alpha")
	s.Require().NoError(err)
	s.Equal(model.SessionName("Alpha"), stored.GameName)
}

func (s *ServiceSuite) TestCreateRejectsEmptyName() {
	_, err := s.service.Create(s.ctx, CreateConfig{GameName: "  ", MaxPlayers: 2})
	s.Require().Error(err)
	s.True(errors.Is(err, model.ErrEmptySessionName))
}

func (s *ServiceSuite) TestCreateRejectsBadMaxPlayers() {
	for _, maxPlayers := range []int{-1, 0, 1, 6, 100} {
		_, err := s.service.Create(s.ctx, CreateConfig{GameName: "Alpha", MaxPlayers: maxPlayers})
		s.True(errors.Is(err, model.ErrInvalidMaxPlayers), "maxPlayers=%d", maxPlayers)
	}
}

func (s *ServiceSuite) TestCreateDuplicateNameFails() {
	s.random.QueueString("AAAAA", "BBBBB")

	_, err := s.service.Create(s.ctx, CreateConfig{GameName: "Alpha", MaxPlayers: 2})
	s.Require().NoError(err)

	_, err = s.service.Create(s.ctx, CreateConfig{GameName: "Alpha", MaxPlayers: 3})
	s.True(errors.Is(err, model.ErrSessionExists))
}

func (s *ServiceSuite) TestGetMissingSession() {
	_, err := s.service.Get(s.ctx, "nope")
	s.True(errors.Is(err, model.ErrSessionNotFound))
}
