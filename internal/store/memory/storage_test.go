package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/velatum/bellum/internal/model"
	"github.com/velatum/bellum/internal/store"
)

type StorageSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) newSession(name model.SessionName, maxPlayers int) *model.Session {
	return &model.Session{
		GameName:                name,
		MaxPlayers:              maxPlayers,
		GameType:                model.GameTypeBeginner,
		GameRounds:              model.RoundsBestOf1,
		StartingHand:            model.DefaultStartingHand(),
		StartingBloodOathStones: 1,
		InitialMissionCards:     model.TotalMissionCards / maxPlayers,
		TurnTimeLimit:           60,
		AccessKey:               "AAAAA",
		CreatedAt:               time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Players:                 []model.Player{},
		Board:                   model.DefaultBoard(),
		SessionStatus:           model.SessionActive,
	}
}

// Session tests

func (s *StorageSuite) TestCreateAndGetSession() {
	err := s.store.CreateSession(s.ctx, s.newSession("Alpha", 3))
	s.Require().NoError(err)

	got, err := s.store.GetSession(s.ctx, "Alpha")
	s.Require().NoError(err)
	s.Equal(model.SessionName("Alpha"), got.GameName)
	s.Equal(int64(1), got.Version)
}

func (s *StorageSuite) TestCreateDuplicateSessionFails() {
	s.Require().NoError(s.store.CreateSession(s.ctx, s.newSession("Alpha", 3)))

	err := s.store.CreateSession(s.ctx, s.newSession("Alpha", 2))
	s.True(errors.Is(err, model.ErrSessionExists))

	// the original document is untouched
	got, err := s.store.GetSession(s.ctx, "Alpha")
	s.Require().NoError(err)
	s.Equal(3, got.MaxPlayers)
}

func (s *StorageSuite) TestGetMissingSession() {
	_, err := s.store.GetSession(s.ctx, "nope")
	s.True(errors.Is(err, model.ErrSessionNotFound))
}

func (s *StorageSuite) TestGetReturnsACopy() {
	s.Require().NoError(s.store.CreateSession(s.ctx, s.newSession("Alpha", 3)))

	first, err := s.store.GetSession(s.ctx, "Alpha")
	s.Require().NoError(err)
	first.MaxPlayers = 99

	second, err := s.store.GetSession(s.ctx, "Alpha")
	s.Require().NoError(err)
	s.Equal(3, second.MaxPlayers)
}

func (s *StorageSuite) TestSaveSessionBumpsVersion() {
	session := s.newSession("Alpha", 3)
	s.Require().NoError(s.store.CreateSession(s.ctx, session))

	session.TurnTimeLimit = 90
	s.Require().NoError(s.store.SaveSession(s.ctx, session))
	s.Equal(int64(2), session.Version)

	got, err := s.store.GetSession(s.ctx, "Alpha")
	s.Require().NoError(err)
	s.Equal(90, got.TurnTimeLimit)
	s.Equal(int64(2), got.Version)
}

func (s *StorageSuite) TestUpdateSessionAppliesTransform() {
	s.Require().NoError(s.store.CreateSession(s.ctx, s.newSession("Alpha", 3)))

	updated, err := s.store.UpdateSession(s.ctx, "Alpha", func(session *model.Session) error {
		session.Players = append(session.Players, model.NewPlayer(
			"Bob", session.StartingHand, session.StartingBloodOathStones, time.Now()))
		return nil
	})
	s.Require().NoError(err)
	s.Len(updated.Players, 1)
	s.Equal(int64(2), updated.Version)
}

func (s *StorageSuite) TestUpdateSessionNoChangeSkipsWrite() {
	s.Require().NoError(s.store.CreateSession(s.ctx, s.newSession("Alpha", 3)))

	result, err := s.store.UpdateSession(s.ctx, "Alpha", func(session *model.Session) error {
		session.MaxPlayers = 99
		return store.ErrNoChange
	})
	s.Require().NoError(err)
	s.Equal(3, result.MaxPlayers)
	s.Equal(int64(1), result.Version)
}

func (s *StorageSuite) TestUpdateSessionTransformErrorAborts() {
	s.Require().NoError(s.store.CreateSession(s.ctx, s.newSession("Alpha", 3)))
	boom := errors.New("boom")

	_, err := s.store.UpdateSession(s.ctx, "Alpha", func(session *model.Session) error {
		session.MaxPlayers = 99
		return boom
	})
	s.True(errors.Is(err, boom))

	got, err := s.store.GetSession(s.ctx, "Alpha")
	s.Require().NoError(err)
	s.Equal(3, got.MaxPlayers)
	s.Equal(int64(1), got.Version)
}

func (s *StorageSuite) TestUpdateMissingSession() {
	_, err := s.store.UpdateSession(s.ctx, "nope", func(session *model.Session) error {
		return nil
	})
	s.True(errors.Is(err, model.ErrSessionNotFound))
}

func (s *StorageSuite) TestConcurrentUpdatesAllApply() {
	s.Require().NoError(s.store.CreateSession(s.ctx, s.newSession("Alpha", 5)))

	const updaters = 20
	var wg sync.WaitGroup
	for i := 0; i < updaters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.UpdateSession(s.ctx, "Alpha", func(session *model.Session) error {
				session.TurnTimeLimit++
				return nil
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	got, err := s.store.GetSession(s.ctx, "Alpha")
	s.Require().NoError(err)
	s.Equal(60+updaters, got.TurnTimeLimit)
	s.Equal(int64(1+updaters), got.Version)
}

func (s *StorageSuite) TestDeleteAndExists() {
	s.Require().NoError(s.store.CreateSession(s.ctx, s.newSession("Alpha", 3)))

	exists, err := s.store.SessionExists(s.ctx, "Alpha")
	s.Require().NoError(err)
	s.True(exists)

	s.Require().NoError(s.store.DeleteSession(s.ctx, "Alpha"))

	exists, err = s.store.SessionExists(s.ctx, "Alpha")
	s.Require().NoError(err)
	s.False(exists)
}

// Subscription tests

func (s *StorageSuite) TestSubscriberSeesEachWrite() {
	s.Require().NoError(s.store.CreateSession(s.ctx, s.newSession("Alpha", 3)))

	var mu sync.Mutex
	var versions []int64
	unsub, err := s.store.SubscribeSession(s.ctx, "Alpha", func(session *model.Session) {
		mu.Lock()
		versions = append(versions, session.Version)
		mu.Unlock()
	})
	s.Require().NoError(err)
	defer unsub()

	for i := 0; i < 3; i++ {
		_, err := s.store.UpdateSession(s.ctx, "Alpha", func(session *model.Session) error {
			session.TurnTimeLimit++
			return nil
		})
		s.Require().NoError(err)
	}

	mu.Lock()
	defer mu.Unlock()
	s.Equal([]int64{2, 3, 4}, versions)
}

func (s *StorageSuite) TestUnsubscribeStopsDelivery() {
	s.Require().NoError(s.store.CreateSession(s.ctx, s.newSession("Alpha", 3)))

	calls := 0
	unsub, err := s.store.SubscribeSession(s.ctx, "Alpha", func(session *model.Session) {
		calls++
	})
	s.Require().NoError(err)

	unsub()
	unsub() // safe to call twice

	_, err = s.store.UpdateSession(s.ctx, "Alpha", func(session *model.Session) error {
		session.TurnTimeLimit++
		return nil
	})
	s.Require().NoError(err)
	s.Equal(0, calls)
}

func (s *StorageSuite) TestSubscriberMayCallBackIntoStore() {
	s.Require().NoError(s.store.CreateSession(s.ctx, s.newSession("Alpha", 3)))

	var got *model.Session
	unsub, err := s.store.SubscribeSession(s.ctx, "Alpha", func(session *model.Session) {
		got, _ = s.store.GetSession(s.ctx, session.GameName)
	})
	s.Require().NoError(err)
	defer unsub()

	_, err = s.store.UpdateSession(s.ctx, "Alpha", func(session *model.Session) error {
		session.TurnTimeLimit = 90
		return nil
	})
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(90, got.TurnTimeLimit)
}

// Account tests

func (s *StorageSuite) TestSaveAndGetAccount() {
	account := &model.Account{
		ID:           "acc-1",
		Email:        "bob@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
	s.Require().NoError(s.store.SaveAccount(s.ctx, account))

	byID, err := s.store.GetAccount(s.ctx, "acc-1")
	s.Require().NoError(err)
	s.Equal("bob@example.com", byID.Email)

	byEmail, err := s.store.GetAccountByEmail(s.ctx, "bob@example.com")
	s.Require().NoError(err)
	s.Equal(model.AccountID("acc-1"), byEmail.ID)
}

func (s *StorageSuite) TestAccountCopySemantics() {
	account := &model.Account{
		ID:           "acc-1",
		Email:        "bob@example.com",
		PasswordHash: "hash",
	}
	s.Require().NoError(s.store.SaveAccount(s.ctx, account))

	// Mutating the saved pointer must not reach the store
	account.PasswordHash = "tampered"

	got, err := s.store.GetAccount(s.ctx, "acc-1")
	s.Require().NoError(err)
	s.Equal("hash", got.PasswordHash)

	// Mutating a fetched account must not reach the store until saved back
	got.PasswordHash = "new-hash"

	again, err := s.store.GetAccountByEmail(s.ctx, "bob@example.com")
	s.Require().NoError(err)
	s.Equal("hash", again.PasswordHash)

	s.Require().NoError(s.store.SaveAccount(s.ctx, got))
	saved, err := s.store.GetAccount(s.ctx, "acc-1")
	s.Require().NoError(err)
	s.Equal("new-hash", saved.PasswordHash)
}

func (s *StorageSuite) TestGetMissingAccount() {
	_, err := s.store.GetAccount(s.ctx, "nope")
	s.True(errors.Is(err, model.ErrAccountNotFound))

	_, err = s.store.GetAccountByEmail(s.ctx, "nope@example.com")
	s.True(errors.Is(err, model.ErrAccountNotFound))
}

// Password reset tests

func (s *StorageSuite) TestPasswordResetLifecycle() {
	reset := &model.PasswordReset{
		Token:     "tok-1",
		AccountID: "acc-1",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	s.Require().NoError(s.store.SavePasswordReset(s.ctx, reset))

	got, err := s.store.GetPasswordReset(s.ctx, "tok-1")
	s.Require().NoError(err)
	s.Equal(model.AccountID("acc-1"), got.AccountID)

	s.Require().NoError(s.store.DeletePasswordReset(s.ctx, "tok-1"))

	_, err = s.store.GetPasswordReset(s.ctx, "tok-1")
	s.True(errors.Is(err, model.ErrAccountNotFound))
}
