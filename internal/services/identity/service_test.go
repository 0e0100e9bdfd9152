package identity

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/velatum/bellum/internal/dependencies/mocks"
	"github.com/velatum/bellum/internal/store/memory"
	"github.com/velatum/bellum/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	store   *memory.Store
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.store, s.clock, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

// CreateAccount tests

func (s *ServiceSuite) TestCreateAccountSucceeds() {
	login, err := s.service.CreateAccount(s.ctx, "bob@example.com", "hunter22")
	s.Require().NoError(err)

	s.Equal("bob@example.com", login.Account.Email)
	s.NotEmpty(login.Account.ID)
	s.True(strings.HasPrefix(login.Token, "vb_"))
	s.Equal(s.clock.Now(), login.CreatedAt)
	s.Equal(s.clock.Now().Add(24*time.Hour), login.ExpiresAt)

	// password is stored hashed
	stored, err := s.store.GetAccountByEmail(s.ctx, "bob@example.com")
	s.Require().NoError(err)
	s.NotEmpty(stored.PasswordHash)
	s.NotEqual("hunter22", stored.PasswordHash)
}

func (s *ServiceSuite) TestCreateAccountSignsIn() {
	login, err := s.service.CreateAccount(s.ctx, "bob@example.com", "hunter22")
	s.Require().NoError(err)

	account, err := s.service.CurrentUser(login.Token)
	s.Require().NoError(err)
	s.Equal(login.Account.ID, account.ID)
}

func (s *ServiceSuite) TestCreateAccountRejectsBadEmail() {
	for _, email := range []string{"", "not-an-email", "@example.com"} {
		_, err := s.service.CreateAccount(s.ctx, email, "hunter22")
		s.True(errors.Is(err, ErrInvalidEmail), "email=%q", email)
	}
}

func (s *ServiceSuite) TestCreateAccountRejectsShortPassword() {
	_, err := s.service.CreateAccount(s.ctx, "bob@example.com", "12345")
	s.True(errors.Is(err, ErrWeakPassword))
}

func (s *ServiceSuite) TestCreateAccountDuplicateEmail() {
	_, err := s.service.CreateAccount(s.ctx, "bob@example.com", "hunter22")
	s.Require().NoError(err)

	_, err = s.service.CreateAccount(s.ctx, "bob@example.com", "other-password")
	s.True(errors.Is(err, ErrEmailExists))
}

// SignIn tests

func (s *ServiceSuite) TestSignInSucceeds() {
	_, err := s.service.CreateAccount(s.ctx, "bob@example.com", "hunter22")
	s.Require().NoError(err)

	login, err := s.service.SignIn(s.ctx, "bob@example.com", "hunter22")
	s.Require().NoError(err)
	s.Equal("bob@example.com", login.Account.Email)
	s.NotEmpty(login.Token)
}

func (s *ServiceSuite) TestSignInWrongPassword() {
	_, err := s.service.CreateAccount(s.ctx, "bob@example.com", "hunter22")
	s.Require().NoError(err)

	_, err = s.service.SignIn(s.ctx, "bob@example.com", "wrong")
	s.True(errors.Is(err, ErrInvalidCredentials))
}

func (s *ServiceSuite) TestSignInUnknownEmail() {
	_, err := s.service.SignIn(s.ctx, "nobody@example.com", "hunter22")
	s.True(errors.Is(err, ErrInvalidCredentials))
}

// Session tests

func (s *ServiceSuite) TestSignOutInvalidatesToken() {
	login, err := s.service.CreateAccount(s.ctx, "bob@example.com", "hunter22")
	s.Require().NoError(err)

	s.service.SignOut(login.Token)

	_, err = s.service.CurrentUser(login.Token)
	s.True(errors.Is(err, ErrInvalidSession))
}

func (s *ServiceSuite) TestSessionsExpire() {
	login, err := s.service.CreateAccount(s.ctx, "bob@example.com", "hunter22")
	s.Require().NoError(err)

	s.clock.Advance(23 * time.Hour)
	_, err = s.service.ValidateLogin(login.Token)
	s.NoError(err)

	s.clock.Advance(2 * time.Hour)
	_, err = s.service.ValidateLogin(login.Token)
	s.True(errors.Is(err, ErrInvalidSession))
}

func (s *ServiceSuite) TestValidateUnknownToken() {
	_, err := s.service.ValidateLogin("vb_bogus")
	s.True(errors.Is(err, ErrInvalidSession))
}

func (s *ServiceSuite) TestCleanExpiredLogins() {
	login, err := s.service.CreateAccount(s.ctx, "bob@example.com", "hunter22")
	s.Require().NoError(err)

	s.clock.Advance(25 * time.Hour)
	s.service.CleanExpiredLogins()

	_, err = s.service.ValidateLogin(login.Token)
	s.True(errors.Is(err, ErrInvalidSession))
}

// Password reset tests

func (s *ServiceSuite) TestPasswordResetFlow() {
	_, err := s.service.CreateAccount(s.ctx, "bob@example.com", "hunter22")
	s.Require().NoError(err)

	token, err := s.service.SendPasswordReset(s.ctx, "bob@example.com")
	s.Require().NoError(err)
	s.NotEmpty(token)

	err = s.service.ResetPassword(s.ctx, token, "new-password")
	s.Require().NoError(err)

	_, err = s.service.SignIn(s.ctx, "bob@example.com", "hunter22")
	s.True(errors.Is(err, ErrInvalidCredentials))

	_, err = s.service.SignIn(s.ctx, "bob@example.com", "new-password")
	s.NoError(err)
}

func (s *ServiceSuite) TestResetInvalidatesExistingLogins() {
	login, err := s.service.CreateAccount(s.ctx, "bob@example.com", "hunter22")
	s.Require().NoError(err)

	token, err := s.service.SendPasswordReset(s.ctx, "bob@example.com")
	s.Require().NoError(err)
	s.Require().NoError(s.service.ResetPassword(s.ctx, token, "new-password"))

	_, err = s.service.ValidateLogin(login.Token)
	s.True(errors.Is(err, ErrInvalidSession))
}

func (s *ServiceSuite) TestResetTokenIsSingleUse() {
	_, err := s.service.CreateAccount(s.ctx, "bob@example.com", "hunter22")
	s.Require().NoError(err)

	token, err := s.service.SendPasswordReset(s.ctx, "bob@example.com")
	s.Require().NoError(err)
	s.Require().NoError(s.service.ResetPassword(s.ctx, token, "new-password"))

	err = s.service.ResetPassword(s.ctx, token, "another-password")
	s.True(errors.Is(err, ErrInvalidResetToken))
}

func (s *ServiceSuite) TestResetTokenExpires() {
	_, err := s.service.CreateAccount(s.ctx, "bob@example.com", "hunter22")
	s.Require().NoError(err)

	token, err := s.service.SendPasswordReset(s.ctx, "bob@example.com")
	s.Require().NoError(err)

	s.clock.Advance(2 * time.Hour)

	err = s.service.ResetPassword(s.ctx, token, "new-password")
	s.True(errors.Is(err, ErrInvalidResetToken))
}

func (s *ServiceSuite) TestResetRejectsShortPassword() {
	_, err := s.service.CreateAccount(s.ctx, "bob@example.com", "hunter22")
	s.Require().NoError(err)

	token, err := s.service.SendPasswordReset(s.ctx, "bob@example.com")
	s.Require().NoError(err)

	err = s.service.ResetPassword(s.ctx, token, "short")
	s.True(errors.Is(err, ErrWeakPassword))
}
