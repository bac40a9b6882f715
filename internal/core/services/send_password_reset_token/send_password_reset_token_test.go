package sendpasswordresettoken

import (
	c "accounts/internal/core/domain/common"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	EMAIL         = c.Email("a@x.com")
	PASSWORD_HASH = user.PasswordHash("test-password-hash")
	VALID         = 10 * time.Minute
)

var NOW time.Time = time.Date(2020, 1, 1, 15, 0, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	Logger           *logging.FakeLogger
	UserRepository   *user.FakeUserRepository
	PasswordResetter *user.FakePasswordResetter
	Sender           *user.FakePasswordResetTokenSender
	Service          services.Service[Input, Result]
	User             user.User
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.UserRepository = user.NewFakeUserRepository()
	suite.PasswordResetter = user.NewFakePasswordResetter()
	suite.Sender = user.NewFakePasswordResetTokenSender()
	suite.Service = New(
		suite.Logger,
		suite.UserRepository,
		suite.PasswordResetter,
		suite.Sender,
		VALID,
		time.Second,
		func() time.Time { return NOW },
	)

	u, err := suite.UserRepository.Create(context.Background(), user.CreateUserInput{
		Email:        EMAIL,
		PasswordHash: PASSWORD_HASH,
		CreatedAt:    NOW,
	})
	suite.Require().Nil(err)
	suite.User = u
	suite.UserRepository.Writes = 0
}

func TestSendPasswordResetTokenService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) TestSuccess() {
	result, err := suite.Service.Run(context.Background(), Input{Email: EMAIL})

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(user.PasswordResetToken("token-1"), result.Token)
	assert.Equal(NOW.Add(VALID), result.ExpiresAt)

	assert.Equal(1, suite.Sender.SentCount())
	assert.Equal(result.Token, suite.Sender.Sent[0])
	assert.Equal(suite.User.ID, suite.Sender.SentTo[0].ID)

	u, err := suite.UserRepository.GetByID(context.Background(), suite.User.ID)
	assert.Nil(err)
	assert.True(u.PasswordReset.IsPresent)
	assert.Equal(suite.PasswordResetter.HashToken(result.Token), u.PasswordReset.Value.TokenHash)
	assert.NotEqual(user.PasswordResetTokenHash(result.Token), u.PasswordReset.Value.TokenHash)
	assert.Equal(NOW.Add(VALID), u.PasswordReset.Value.ExpiresAt)
	assert.Equal(PASSWORD_HASH, u.PasswordHash)
}

func (suite *testSuite) TestTokenIsNotLogged() {
	result, err := suite.Service.Run(context.Background(), Input{Email: EMAIL})

	assert := suite.Require()
	assert.Nil(err)
	for _, value := range suite.Logger.Values() {
		assert.NotEqual(result.Token, value)
		assert.NotEqual(string(result.Token), value)
	}
}

func (suite *testSuite) TestUserDoesNotExist() {
	_, err := suite.Service.Run(context.Background(), Input{Email: c.Email("unknown@x.com")})

	assert := suite.Require()
	assert.ErrorIs(err, user.ErrUserDoesNotExist)
	assert.Equal(0, suite.UserRepository.Writes)
	assert.Equal(0, suite.Sender.SentCount())
}

func (suite *testSuite) TestSecondTokenOverwritesFirst() {
	first, err := suite.Service.Run(context.Background(), Input{Email: EMAIL})
	suite.Require().Nil(err)
	second, err := suite.Service.Run(context.Background(), Input{Email: EMAIL})
	suite.Require().Nil(err)

	assert := suite.Require()
	assert.NotEqual(first.Token, second.Token)

	u, err := suite.UserRepository.GetByID(context.Background(), suite.User.ID)
	assert.Nil(err)
	assert.Equal(suite.PasswordResetter.HashToken(second.Token), u.PasswordReset.Value.TokenHash)

	_, err = suite.UserRepository.GetByPasswordResetToken(
		context.Background(),
		suite.PasswordResetter.HashToken(first.Token),
		NOW,
	)
	assert.ErrorIs(err, user.ErrInvalidPasswordResetToken)
}

func (suite *testSuite) TestSendingErrorRevokesToken() {
	suite.Sender.ReturnError = true

	_, err := suite.Service.Run(context.Background(), Input{Email: EMAIL})

	assert := suite.Require()
	assert.ErrorIs(err, user.ErrPasswordResetTokenNotSent)
	assert.Len(suite.PasswordResetter.Generated, 1)

	u, err := suite.UserRepository.GetByID(context.Background(), suite.User.ID)
	assert.Nil(err)
	assert.False(u.PasswordReset.IsPresent)

	_, err = suite.UserRepository.GetByPasswordResetToken(
		context.Background(),
		suite.PasswordResetter.HashToken(suite.PasswordResetter.Generated[0]),
		NOW,
	)
	assert.ErrorIs(err, user.ErrInvalidPasswordResetToken)
}

func (suite *testSuite) TestRevokeRunsWhenRequestIsCanceled() {
	sender := &cancelingSender{}
	ctx, cancel := context.WithCancel(context.Background())
	sender.cancel = cancel
	service := New(
		suite.Logger,
		suite.UserRepository,
		suite.PasswordResetter,
		sender,
		VALID,
		time.Second,
		func() time.Time { return NOW },
	)

	_, err := service.Run(ctx, Input{Email: EMAIL})

	assert := suite.Require()
	assert.ErrorIs(err, user.ErrPasswordResetTokenNotSent)
	u, err := suite.UserRepository.GetByID(context.Background(), suite.User.ID)
	assert.Nil(err)
	assert.False(u.PasswordReset.IsPresent)
}

func (suite *testSuite) TestSendingIsBoundedByTimeout() {
	sender := &blockingSender{}
	service := New(
		suite.Logger,
		suite.UserRepository,
		suite.PasswordResetter,
		sender,
		VALID,
		10*time.Millisecond,
		func() time.Time { return NOW },
	)

	_, err := service.Run(context.Background(), Input{Email: EMAIL})

	assert := suite.Require()
	assert.ErrorIs(err, user.ErrPasswordResetTokenNotSent)
	assert.ErrorIs(err, context.DeadlineExceeded)
	u, err := suite.UserRepository.GetByID(context.Background(), suite.User.ID)
	assert.Nil(err)
	assert.False(u.PasswordReset.IsPresent)
}

func (suite *testSuite) TestRepositoryError() {
	suite.UserRepository.ReturnError = true

	_, err := suite.Service.Run(context.Background(), Input{Email: EMAIL})

	assert := suite.Require()
	assert.NotNil(err)
	assert.False(errors.Is(err, user.ErrUserDoesNotExist))
	assert.Equal(0, suite.Sender.SentCount())
}

func (suite *testSuite) TestGeneratorError() {
	suite.PasswordResetter.ReturnError = true

	_, err := suite.Service.Run(context.Background(), Input{Email: EMAIL})

	assert := suite.Require()
	assert.NotNil(err)
	assert.Equal(0, suite.UserRepository.Writes)
	assert.Equal(0, suite.Sender.SentCount())
}

type cancelingSender struct {
	cancel context.CancelFunc
}

func (s *cancelingSender) SendPasswordResetToken(ctx context.Context, u user.User, token user.PasswordResetToken) error {
	s.cancel()
	return ctx.Err()
}

type blockingSender struct{}

func (s *blockingSender) SendPasswordResetToken(ctx context.Context, u user.User, token user.PasswordResetToken) error {
	<-ctx.Done()
	return ctx.Err()
}
