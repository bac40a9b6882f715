package loginwithemail

import (
	c "accounts/internal/core/domain/common"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	EMAIL    = c.Email("a@x.com")
	PASSWORD = user.RawPassword("secret1")
)

type testSuite struct {
	suite.Suite
	Logger         *logging.FakeLogger
	UserRepository *user.FakeUserRepository
	PasswordHasher *user.FakePasswordHasher
	SessionIssuer  *user.FakeSessionIssuer
	Service        services.Service[Input, Result]
	User           user.User
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.UserRepository = user.NewFakeUserRepository()
	suite.PasswordHasher = user.NewFakePasswordHasher()
	suite.SessionIssuer = user.NewFakeSessionIssuer()
	suite.Service = New(suite.Logger, suite.UserRepository, suite.PasswordHasher, suite.SessionIssuer)

	passwordHash, err := suite.PasswordHasher.HashPassword(PASSWORD)
	suite.Require().Nil(err)
	u, err := suite.UserRepository.Create(context.Background(), user.CreateUserInput{
		Email:        EMAIL,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	})
	suite.Require().Nil(err)
	suite.User = u
}

func TestLogInWithEmailService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) TestSuccess() {
	result, err := suite.Service.Run(context.Background(), Input{Email: EMAIL, Password: PASSWORD})

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(suite.User.ID, result.User.ID)
	assert.NotEmpty(result.Token)

	userID, err := suite.SessionIssuer.ParseToken(result.Token)
	assert.Nil(err)
	assert.Equal(suite.User.ID, userID)
}

func (suite *testSuite) TestWrongPassword() {
	result, err := suite.Service.Run(context.Background(), Input{Email: EMAIL, Password: user.RawPassword("wrong")})

	assert := suite.Require()
	assert.ErrorIs(err, user.ErrInvalidCredentials)
	assert.Empty(result.Token)
}

func (suite *testSuite) TestUnknownEmail() {
	_, err := suite.Service.Run(context.Background(), Input{Email: c.Email("b@x.com"), Password: PASSWORD})

	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)
}

func (suite *testSuite) TestSessionIssuerError() {
	suite.SessionIssuer.ReturnError = true

	_, err := suite.Service.Run(context.Background(), Input{Email: EMAIL, Password: PASSWORD})

	assert := suite.Require()
	assert.NotNil(err)
	assert.NotErrorIs(err, user.ErrInvalidCredentials)
}

func (suite *testSuite) TestRepositoryError() {
	suite.UserRepository.ReturnError = true

	_, err := suite.Service.Run(context.Background(), Input{Email: EMAIL, Password: PASSWORD})

	assert := suite.Require()
	assert.NotNil(err)
	assert.NotErrorIs(err, user.ErrUserDoesNotExist)
}
