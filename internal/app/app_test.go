package app

import (
	"accounts/internal/app/deps"
	"accounts/internal/app/services"
	"accounts/internal/config"
	"accounts/internal/core/domain/logging"
	uow "accounts/internal/core/domain/unit_of_work"
	"accounts/internal/core/domain/user"
	sendpasswordresettoken "accounts/internal/http/handlers/auth/send_password_reset_token"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var NOW time.Time = time.Date(2020, 1, 1, 15, 0, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	UserRepository *user.FakeUserRepository
	Sender         *user.FakePasswordResetTokenSender
	Router         http.Handler
}

func (suite *testSuite) SetupTest() {
	suite.UserRepository = user.NewFakeUserRepository()
	suite.Sender = user.NewFakePasswordResetTokenSender()

	unitOfWork := uow.NewFakeUnitOfWork()
	unitOfWork.Context.UserRepository = suite.UserRepository

	d := &deps.Deps{
		Config: &config.Config{
			IsTestMode:                 true,
			PasswordResetValidDuration: 10 * time.Minute,
			NotificationTimeout:        time.Second,
		},
		Logger:                   logging.NewFakeLogger(),
		Now:                      func() time.Time { return NOW },
		UnitOfWork:               unitOfWork,
		UserRepository:           suite.UserRepository,
		PasswordHasher:           user.NewFakePasswordHasher(),
		PasswordResetter:         user.NewFakePasswordResetter(),
		PasswordResetTokenSender: suite.Sender,
		SessionIssuer:            user.NewFakeSessionIssuer(),
	}
	suite.Router = NewRouter(services.InitServices(d), true, []string{"*"})
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) do(method string, path string, body any, token string) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		suite.Require().Nil(json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	suite.Router.ServeHTTP(rec, req)
	return rec
}

func (suite *testSuite) decode(rec *httptest.ResponseRecorder, result any) {
	envelope := struct {
		Status string          `json:"status"`
		Result json.RawMessage `json:"result"`
	}{}
	suite.Require().Nil(json.NewDecoder(rec.Body).Decode(&envelope))
	suite.Require().Equal("success", envelope.Status)
	if result != nil {
		suite.Require().Nil(json.Unmarshal(envelope.Result, result))
	}
}

func (suite *testSuite) signUpAndLogIn() (id string, token string) {
	rec := suite.do(http.MethodPost, "/auth/signup", map[string]string{
		"fullname": "Jane Doe",
		"email":    "jane@x.com",
		"password": "secret1",
	}, "")
	suite.Require().Equal(http.StatusOK, rec.Code)

	rec = suite.do(http.MethodPost, "/auth/login", map[string]string{
		"email":    "jane@x.com",
		"password": "secret1",
	}, "")
	suite.Require().Equal(http.StatusOK, rec.Code)
	result := struct {
		User  struct{ ID string } `json:"user"`
		Token string              `json:"token"`
	}{}
	suite.decode(rec, &result)
	suite.Require().NotEmpty(result.Token)
	return result.User.ID, result.Token
}

func (suite *testSuite) TestSignUpLogInAndReadUsers() {
	id, token := suite.signUpAndLogIn()

	rec := suite.do(http.MethodGet, "/users/", nil, token)
	assert := suite.Require()
	assert.Equal(http.StatusOK, rec.Code)
	list := struct {
		Users      []struct{ ID string } `json:"users"`
		TotalCount uint                  `json:"total_count"`
	}{}
	suite.decode(rec, &list)
	assert.Equal(uint(1), list.TotalCount)
	assert.Equal(id, list.Users[0].ID)

	rec = suite.do(http.MethodGet, "/users/"+id, nil, token)
	assert.Equal(http.StatusOK, rec.Code)
}

func (suite *testSuite) TestUsersRequireSession() {
	id, _ := suite.signUpAndLogIn()

	suite.Require().Equal(http.StatusUnauthorized, suite.do(http.MethodGet, "/users/", nil, "").Code)
	suite.Require().Equal(http.StatusUnauthorized, suite.do(http.MethodGet, "/users/"+id, nil, "bogus").Code)
	suite.Require().Equal(http.StatusUnauthorized, suite.do(http.MethodGet, "/users/42", nil, "").Code)
}

func (suite *testSuite) TestMalformedUserIDIsNotFound() {
	_, token := suite.signUpAndLogIn()

	rec := suite.do(http.MethodGet, "/users/42", nil, token)

	suite.Require().Equal(http.StatusNotFound, rec.Code)
}

func (suite *testSuite) TestPasswordResetFlow() {
	suite.signUpAndLogIn()

	rec := suite.do(http.MethodPost, "/auth/password/forgot", map[string]string{"email": "jane@x.com"}, "")
	assert := suite.Require()
	assert.Equal(http.StatusOK, rec.Code)
	resetToken := rec.Header().Get(sendpasswordresettoken.TEST_TOKEN_HEADER)
	assert.NotEmpty(resetToken)
	assert.Equal(1, suite.Sender.SentCount())

	rec = suite.do(http.MethodPost, "/auth/password/reset", map[string]string{
		"token":    resetToken,
		"password": "newpass",
	}, "")
	assert.Equal(http.StatusOK, rec.Code)

	rec = suite.do(http.MethodPost, "/auth/login", map[string]string{
		"email":    "jane@x.com",
		"password": "newpass",
	}, "")
	assert.Equal(http.StatusOK, rec.Code)

	rec = suite.do(http.MethodPost, "/auth/password/reset", map[string]string{
		"token":    resetToken,
		"password": "another",
	}, "")
	assert.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *testSuite) TestCorsPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	suite.Router.ServeHTTP(rec, req)

	suite.Require().Equal("*", rec.Header().Get("Access-Control-Allow-Origin"))
}
