package uow

import (
	c "accounts/internal/core/domain/common"
	"accounts/internal/core/domain/user"
	"accounts/internal/db"
	dbuser "accounts/internal/db/user"
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

type testSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	uow  *PgxUnitOfWork
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool()
	suite.uow = NewPgxUnitOfWork(suite.pool)
}

func (suite *testSuite) TearDownSuite() {
	suite.pool.Close()
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxUnitOfWork(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) createUser(ctx context.Context, uow interface{ Users() user.UserRepository }) user.User {
	u, err := uow.Users().Create(ctx, user.CreateUserInput{
		Email:        c.NewEmail("test@test.com"),
		PasswordHash: user.PasswordHash("test"),
		CreatedAt:    time.Now().UTC(),
	})
	s.Require().Nil(err)
	return u
}

func (s *testSuite) TestCommit() {
	ctx := context.Background()
	uow, err := s.uow.Begin(ctx)
	s.Require().Nil(err)
	defer uow.Rollback(ctx)

	u := s.createUser(ctx, uow)
	s.Require().Nil(uow.Commit(ctx))

	actual, err := dbuser.NewPgxRepository(s.pool).GetByID(ctx, u.ID)
	s.Require().Nil(err)
	s.Equal(u.Email, actual.Email)
}

func (s *testSuite) TestRollback() {
	ctx := context.Background()
	uow, err := s.uow.Begin(ctx)
	s.Require().Nil(err)

	u := s.createUser(ctx, uow)
	s.Require().Nil(uow.Rollback(ctx))

	_, err = dbuser.NewPgxRepository(s.pool).GetByID(ctx, u.ID)
	s.ErrorIs(err, user.ErrUserDoesNotExist)
}

func (s *testSuite) TestUncommittedUserIsInvisible() {
	ctx := context.Background()
	uow, err := s.uow.Begin(ctx)
	s.Require().Nil(err)
	defer uow.Rollback(ctx)

	u := s.createUser(ctx, uow)

	_, err = dbuser.NewPgxRepository(s.pool).GetByID(ctx, u.ID)
	s.ErrorIs(err, user.ErrUserDoesNotExist)
}
