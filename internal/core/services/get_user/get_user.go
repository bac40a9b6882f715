package getuser

import (
	c "accounts/internal/core/domain/common"
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	"accounts/internal/core/services/auth"
	"context"
	"errors"
)

// UserID is taken as sent by the client, so that authentication runs
// before the id is looked at.
type Input struct {
	Requester c.Optional[user.User]
	UserID    string
}

func (i Input) WithAuthenticatedUser(u user.User) auth.Input {
	i.Requester = c.Some(u)
	return i
}

type Result struct {
	User user.User
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	id, err := user.ParseID(input.UserID)
	if err != nil {
		return result, user.ErrUserDoesNotExist
	}

	u, err := s.userRepository.GetByID(ctx, id)
	if errors.Is(err, context.Canceled) || errors.Is(err, user.ErrUserDoesNotExist) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user.",
			logging.Entry("userId", input.UserID),
			logging.Entry("err", err),
		)
		return result, err
	}
	return Result{User: u}, nil
}
