package listusers

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

const (
	DEFAULT_LIMIT = 100
	MAX_LIMIT     = 1000
)

type Input struct {
	Requester c.Optional[user.User]
	Limit     c.Optional[uint]
	Offset    uint
}

func (i Input) WithAuthenticatedUser(u user.User) auth.Input {
	i.Requester = c.Some(u)
	return i
}

type Result struct {
	Users      []user.User
	TotalCount uint
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
	limit := uint(DEFAULT_LIMIT)
	if input.Limit.IsPresent {
		limit = input.Limit.Value
	}
	if limit > MAX_LIMIT {
		limit = MAX_LIMIT
	}

	users, err := s.userRepository.List(ctx, user.ListUsersInput{Limit: limit, Offset: input.Offset})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not list users.", logging.Entry("err", err))
		return result, err
	}
	totalCount, err := s.userRepository.Count(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not count users.", logging.Entry("err", err))
		return result, err
	}

	s.log.Info(
		ctx,
		"Users listed.",
		logging.Entry("requesterId", input.Requester.Value.ID),
		logging.Entry("limit", limit),
		logging.Entry("offset", input.Offset),
		logging.Entry("count", len(users)),
	)
	return Result{Users: users, TotalCount: totalCount}, nil
}
