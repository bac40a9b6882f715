package sendpasswordresettoken

import (
	c "accounts/internal/core/domain/common"
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	"context"
	"errors"
	"fmt"
	"time"
)

const rollbackTimeout = 5 * time.Second

type Input struct {
	Email c.Email
}

type Result struct {
	Token     user.PasswordResetToken
	ExpiresAt time.Time
}

type service struct {
	log                 logging.Logger
	userRepository      user.UserRepository
	passwordResetter    user.PasswordResetter
	sender              user.PasswordResetTokenSender
	validDuration       time.Duration
	notificationTimeout time.Duration
	now                 func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	passwordResetter user.PasswordResetter,
	sender user.PasswordResetTokenSender,
	validDuration time.Duration,
	notificationTimeout time.Duration,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if passwordResetter == nil {
		panic(e.NewNilArgumentError("passwordResetter"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	if validDuration <= 0 {
		panic("password reset valid duration must be positive")
	}
	if notificationTimeout <= 0 {
		panic("notification timeout must be positive")
	}
	return &service{
		log:                 log,
		userRepository:      userRepository,
		passwordResetter:    passwordResetter,
		sender:              sender,
		validDuration:       validDuration,
		notificationTimeout: notificationTimeout,
		now:                 now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	u, err := s.userRepository.GetByEmail(ctx, input.Email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "User not found for password reset.", logging.Entry("email", input.Email))
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user for password reset.",
			logging.Entry("email", input.Email),
			logging.Entry("err", err),
		)
		return result, err
	}

	token, err := s.passwordResetter.GenerateToken()
	if err != nil {
		s.log.Error(ctx, "Could not generate password reset token.", logging.Entry("err", err))
		return result, err
	}
	reset := user.PasswordReset{
		TokenHash: s.passwordResetter.HashToken(token),
		ExpiresAt: s.now().Add(s.validDuration),
	}
	err = s.userRepository.SetPasswordReset(ctx, u.ID, reset)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not save password reset token.",
			logging.Entry("userId", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	if err := s.send(ctx, u, token); err != nil {
		s.log.Error(
			ctx,
			"Could not send password reset token, revoking it.",
			logging.Entry("userId", u.ID),
			logging.Entry("err", err),
		)
		if rollbackErr := s.revoke(ctx, u.ID, reset.TokenHash); rollbackErr != nil {
			s.log.Error(
				ctx,
				"Could not revoke unsent password reset token.",
				logging.Entry("userId", u.ID),
				logging.Entry("err", rollbackErr),
			)
			return result, errors.Join(fmt.Errorf("%w: %w", user.ErrPasswordResetTokenNotSent, err), rollbackErr)
		}
		return result, fmt.Errorf("%w: %w", user.ErrPasswordResetTokenNotSent, err)
	}

	s.log.Info(
		ctx,
		"Password reset token has been sent to the user.",
		logging.Entry("userId", u.ID),
		logging.Entry("expiresAt", reset.ExpiresAt),
	)
	return Result{Token: token, ExpiresAt: reset.ExpiresAt}, nil
}

func (s *service) send(ctx context.Context, u user.User, token user.PasswordResetToken) error {
	ctx, cancel := context.WithTimeout(ctx, s.notificationTimeout)
	defer cancel()
	return s.sender.SendPasswordResetToken(ctx, u, token)
}

// revoke must run even if the request context is already canceled.
func (s *service) revoke(ctx context.Context, id user.ID, tokenHash user.PasswordResetTokenHash) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()
	return s.userRepository.ClearPasswordReset(ctx, id, tokenHash)
}
