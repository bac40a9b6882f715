package services

import (
	"accounts/internal/app/deps"
	"accounts/internal/core/services"
	"accounts/internal/core/services/auth"
	getuser "accounts/internal/core/services/get_user"
	listusers "accounts/internal/core/services/list_users"
	loginwithemail "accounts/internal/core/services/log_in_with_email"
	resetpassword "accounts/internal/core/services/reset_password"
	sendpasswordresettoken "accounts/internal/core/services/send_password_reset_token"
	signupwithemail "accounts/internal/core/services/sign_up_with_email"
)

type Services struct {
	SignUpWithEmail        services.Service[signupwithemail.Input, signupwithemail.Result]
	LogInWithEmail         services.Service[loginwithemail.Input, loginwithemail.Result]
	SendPasswordResetToken services.Service[sendpasswordresettoken.Input, sendpasswordresettoken.Result]
	ResetPassword          services.Service[resetpassword.Input, resetpassword.Result]

	ListUsers services.Service[listusers.Input, listusers.Result]
	GetUser   services.Service[getuser.Input, getuser.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.SignUpWithEmail = signupwithemail.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.PasswordHasher,
		deps.Now,
	)
	s.LogInWithEmail = loginwithemail.New(
		deps.Logger,
		deps.UserRepository,
		deps.PasswordHasher,
		deps.SessionIssuer,
	)
	s.SendPasswordResetToken = sendpasswordresettoken.New(
		deps.Logger,
		deps.UserRepository,
		deps.PasswordResetter,
		deps.PasswordResetTokenSender,
		deps.Config.PasswordResetValidDuration,
		deps.Config.NotificationTimeout,
		deps.Now,
	)
	s.ResetPassword = resetpassword.New(
		deps.Logger,
		deps.UserRepository,
		deps.PasswordResetter,
		deps.PasswordHasher,
		deps.Now,
	)

	s.ListUsers = auth.WithAuthentication(
		deps.SessionIssuer,
		deps.UserRepository,
		listusers.New(deps.Logger, deps.UserRepository),
	)
	s.GetUser = auth.WithAuthentication(
		deps.SessionIssuer,
		deps.UserRepository,
		getuser.New(deps.Logger, deps.UserRepository),
	)

	return s
}
