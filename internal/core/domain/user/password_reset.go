package user

import (
	"context"
	"time"
)

// PasswordResetToken is the plaintext token, it is only ever handed to the user.
type PasswordResetToken string

func (t PasswordResetToken) String() string {
	return "***"
}

type PasswordResetTokenHash string

type PasswordReset struct {
	TokenHash PasswordResetTokenHash
	ExpiresAt time.Time
}

type PasswordResetter interface {
	GenerateToken() (PasswordResetToken, error)
	HashToken(token PasswordResetToken) PasswordResetTokenHash
}

type PasswordResetTokenSender interface {
	SendPasswordResetToken(ctx context.Context, user User, token PasswordResetToken) error
}
