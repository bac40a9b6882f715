package user

import (
	c "accounts/internal/core/domain/common"
	"context"
	"time"
)

type CreateUserInput struct {
	Email        c.Email
	FullName     string
	Phone        string
	PasswordHash PasswordHash
	CreatedAt    time.Time
}

type ListUsersInput struct {
	Limit  uint
	Offset uint
}

type ResetPasswordInput struct {
	ID           ID
	TokenHash    PasswordResetTokenHash
	PasswordHash PasswordHash
	At           time.Time
}

type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (User, error)
	GetByID(ctx context.Context, id ID) (User, error)
	GetByEmail(ctx context.Context, email c.Email) (User, error)
	List(ctx context.Context, input ListUsersInput) ([]User, error)
	Count(ctx context.Context) (uint, error)

	// SetPasswordReset overwrites any previously issued reset token of the user.
	SetPasswordReset(ctx context.Context, id ID, reset PasswordReset) error
	// ClearPasswordReset removes the reset token only if it still has the given hash.
	ClearPasswordReset(ctx context.Context, id ID, tokenHash PasswordResetTokenHash) error
	// GetByPasswordResetToken returns the user whose reset token has the hash and expires after the moment.
	GetByPasswordResetToken(ctx context.Context, tokenHash PasswordResetTokenHash, at time.Time) (User, error)
	// ResetPassword sets the new password and clears the reset token in one update,
	// it fails with ErrInvalidPasswordResetToken if the token is no longer pending.
	ResetPassword(ctx context.Context, input ResetPasswordInput) (User, error)
}
