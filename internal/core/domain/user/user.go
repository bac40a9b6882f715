package user

import (
	c "accounts/internal/core/domain/common"
	e "accounts/internal/core/domain/errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ID uuid.UUID

func NewID() ID {
	return ID(uuid.New())
}

func ParseID(raw string) (ID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return ID{}, err
	}
	return ID(id), nil
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

type User struct {
	ID            ID
	Email         c.Email
	FullName      string
	Phone         string
	PasswordHash  PasswordHash
	PasswordReset c.Optional[PasswordReset]
	CreatedAt     time.Time
}

func (u *User) Validate() error {
	if u.Email == "" {
		return e.NewInvalidStateError(fmt.Sprintf("email is not set for user %s", u.ID))
	}
	if u.PasswordHash == "" {
		return e.NewInvalidStateError(fmt.Sprintf("password hash is not set for user %s", u.ID))
	}
	if u.PasswordReset.IsPresent {
		if u.PasswordReset.Value.TokenHash == "" || u.PasswordReset.Value.ExpiresAt.IsZero() {
			return e.NewInvalidStateError(fmt.Sprintf("incomplete password reset for user %s", u.ID))
		}
	}
	return nil
}

// HasPendingPasswordReset reports whether a reset token was issued and is not expired at the moment.
func (u *User) HasPendingPasswordReset(at time.Time) bool {
	return u.PasswordReset.IsPresent && u.PasswordReset.Value.ExpiresAt.After(at)
}
