package user

import (
	c "accounts/internal/core/domain/common"
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

type FakeSessionIssuer struct {
	ReturnError bool
}

func NewFakeSessionIssuer() *FakeSessionIssuer {
	return &FakeSessionIssuer{}
}

func (i *FakeSessionIssuer) IssueToken(u User) (SessionToken, error) {
	if i.ReturnError {
		return SessionToken(""), fmt.Errorf("could not issue session token for user %s", u.ID)
	}
	return SessionToken("session-" + u.ID.String()), nil
}

func (i *FakeSessionIssuer) ParseToken(token SessionToken) (ID, error) {
	rawID, ok := strings.CutPrefix(string(token), "session-")
	if !ok {
		return ID{}, ErrInvalidSessionToken
	}
	id, err := ParseID(rawID)
	if err != nil {
		return ID{}, ErrInvalidSessionToken
	}
	return id, nil
}

// FakePasswordResetter generates "token-1", "token-2", ... and hashes them by prefixing.
type FakePasswordResetter struct {
	Generated   []PasswordResetToken
	ReturnError bool
	lock        sync.Mutex
}

func NewFakePasswordResetter() *FakePasswordResetter {
	return &FakePasswordResetter{}
}

func (r *FakePasswordResetter) GenerateToken() (PasswordResetToken, error) {
	if r.ReturnError {
		return PasswordResetToken(""), fmt.Errorf("could not generate password reset token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	token := PasswordResetToken(fmt.Sprintf("token-%d", len(r.Generated)+1))
	r.Generated = append(r.Generated, token)
	return token, nil
}

func (r *FakePasswordResetter) HashToken(token PasswordResetToken) PasswordResetTokenHash {
	return PasswordResetTokenHash("hash:" + string(token))
}

type FakePasswordResetTokenSender struct {
	Sent        []PasswordResetToken
	SentTo      []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakePasswordResetTokenSender() *FakePasswordResetTokenSender {
	return &FakePasswordResetTokenSender{}
}

func (s *FakePasswordResetTokenSender) SendPasswordResetToken(
	ctx context.Context,
	user User,
	token PasswordResetToken,
) error {
	if s.ReturnError {
		return fmt.Errorf("could not send password reset token")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, token)
	s.SentTo = append(s.SentTo, user)
	return nil
}

func (s *FakePasswordResetTokenSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Sent)
}

type FakeUserRepository struct {
	Users       []User
	Writes      int
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not create user %v", input.Email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, existing := range r.Users {
		if existing.Email == input.Email {
			return u, ErrEmailAlreadyExists
		}
	}
	u = User{
		ID:           NewID(),
		Email:        input.Email,
		FullName:     input.FullName,
		Phone:        input.Phone,
		PasswordHash: input.PasswordHash,
		CreatedAt:    input.CreatedAt,
	}
	r.Users = append(r.Users, u)
	r.Writes++
	return u, nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %s", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByEmail(ctx context.Context, email c.Email) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %s", email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) List(ctx context.Context, input ListUsersInput) ([]User, error) {
	if r.ReturnError {
		return nil, fmt.Errorf("could not list users")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	users := make([]User, len(r.Users))
	copy(users, r.Users)
	sort.SliceStable(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	if input.Offset >= uint(len(users)) {
		return []User{}, nil
	}
	users = users[input.Offset:]
	if input.Limit < uint(len(users)) {
		users = users[:input.Limit]
	}
	return users, nil
}

func (r *FakeUserRepository) Count(ctx context.Context) (uint, error) {
	if r.ReturnError {
		return 0, fmt.Errorf("could not count users")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	return uint(len(r.Users)), nil
}

func (r *FakeUserRepository) SetPasswordReset(ctx context.Context, id ID, reset PasswordReset) error {
	if r.ReturnError {
		return fmt.Errorf("could not set password reset for user %s", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id {
			r.Users[ix].PasswordReset = c.Some(reset)
			r.Writes++
			return nil
		}
	}
	return ErrUserDoesNotExist
}

func (r *FakeUserRepository) ClearPasswordReset(ctx context.Context, id ID, tokenHash PasswordResetTokenHash) error {
	if r.ReturnError {
		return fmt.Errorf("could not clear password reset for user %s", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id && u.PasswordReset.IsPresent && u.PasswordReset.Value.TokenHash == tokenHash {
			r.Users[ix].PasswordReset = c.None[PasswordReset]()
			r.Writes++
			return nil
		}
	}
	return nil
}

func (r *FakeUserRepository) GetByPasswordResetToken(
	ctx context.Context,
	tokenHash PasswordResetTokenHash,
	at time.Time,
) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user by password reset token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.HasPendingPasswordReset(at) && u.PasswordReset.Value.TokenHash == tokenHash {
			return u, nil
		}
	}
	return u, ErrInvalidPasswordResetToken
}

func (r *FakeUserRepository) ResetPassword(ctx context.Context, input ResetPasswordInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not reset password for user %s", input.ID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == input.ID && u.HasPendingPasswordReset(input.At) && u.PasswordReset.Value.TokenHash == input.TokenHash {
			r.Users[ix].PasswordHash = input.PasswordHash
			r.Users[ix].PasswordReset = c.None[PasswordReset]()
			r.Writes++
			return r.Users[ix], nil
		}
	}
	return u, ErrInvalidPasswordResetToken
}
