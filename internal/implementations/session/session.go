package session

import (
	"accounts/internal/core/domain/user"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "accounts"

// JWT issues stateless HS256 session tokens bound to the user id.
type JWT struct {
	secretKey     []byte
	validDuration time.Duration
	now           func() time.Time
}

func NewJWT(secretKey string, validDuration time.Duration, now func() time.Time) *JWT {
	if secretKey == "" {
		panic("session secret key must not be empty")
	}
	if validDuration <= 0 {
		panic("session valid duration must be positive")
	}
	return &JWT{secretKey: []byte(secretKey), validDuration: validDuration, now: now}
}

func (j *JWT) IssueToken(u user.User) (token user.SessionToken, err error) {
	now := j.now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   u.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.validDuration)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
	if err != nil {
		return token, fmt.Errorf("could not sign session token: %w", err)
	}
	return user.SessionToken(signed), nil
}

func (j *JWT) ParseToken(token user.SessionToken) (userID user.ID, err error) {
	claims := jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(
		string(token),
		&claims,
		func(t *jwt.Token) (interface{}, error) { return j.secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return userID, errors.Join(user.ErrInvalidSessionToken, err)
	}
	userID, err = user.ParseID(claims.Subject)
	if err != nil {
		return userID, errors.Join(user.ErrInvalidSessionToken, err)
	}
	return userID, nil
}
