package passwordresetter

import (
	"accounts/internal/core/domain/user"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"
)

const tokenSize = 32

// HMAC issues random reset tokens and stores them as HMAC-SHA256 digests
// keyed by the server secret, so a leaked table does not reveal usable tokens.
type HMAC struct {
	secretKey []byte
	random    io.Reader
}

func NewHMAC(secretKey string) *HMAC {
	return &HMAC{secretKey: []byte(secretKey), random: rand.Reader}
}

func (h *HMAC) GenerateToken() (token user.PasswordResetToken, err error) {
	b := make([]byte, tokenSize)
	if _, err := io.ReadFull(h.random, b); err != nil {
		return token, err
	}
	return user.PasswordResetToken(base64.RawURLEncoding.EncodeToString(b)), nil
}

func (h *HMAC) HashToken(token user.PasswordResetToken) user.PasswordResetTokenHash {
	mac := hmac.New(sha256.New, h.secretKey)
	io.WriteString(mac, string(token))
	return user.PasswordResetTokenHash(hex.EncodeToString(mac.Sum(nil)))
}
