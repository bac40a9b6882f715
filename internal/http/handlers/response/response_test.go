package response

import (
	c "accounts/internal/core/domain/common"
	"accounts/internal/core/domain/user"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	rw := httptest.NewRecorder()

	Render(rw, Message{Message: "ok"}, http.StatusOK)

	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Equal(t, "application/json", rw.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status": "success", "result": {"message": "ok"}}`, rw.Body.String())
}

func TestRenderError(t *testing.T) {
	rw := httptest.NewRecorder()

	RenderError(rw, "user does not exist", http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, rw.Code)
	assert.JSONEq(t, `{"status": "error", "error": "user does not exist"}`, rw.Body.String())
}

func TestRenderValidationError(t *testing.T) {
	rw := httptest.NewRecorder()
	err := validation.Errors{"email": errors.New("must be a valid email address")}

	RenderValidationError(rw, err)

	assert.Equal(t, http.StatusBadRequest, rw.Code)
	assert.JSONEq(
		t,
		`{"status": "error", "error": "invalid request data", "fields": {"email": "must be a valid email address"}}`,
		rw.Body.String(),
	)
}

func TestRenderValidationErrorWithoutFields(t *testing.T) {
	rw := httptest.NewRecorder()

	RenderValidationError(rw, errors.New("bad"))

	assert.Equal(t, http.StatusBadRequest, rw.Code)
	assert.JSONEq(t, `{"status": "error", "error": "bad"}`, rw.Body.String())
}

func TestUserHasNoSecrets(t *testing.T) {
	du := user.User{
		ID:           user.NewID(),
		Email:        c.Email("a@x.com"),
		FullName:     "Alice",
		PasswordHash: user.PasswordHash("secret-hash"),
		PasswordReset: c.Some(user.PasswordReset{
			TokenHash: user.PasswordResetTokenHash("secret-token-hash"),
			ExpiresAt: time.Now().UTC(),
		}),
		CreatedAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	content, err := json.Marshal(NewUser(du))
	require.Nil(t, err)

	assert.NotContains(t, string(content), "secret-hash")
	assert.NotContains(t, string(content), "secret-token-hash")
	fields := map[string]interface{}{}
	require.Nil(t, json.Unmarshal(content, &fields))
	assert.Equal(t, du.ID.String(), fields["id"])
	assert.Equal(t, "a@x.com", fields["email"])
	assert.Equal(t, "Alice", fields["full_name"])
	assert.Len(t, fields, 5)
}
