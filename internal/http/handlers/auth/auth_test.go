package auth

import (
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services/auth"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseToken(t *testing.T) {
	cases := []struct {
		header        string
		expectedToken user.SessionToken
		expectedOk    bool
	}{
		{header: "", expectedOk: false},
		{header: "Bearer abc", expectedToken: "abc", expectedOk: true},
		{header: "Bearer ", expectedOk: false},
		{header: "Basic abc", expectedOk: false},
		{header: "abc", expectedOk: false},
		{header: "Bearer " + strings.Repeat("a", AUTH_TOKEN_MAX_LEN+1), expectedOk: false},
	}
	for _, testcase := range cases {
		t.Run(testcase.header, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if testcase.header != "" {
				r.Header.Set("Authorization", testcase.header)
			}

			token, ok := ParseToken(r)

			assert.Equal(t, testcase.expectedOk, ok)
			assert.Equal(t, testcase.expectedToken, token)
		})
	}
}

func TestSetAuthTokenToContext(t *testing.T) {
	var actual interface{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actual = r.Context().Value(auth.CONTEXT_AUTH_TOKEN_KEY)
	})
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer abc")

	SetAuthTokenToContext(next).ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, user.SessionToken("abc"), actual)
}

func TestSetAuthTokenToContextWithoutHeader(t *testing.T) {
	var actual interface{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actual = r.Context().Value(auth.CONTEXT_AUTH_TOKEN_KEY)
	})

	SetAuthTokenToContext(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Nil(t, actual)
}
