package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := IssueToken("kamal@youtools.com", []string{"admin"}, time.Now())
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "kamal@youtools.com", claims.Subject)
	assert.Equal(t, []string{"admin"}, claims.Roles)
}

func TestIssueToken_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := IssueToken("kamal@youtools.com", []string{"admin"}, time.Now())
	assert.Error(t, err)
}

func TestParseToken_RejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := IssueToken("kamal@youtools.com", []string{"admin"}, time.Now().Add(-48*time.Hour))
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-one")
	token, err := IssueToken("kamal@youtools.com", []string{"admin"}, time.Now())
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-two")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestGetBearerToken(t *testing.T) {
	t.Run("authorization header", func(t *testing.T) {
		r, _ := http.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer abc123")
		assert.Equal(t, "abc123", GetBearerToken(r))
	})

	t.Run("session cookie fallback", func(t *testing.T) {
		r, _ := http.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})
		assert.Equal(t, "cookie-token", GetBearerToken(r))
	})

	t.Run("header wins over cookie", func(t *testing.T) {
		r, _ := http.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer header-token")
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})
		assert.Equal(t, "header-token", GetBearerToken(r))
	})

	t.Run("nothing present", func(t *testing.T) {
		r, _ := http.NewRequest(http.MethodGet, "/", nil)
		assert.Empty(t, GetBearerToken(r))
	})
}

func TestAuthenticate(t *testing.T) {
	t.Setenv("ADMIN_CREDENTIALS", "kamal@youtools.com:hunter2")

	t.Run("valid credentials", func(t *testing.T) {
		u := Authenticate("kamal@youtools.com", "hunter2")
		require.NotNil(t, u)
		assert.True(t, u.IsAdmin)
		assert.Equal(t, "Kamal", u.FirstName)
	})

	t.Run("username case insensitive", func(t *testing.T) {
		assert.NotNil(t, Authenticate("Kamal@YouTools.com", "hunter2"))
	})

	t.Run("wrong password", func(t *testing.T) {
		assert.Nil(t, Authenticate("kamal@youtools.com", "nope"))
	})

	t.Run("account without configured password", func(t *testing.T) {
		assert.Nil(t, Authenticate("rabih@youtools.com", ""))
	})

	t.Run("unknown user", func(t *testing.T) {
		assert.Nil(t, Authenticate("stranger@youtools.com", "hunter2"))
	})
}

func TestHasRole(t *testing.T) {
	assert.True(t, HasRole([]string{"admin", "editor"}, "admin"))
	assert.False(t, HasRole([]string{"editor"}, "admin"))
	assert.True(t, HasAnyRole([]string{"editor"}, "admin", "editor"))
	assert.False(t, HasAnyRole(nil, "admin"))
}
