package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthorize(t *testing.T) {
	raw := "admin|" + hash(t, "s3cret") + "|Site Owner; editor|" + hash(t, "pw")
	a, err := ParseCredentials(raw)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Len())

	p, err := a.Authorize("admin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, Principal{Username: "admin", DisplayName: "Site Owner"}, p)

	p, err = a.Authorize("editor", "pw")
	require.NoError(t, err)
	assert.Equal(t, "editor", p.DisplayName)

	_, err = a.Authorize("admin", "wrong")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
	_, err = a.Authorize("nobody", "s3cret")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestParseCredentialsRejectsPlaintext(t *testing.T) {
	_, err := ParseCredentials("admin|password")
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = ParseCredentials("admin")
	assert.ErrorIs(t, err, errs.ErrValidation)

	a, err := ParseCredentials("")
	require.NoError(t, err)
	assert.Equal(t, 0, a.Len())
}

func TestTokensRoundTrip(t *testing.T) {
	tokens, err := NewTokens("0123456789abcdef0123", time.Hour)
	require.NoError(t, err)

	raw, expires, err := tokens.Issue(Principal{Username: "admin", DisplayName: "Site Owner"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	p, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, Principal{Username: "admin", DisplayName: "Site Owner"}, p)
}

func TestTokensRejectExpiredAndForeign(t *testing.T) {
	tokens, err := NewTokens("0123456789abcdef0123", time.Minute)
	require.NoError(t, err)

	raw, _, err := tokens.Issue(Principal{Username: "admin"})
	require.NoError(t, err)

	tokens.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = tokens.Verify(raw)
	assert.ErrorIs(t, err, errs.ErrInvalidToken)

	other, err := NewTokens("another-secret-of-length", time.Minute)
	require.NoError(t, err)
	foreign, _, err := other.Issue(Principal{Username: "admin"})
	require.NoError(t, err)
	_, err = tokens.Verify(foreign)
	assert.ErrorIs(t, err, errs.ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "admin"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Verify(none)
	assert.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestNewTokensRequiresSecret(t *testing.T) {
	_, err := NewTokens("short", time.Hour)
	assert.ErrorIs(t, err, errs.ErrConfigMissing)
}
