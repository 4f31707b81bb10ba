package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/foliohq/folio/internal/auth"
	_ "github.com/foliohq/folio/testing"
)

const (
	testSecret       = "token-secret"
	testLegacySecret = "legacy-secret"
)

func newTokens() *auth.Tokens {
	return auth.NewTokens(testSecret, testLegacySecret, time.Hour)
}

func testIdentity() auth.Identity {
	return auth.Identity{
		ID:          "11111111-2222-3333-4444-555555555555",
		Email:       "editor@folio.dev",
		Role:        auth.RoleEditor,
		Permissions: []string{auth.PermRead, auth.PermWrite},
		FirstName:   "Edda",
		LastName:    "Torres",
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	tokens := newTokens()
	want := testIdentity()

	raw, err := tokens.Issue(want)
	require.NoError(t, err)

	got, err := tokens.Verify(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, want.ID, got.ID)
	require.Equal(t, want.Email, got.Email)
	require.Equal(t, want.Role, got.Role)
	require.Equal(t, want.Permissions, got.Permissions)
	require.Equal(t, want.FirstName, got.FirstName)
	require.Equal(t, want.LastName, got.LastName)
}

func TestVerifyFailuresAreUniform(t *testing.T) {
	tokens := newTokens()
	raw, err := tokens.Issue(testIdentity())
	require.NoError(t, err)

	tampered := raw[:len(raw)-4] + "AAAA"

	expired := auth.NewTokens(testSecret, testLegacySecret, -time.Minute)
	expiredRaw, err := expired.Issue(testIdentity())
	require.NoError(t, err)

	wrongKey := auth.NewTokens("another-secret", "", time.Hour)
	wrongKeyRaw, err := wrongKey.Issue(testIdentity())
	require.NoError(t, err)

	for name, candidate := range map[string]string{
		"tampered":     tampered,
		"expired":      expiredRaw,
		"wrong secret": wrongKeyRaw,
		"malformed":    "not-a-token",
		"empty":        "",
	} {
		_, err := tokens.Verify(context.Background(), candidate)
		require.ErrorIs(t, err, auth.ErrInvalidToken, name)
	}
}

func signLegacy(t *testing.T, secret, username, role string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"role":     role,
		"exp":      exp.Unix(),
	})
	raw, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func TestLegacyTokenVerifies(t *testing.T) {
	tokens := newTokens()

	raw := signLegacy(t, testLegacySecret, "owner", auth.RoleAdmin, time.Now().Add(time.Hour))
	require.Equal(t, auth.FormatLegacy, auth.DetectFormat(raw))

	id, err := tokens.Verify(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, "owner", id.Email)
	require.Equal(t, auth.RoleAdmin, id.Role)
	require.ElementsMatch(t, auth.AllPermissions, id.Permissions)
}

func TestLegacyNonAdminGetsReadOnly(t *testing.T) {
	tokens := newTokens()

	raw := signLegacy(t, testLegacySecret, "writer", auth.RoleEditor, time.Now().Add(time.Hour))
	id, err := tokens.Verify(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, []string{auth.PermRead}, id.Permissions)
}

func TestLegacyDisabledWithoutSecret(t *testing.T) {
	tokens := auth.NewTokens(testSecret, "", time.Hour)

	raw := signLegacy(t, testLegacySecret, "owner", auth.RoleAdmin, time.Now().Add(time.Hour))
	_, err := tokens.Verify(context.Background(), raw)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLegacyWrongSecretRejected(t *testing.T) {
	tokens := newTokens()

	raw := signLegacy(t, "other-secret", "owner", auth.RoleAdmin, time.Now().Add(time.Hour))
	_, err := tokens.Verify(context.Background(), raw)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestDetectFormat(t *testing.T) {
	tokens := newTokens()
	v2, err := tokens.Issue(testIdentity())
	require.NoError(t, err)
	require.Equal(t, auth.FormatV2, auth.DetectFormat(v2))

	legacy := signLegacy(t, testLegacySecret, "owner", auth.RoleAdmin, time.Now().Add(time.Hour))
	require.Equal(t, auth.FormatLegacy, auth.DetectFormat(legacy))

	require.Equal(t, auth.FormatV2, auth.DetectFormat("garbage"))
}

func TestRevocation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tokens := newTokens().WithRevocationList(auth.NewRedisRevocations(client))

	raw, err := tokens.Issue(testIdentity())
	require.NoError(t, err)

	_, err = tokens.Verify(context.Background(), raw)
	require.NoError(t, err)

	require.NoError(t, tokens.Revoke(context.Background(), raw))

	_, err = tokens.Verify(context.Background(), raw)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRevokeWithoutListIsNoop(t *testing.T) {
	tokens := newTokens()
	raw, err := tokens.Issue(testIdentity())
	require.NoError(t, err)

	require.NoError(t, tokens.Revoke(context.Background(), raw))

	_, err = tokens.Verify(context.Background(), raw)
	require.NoError(t, err)
}

func TestExtractTokenHeaderPrecedence(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: "folio_token", Value: "cookie-token"})

	raw, ok := auth.ExtractToken(req, "folio_token")
	require.True(t, ok)
	require.Equal(t, "header-token", raw)
}

func TestExtractTokenCookieFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "folio_token", Value: "cookie-token"})

	raw, ok := auth.ExtractToken(req, "folio_token")
	require.True(t, ok)
	require.Equal(t, "cookie-token", raw)
}

func TestExtractTokenAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := auth.ExtractToken(req, "folio_token")
	require.False(t, ok)

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	_, ok = auth.ExtractToken(req, "folio_token")
	require.False(t, ok)
}

func TestExtractTokenBearerCaseInsensitive(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer lower-token")

	raw, ok := auth.ExtractToken(req, "")
	require.True(t, ok)
	require.Equal(t, "lower-token", raw)
	require.False(t, strings.Contains(raw, " "))
}

func TestHasPermissionIgnoresRole(t *testing.T) {
	id := auth.Identity{Role: auth.RoleAdmin, Permissions: []string{auth.PermRead}}
	require.True(t, auth.HasPermission(id, auth.PermRead))
	require.False(t, auth.HasPermission(id, auth.PermManageUsers))

	viewer := auth.Identity{Role: auth.RoleViewer, Permissions: []string{auth.PermManageUsers}}
	require.True(t, auth.HasPermission(viewer, auth.PermManageUsers))
}

func TestDefaultPermissions(t *testing.T) {
	require.ElementsMatch(t, auth.AllPermissions, auth.DefaultPermissions(auth.RoleAdmin))
	require.Equal(t, []string{auth.PermRead}, auth.DefaultPermissions(auth.RoleEditor))
	require.Equal(t, []string{auth.PermRead}, auth.DefaultPermissions(auth.RoleViewer))
}
