package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for every verification failure. Callers must
// not be able to distinguish a bad signature from an expired or malformed
// credential.
var ErrInvalidToken = errors.New("invalid or expired token")

const tokenIssuer = "folio"

// TokenFormat discriminates between the current and the legacy credential
// scheme before signature verification.
type TokenFormat int

const (
	// FormatV2 is the current scheme: full identity snapshot, issuer claim.
	FormatV2 TokenFormat = iota
	// FormatLegacy is the pre-rewrite scheme: username and role only,
	// signed with a separate secret and carrying no issuer.
	FormatLegacy
)

// Claims is the v2 token payload: a snapshot of the identity at issuance.
type Claims struct {
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"perms"`
	FirstName   string   `json:"firstName,omitempty"`
	LastName    string   `json:"lastName,omitempty"`
	jwt.RegisteredClaims
}

type legacyClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies bearer credentials. Verification is stateless
// apart from the optional revocation list.
type Tokens struct {
	secret       []byte
	legacySecret []byte
	ttl          time.Duration
	revoked      RevocationList
}

// NewTokens constructs the token service. legacySecret may be empty, which
// disables legacy verification entirely.
func NewTokens(secret, legacySecret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), legacySecret: []byte(legacySecret), ttl: ttl}
}

// WithRevocationList enables early retirement of tokens on logout.
func (t *Tokens) WithRevocationList(list RevocationList) *Tokens {
	t.revoked = list
	return t
}

// TTL returns the validity window applied to issued tokens.
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue embeds the identity snapshot into a signed, expiring credential.
func (t *Tokens) Issue(id Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:       id.Email,
		Role:        id.Role,
		Permissions: id.Permissions,
		FirstName:   id.FirstName,
		LastName:    id.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			Issuer:    tokenIssuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// DetectFormat inspects the unverified issuer claim to pick the variant.
// Signature verification happens afterwards, per variant.
func DetectFormat(raw string) TokenFormat {
	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return FormatV2
	}
	if iss, err := token.Claims.GetIssuer(); err == nil && iss == tokenIssuer {
		return FormatV2
	}
	return FormatLegacy
}

// Verify checks the credential against its variant's signature and expiry
// and reconstructs an Identity purely from the embedded claims. The store
// is never consulted, so permission changes after issuance only take effect
// once the token is reissued.
func (t *Tokens) Verify(ctx context.Context, raw string) (Identity, error) {
	var (
		id  Identity
		jti string
		err error
	)
	switch DetectFormat(raw) {
	case FormatLegacy:
		id, jti, err = t.verifyLegacy(raw)
	default:
		id, jti, err = t.verifyV2(raw)
	}
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	if t.revoked != nil && jti != "" {
		if revoked, rerr := t.revoked.IsRevoked(ctx, jti); rerr == nil && revoked {
			return Identity{}, ErrInvalidToken
		}
	}
	return id, nil
}

func (t *Tokens) verifyV2(raw string) (Identity, string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, "", err
	}
	id := Identity{
		ID:          claims.Subject,
		Email:       claims.Email,
		Role:        claims.Role,
		Permissions: claims.Permissions,
		FirstName:   claims.FirstName,
		LastName:    claims.LastName,
	}
	return id, claims.ID, nil
}

// verifyLegacy validates the old scheme and expands its role through the
// registration default table for the duration of the request only.
func (t *Tokens) verifyLegacy(raw string) (Identity, string, error) {
	if len(t.legacySecret) == 0 {
		return Identity{}, "", ErrInvalidToken
	}
	var claims legacyClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return t.legacySecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, "", err
	}
	id := Identity{
		Email:       claims.Username,
		Role:        claims.Role,
		Permissions: DefaultPermissions(claims.Role),
	}
	return id, claims.ID, nil
}

// Revoke retires a still-valid token ahead of its expiry. Without a
// configured revocation list this is a no-op, matching the stateless
// logout contract.
func (t *Tokens) Revoke(ctx context.Context, raw string) error {
	if t.revoked == nil {
		return nil
	}
	var claims Claims
	if _, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer)); err != nil {
		return nil
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	return t.revoked.Revoke(ctx, claims.ID, remaining)
}

// ExtractToken finds the bearer credential in the request: the
// Authorization header takes precedence, then the cookie.
func ExtractToken(r *http.Request, cookieName string) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token, true
			}
		}
	}
	if cookieName != "" {
		if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
			return cookie.Value, true
		}
	}
	return "", false
}
