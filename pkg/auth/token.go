package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the token lifetime used when none is configured.
const DefaultTokenTTL = 24 * time.Hour

// Claims is the token payload: the standard registered claims plus the
// owning user's ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// TokenService issues and verifies HS256-signed bearer tokens. It is
// stateless: verification needs only the signing secret, and no issued
// token can be revoked early. The secret is read-only after construction
// and safe to share across concurrent verifications.
type TokenService struct {
	secret []byte
	ttl    time.Duration

	// now is injectable for tests.
	now func() time.Time
}

// NewTokenService creates a token service with the given signing secret
// and token lifetime. A zero ttl falls back to DefaultTokenTTL.
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: secret, ttl: ttl, now: time.Now}
}

// Issue produces a signed token binding the user ID to an absolute expiry
// instant (now + ttl).
func (s *TokenService) Issue(userID int64) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature and expiry and returns the encoded
// user ID. Expiry is checked first, so an expired token reports
// ErrExpiredToken even when its signature no longer verifies. Any other
// failure (bad signature, wrong algorithm, unparseable payload) reports
// ErrMalformedToken. Verification has no side effects and repeated calls
// on the same token return the same result.
func (s *TokenService) Verify(tokenString string) (int64, error) {
	// Expiry precedes signature verification: the claim is readable
	// without the secret, and an expired token is rejected as expired
	// no matter what else is wrong with it.
	var unverified Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &unverified); err != nil {
		return 0, ErrMalformedToken
	}
	if unverified.ExpiresAt != nil && !s.now().Before(unverified.ExpiresAt.Time) {
		return 0, ErrExpiredToken
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpiredToken
		}
		return 0, ErrMalformedToken
	}
	if !token.Valid || claims.UserID == 0 {
		return 0, ErrMalformedToken
	}

	return claims.UserID, nil
}
