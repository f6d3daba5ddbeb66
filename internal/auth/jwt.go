// Package auth provides JWT token generation and validation for the API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User registers or logs in with username + password
// 2. Server verifies credentials, issues a JWT access token
// 3. Token is returned in the body and stored in an HttpOnly cookie
// 4. On subsequent API calls, middleware reads the cookie (or the
//    Authorization: Bearer header), validates the JWT, and sets the
//    userID in the request context
//
// WHY JWT?
// JWT (JSON Web Token) is stateless: the server doesn't need to store
// session data. All the information needed (userID, expiry) is inside the
// signed token. The signature ensures nobody can tamper with it without
// the secret key.
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: algorithm + token type, {"alg":"HS256","typ":"JWT"}
//	- Payload: claims (data), {"sub":"userID","exp":1234567890}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
//
// The server can verify the signature without any DB lookup, just the secret.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer goes into the "iss" claim and is checked on validation, so
// tokens minted by other applications sharing a secret are rejected.
const tokenIssuer = "scriptlab"

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens.
// The same secret must be used for both operations.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. It embeds jwt.RegisteredClaims which includes
// standard fields like Issuer, Subject, ExpiresAt, IssuedAt.
//
// We use "sub" (Subject) to store the internal user ID.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a new JWT access token for the given userID.
//
// Token lifetime: 24 hours. After expiry, the client must log in again.
//
// Signing algorithm: HS256 (HMAC-SHA256). Symmetric, fast, and simple,
// which is a good fit for a single-server deployment.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, 24*time.Hour)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used in tests and for issuing shorter-lived tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string.
// Returns the userID (stored in the "sub" claim) if the token is valid.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired (ExpiresAt is in the future)
//   - Issuer matches (prevents tokens from other apps)
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
//
// ALGORITHM CONFUSION ATTACK:
// Without checking the algorithm, an attacker could send a token signed with
// "none" and the library might accept it. Passing jwt.WithValidMethods prevents this.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			// Reject tokens that aren't signed with HS256
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		// Translate jwt library errors into cleaner messages
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	userID := c.Subject
	if userID == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return userID, nil
}
