package devtools

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionTTL is spec §4.16's "5 minute expiry" for a devtools session token.
const sessionTTL = 5 * time.Minute

// SessionClaims are the JWT claims gating a non-loopback devtools
// connection, mirroring internal/relay/jwt.go's HandoffClaims shape but
// HMAC-signed rather than ES256, since devtools has no existing relay
// keypair to reuse — it is a local debug surface, not a federated one.
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"session_id,omitempty"`
}

// IssueSessionToken creates an HS256 JWT good for sessionTTL, scoped to
// sessionID, per spec §4.16.
func IssueSessionToken(secret []byte, sessionID string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
		SessionID: sessionID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("devtools: sign session token: %w", err)
	}
	return signed, nil
}

// ValidateSessionToken verifies an HS256 JWT and returns its claims.
func ValidateSessionToken(secret []byte, tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("devtools: parse session token: %w", err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("devtools: invalid session token claims")
	}
	return claims, nil
}
