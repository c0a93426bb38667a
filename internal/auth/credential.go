package auth

import (
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credential supplies a bearer token and knows whether it is still usable.
type Credential interface {
	Token() string
	Valid(now time.Time) bool
}

// StaticCredential is an opaque token with no expiry of its own.
type StaticCredential string

func (s StaticCredential) Token() string { return string(s) }

func (s StaticCredential) Valid(time.Time) bool {
	return strings.TrimSpace(string(s)) != ""
}

// JWTCredential carries a JWT access token and its parsed expiry. The token
// is never verified locally; the API is the authority, the client only needs
// the exp claim to know when to stop sending it.
type JWTCredential struct {
	token  string
	expiry time.Time
}

var jwtParser = jwt.NewParser()

// NewJWTCredential parses the token's registered claims without verifying
// the signature. Tokens that do not parse as JWTs are rejected.
func NewJWTCredential(token string) (*JWTCredential, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwtParser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	cred := &JWTCredential{token: token}
	if claims.ExpiresAt != nil {
		cred.expiry = claims.ExpiresAt.Time
	}
	return cred, nil
}

func (j *JWTCredential) Token() string { return j.token }

// Valid reports whether the token has not expired. Tokens without an exp
// claim never expire client-side.
func (j *JWTCredential) Valid(now time.Time) bool {
	if j == nil || j.token == "" {
		return false
	}
	if j.expiry.IsZero() {
		return true
	}
	return now.Before(j.expiry)
}

// CredentialHolder is a swappable credential slot. The commerce client reads
// it on every request, so a login or logout takes effect immediately without
// rebuilding the client.
type CredentialHolder struct {
	mu   sync.RWMutex
	cred Credential
}

func NewCredentialHolder() *CredentialHolder {
	return &CredentialHolder{}
}

// Set replaces the held credential. A nil credential clears the slot.
func (h *CredentialHolder) Set(cred Credential) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cred = cred
}

// Token returns the held token, or empty when no valid credential is set.
func (h *CredentialHolder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.cred == nil || !h.cred.Valid(time.Now()) {
		return ""
	}
	return h.cred.Token()
}

// Authenticated reports whether a currently valid credential is held.
func (h *CredentialHolder) Authenticated() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cred != nil && h.cred.Valid(time.Now())
}
