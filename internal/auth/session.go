package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/blissbyuddy/storefront-client/internal/commerce"
	pkgerrors "github.com/blissbyuddy/storefront-client/pkg/errors"
	"github.com/blissbyuddy/storefront-client/pkg/logger"
)

// Listener observes authentication state transitions.
type Listener func(ctx context.Context, authenticated bool)

// LoginInput carries the credentials submitted to the API.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Account is the signed-in user's profile as returned by the API.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// SessionParams wires the session dependencies.
type SessionParams struct {
	Client *commerce.Client
	Holder *CredentialHolder
	Logger *logger.Logger
}

// Session drives login and logout against the commerce API and fans auth
// transitions out to listeners. Tokens live only in memory.
type Session struct {
	client *commerce.Client
	holder *CredentialHolder
	logg   *logger.Logger

	mu        sync.Mutex
	account   *Account
	listeners []Listener
}

func NewSession(params SessionParams) (*Session, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("commerce client required")
	}
	if params.Holder == nil {
		return nil, fmt.Errorf("credential holder required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Session{
		client: params.Client,
		holder: params.Holder,
		logg:   params.Logger,
	}, nil
}

// Subscribe registers a listener for auth transitions. Listeners are called
// synchronously after the credential state has settled.
func (s *Session) Subscribe(listener Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// Authenticated reports whether a valid credential is held.
func (s *Session) Authenticated() bool {
	return s.holder.Authenticated()
}

// Account returns the signed-in profile, nil when signed out or when the
// profile fetch failed.
func (s *Session) Account() *Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// Login validates the input, exchanges it for a token pair and installs the
// access token. The profile fetch afterwards is best-effort.
func (s *Session) Login(ctx context.Context, input LoginInput) error {
	if err := ValidateInput(input); err != nil {
		return err
	}

	var pair tokenPair
	if _, err := s.client.Post(ctx, "/auth/jwt/create", input, &pair); err != nil {
		s.logg.Warn(s.logg.WithOperation(ctx, "login"), "login rejected")
		return err
	}
	if pair.Access == "" {
		return pkgerrors.New(pkgerrors.CodeDependency, "token missing from login response")
	}

	cred, err := NewJWTCredential(pair.Access)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "malformed access token")
	}
	s.holder.Set(cred)

	var account Account
	if err := s.client.Get(ctx, "/auth/users/me", &account); err != nil {
		s.logg.Warn(s.logg.WithOperation(ctx, "login"), "profile fetch failed after login")
	} else {
		s.mu.Lock()
		s.account = &account
		s.mu.Unlock()
	}

	s.notify(ctx, true)
	return nil
}

// Logout clears the credential. The server-side revocation is best-effort;
// the local session ends regardless of the API's answer.
func (s *Session) Logout(ctx context.Context) {
	if _, err := s.client.Post(ctx, "/auth/jwt/logout", nil, nil); err != nil {
		s.logg.Warn(s.logg.WithOperation(ctx, "logout"), "token revocation failed")
	}

	s.holder.Set(nil)
	s.mu.Lock()
	s.account = nil
	s.mu.Unlock()

	s.notify(ctx, false)
}

// Resume announces an already-installed credential to listeners, used at
// startup when a token arrives via configuration.
func (s *Session) Resume(ctx context.Context) {
	if !s.holder.Authenticated() {
		return
	}
	s.notify(ctx, true)
}

func (s *Session) notify(ctx context.Context, authenticated bool) {
	s.mu.Lock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(ctx, authenticated)
	}
}
