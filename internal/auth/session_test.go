package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blissbyuddy/storefront-client/internal/commerce"
	pkgerrors "github.com/blissbyuddy/storefront-client/pkg/errors"
	"github.com/blissbyuddy/storefront-client/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "auth-test",
		Level:       zerolog.Disabled,
		Output:      io.Discard,
	})
}

func newTestSession(t *testing.T, handler http.Handler) (*Session, *CredentialHolder) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	holder := NewCredentialHolder()
	client, err := commerce.New(commerce.Options{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
		Credential: holder,
		Logger:     testLogger(),
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	session, err := NewSession(SessionParams{
		Client: client,
		Holder: holder,
		Logger: testLogger(),
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return session, holder
}

func authRouter(t *testing.T) chi.Router {
	t.Helper()
	router := chi.NewRouter()
	router.Post("/auth/jwt/create", func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		json.NewDecoder(r.Body).Decode(&input)
		if input.Password != "s3cret-pass" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"access":  signedToken(t, time.Now().Add(time.Hour)),
			"refresh": signedToken(t, time.Now().Add(24*time.Hour)),
		})
	})
	router.Get("/auth/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(Account{ID: "u1", Email: "uddy@blissbyuddy.com", Name: "Uddy"})
	})
	router.Post("/auth/jwt/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return router
}

func TestLoginInstallsCredentialAndNotifies(t *testing.T) {
	t.Parallel()

	session, holder := newTestSession(t, authRouter(t))

	var transitions []bool
	session.Subscribe(func(_ context.Context, authenticated bool) {
		transitions = append(transitions, authenticated)
	})

	err := session.Login(context.Background(), LoginInput{
		Email:    "uddy@blissbyuddy.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !holder.Authenticated() {
		t.Fatal("expected credential to be installed")
	}
	if account := session.Account(); account == nil || account.ID != "u1" {
		t.Fatalf("expected profile, got %+v", account)
	}
	if len(transitions) != 1 || !transitions[0] {
		t.Fatalf("expected one authenticated transition, got %v", transitions)
	}
}

func TestLoginValidatesInputBeforeRequest(t *testing.T) {
	t.Parallel()

	var called bool
	router := chi.NewRouter()
	router.Post("/auth/jwt/create", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	session, _ := newTestSession(t, router)

	err := session.Login(context.Background(), LoginInput{Email: "not-an-email", Password: "short"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if called {
		t.Fatal("invalid input must not reach the API")
	}
}

func TestLoginSurfacesRejection(t *testing.T) {
	t.Parallel()

	session, holder := newTestSession(t, authRouter(t))

	err := session.Login(context.Background(), LoginInput{
		Email:    "uddy@blissbyuddy.com",
		Password: "wrong-password",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if holder.Authenticated() {
		t.Fatal("rejected login must not install a credential")
	}
}

func TestLoginSucceedsWhenProfileFetchFails(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Post("/auth/jwt/create", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access": signedToken(t, time.Now().Add(time.Hour))})
	})
	router.Get("/auth/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	session, holder := newTestSession(t, router)

	err := session.Login(context.Background(), LoginInput{
		Email:    "uddy@blissbyuddy.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("login should survive a profile fetch failure: %v", err)
	}
	if !holder.Authenticated() {
		t.Fatal("expected credential to be installed")
	}
	if session.Account() != nil {
		t.Fatal("profile should be nil when the fetch failed")
	}
}

func TestLogoutClearsSessionEvenWhenRevocationFails(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Post("/auth/jwt/create", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access": signedToken(t, time.Now().Add(time.Hour))})
	})
	router.Get("/auth/users/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Account{ID: "u1"})
	})
	router.Post("/auth/jwt/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	session, holder := newTestSession(t, router)
	if err := session.Login(context.Background(), LoginInput{
		Email:    "uddy@blissbyuddy.com",
		Password: "s3cret-pass",
	}); err != nil {
		t.Fatalf("login: %v", err)
	}

	var transitions []bool
	session.Subscribe(func(_ context.Context, authenticated bool) {
		transitions = append(transitions, authenticated)
	})

	session.Logout(context.Background())
	if holder.Authenticated() {
		t.Fatal("logout must clear the credential")
	}
	if session.Account() != nil {
		t.Fatal("logout must clear the profile")
	}
	if len(transitions) != 1 || transitions[0] {
		t.Fatalf("expected one signed-out transition, got %v", transitions)
	}
}

func TestResumeAnnouncesExistingCredential(t *testing.T) {
	t.Parallel()

	session, holder := newTestSession(t, authRouter(t))

	var notified bool
	session.Subscribe(func(_ context.Context, authenticated bool) {
		notified = authenticated
	})

	session.Resume(context.Background())
	if notified {
		t.Fatal("resume without a credential should be silent")
	}

	holder.Set(StaticCredential("configured-token"))
	session.Resume(context.Background())
	if !notified {
		t.Fatal("resume with a credential should notify listeners")
	}
}
