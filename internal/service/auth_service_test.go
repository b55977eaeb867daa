package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/api"
	"github.com/NouhaAwachri/Zenfit-Trainer-App/utilities"
)

func newTestAuth(t *testing.T, handler http.Handler) (AuthService, *utilities.EventBus) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	bus := utilities.NewEventBus()
	return NewAuthService(api.NewCoachClient(srv.URL, 2*time.Second), bus), bus
}

func TestSignInPublishesAuthState(t *testing.T) {
	auth, bus := newTestAuth(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			w.Write([]byte(`{"status": "success", "uid": "u-1", "email": "a@b.c", "display_name": "A", "idToken": "tok"}`))
		case "/auth/verify":
			w.Write([]byte(`{"status": "success", "uid": "u-1"}`))
		default:
			http.NotFound(w, r)
		}
	}))

	var events []interface{}
	bus.Subscribe(utilities.EventAuthStateChanged, func(data interface{}) {
		events = append(events, data)
	})

	user, err := auth.SignIn(context.Background(), "a@b.c", "pw")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if user.UID != "u-1" || user.IDToken != "tok" {
		t.Errorf("user = %+v", user)
	}
	if auth.CurrentUser() == nil {
		t.Error("current user not stored")
	}
	if len(events) != 1 {
		t.Errorf("auth events = %d, want 1", len(events))
	}

	uid, err := auth.Verify(context.Background())
	if err != nil || uid != "u-1" {
		t.Errorf("Verify = %q, %v", uid, err)
	}

	auth.SignOut()
	if auth.CurrentUser() != nil {
		t.Error("current user survives sign-out")
	}
	if len(events) != 2 {
		t.Errorf("auth events = %d, want 2", len(events))
	}
	if _, err := auth.Verify(context.Background()); err == nil {
		t.Error("verify after sign-out must fail")
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	auth, _ := newTestAuth(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "error", "message": "invalid credentials"}`))
	}))

	_, err := auth.SignIn(context.Background(), "a@b.c", "wrong")
	be, ok := api.AsBackendError(err)
	if !ok || be.Message != "invalid credentials" {
		t.Fatalf("got %v", err)
	}
	if auth.CurrentUser() != nil {
		t.Error("failed sign-in stored a user")
	}
	if _, err := auth.SignIn(context.Background(), "", ""); err == nil {
		t.Error("empty credentials accepted")
	}
}
