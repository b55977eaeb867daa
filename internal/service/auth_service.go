package service

import (
	"context"
	"errors"
	"sync"

	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/api"
	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/model"
	"github.com/NouhaAwachri/Zenfit-Trainer-App/utilities"
)

// AuthService wraps the third-party identity provider. The rest of the
// app treats it as a black box: sign in, sign out, and an auth-state
// change notification on the global event bus.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*model.AuthUser, error)
	SignUp(ctx context.Context, username, email, password string) (*model.AuthUser, error)
	SignOut()
	Verify(ctx context.Context) (string, error)
	CurrentUser() *model.AuthUser
}

type authService struct {
	client *api.CoachClient
	bus    *utilities.EventBus

	mu      sync.Mutex
	current *model.AuthUser
}

// NewAuthService initializes the authentication service.
func NewAuthService(client *api.CoachClient, bus *utilities.EventBus) AuthService {
	if bus == nil {
		bus = utilities.GlobalEventBus
	}
	return &authService{client: client, bus: bus}
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*model.AuthUser, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	user, err := s.client.Login(ctx, email, password)
	if err != nil {
		utilities.Warn("sign-in failed for %s: %v", email, err)
		return nil, err
	}

	s.mu.Lock()
	s.current = user
	s.mu.Unlock()

	utilities.Info("signed in as %s (%s)", user.DisplayName, user.UID)
	s.bus.Publish(utilities.EventAuthStateChanged, user)
	return user, nil
}

func (s *authService) SignUp(ctx context.Context, username, email, password string) (*model.AuthUser, error) {
	if username == "" || email == "" || password == "" {
		return nil, errors.New("username, email and password are required")
	}

	user, err := s.client.Signup(ctx, username, email, password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = user
	s.mu.Unlock()

	s.bus.Publish(utilities.EventAuthStateChanged, user)
	return user, nil
}

func (s *authService) SignOut() {
	s.mu.Lock()
	was := s.current
	s.current = nil
	s.mu.Unlock()

	if was != nil {
		utilities.Info("signed out %s", was.UID)
	}
	s.bus.Publish(utilities.EventAuthStateChanged, (*model.AuthUser)(nil))
}

// Verify re-checks the stored idToken with the provider and returns the
// uid it maps to.
func (s *authService) Verify(ctx context.Context) (string, error) {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()
	if current == nil || current.IDToken == "" {
		return "", errors.New("not signed in")
	}
	return s.client.Verify(ctx, current.IDToken)
}

func (s *authService) CurrentUser() *model.AuthUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
