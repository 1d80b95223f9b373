package auth

import (
	"context"
	"net/http"
	"sync"

	"github.com/louisbranch/razzo/internal/services/web/blogapi"
	"github.com/louisbranch/razzo/internal/services/web/principal"
)

type fakeGateway struct {
	mu        sync.Mutex
	token     string
	err       error
	logins    []blogapi.LoginInput
	registers []blogapi.RegisterInput
}

func (f *fakeGateway) Login(_ context.Context, input blogapi.LoginInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins = append(f.logins, input)
	return f.token, f.err
}

func (f *fakeGateway) Register(_ context.Context, input blogapi.RegisterInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registers = append(f.registers, input)
	return f.token, f.err
}

func (f *fakeGateway) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.logins) + len(f.registers)
}

type fakeSessions struct {
	mu        sync.Mutex
	signInErr error
	tokens    []string
	signedOut int
	sessionID string
}

func (f *fakeSessions) SignIn(_ http.ResponseWriter, _ *http.Request, token string) (principal.Viewer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	if f.signInErr != nil {
		return principal.Viewer{}, f.signInErr
	}
	return principal.Viewer{SessionID: "s1", Token: token, User: blogapi.User{ID: "u1", Username: "ana"}}, nil
}

func (f *fakeSessions) SignOut(http.ResponseWriter, *http.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signedOut++
	return f.sessionID, nil
}
