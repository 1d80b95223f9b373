package modules

import (
	"context"
	"net/http"
	"testing"

	"github.com/louisbranch/razzo/internal/services/web/blogapi"
	"github.com/louisbranch/razzo/internal/services/web/principal"
)

type stubGateway struct{}

func (stubGateway) Register(context.Context, blogapi.RegisterInput) (string, error) { return "", nil }
func (stubGateway) Login(context.Context, blogapi.LoginInput) (string, error)       { return "", nil }
func (stubGateway) ListPosts(context.Context) ([]blogapi.Post, error)               { return nil, nil }
func (stubGateway) GetPost(context.Context, string) (blogapi.Post, error)           { return blogapi.Post{}, nil }
func (stubGateway) CreatePost(context.Context, string, blogapi.PostInput) (blogapi.Post, error) {
	return blogapi.Post{}, nil
}
func (stubGateway) UpdatePost(context.Context, string, string, blogapi.PostInput) (blogapi.Post, error) {
	return blogapi.Post{}, nil
}
func (stubGateway) DeletePost(context.Context, string, string) error { return nil }
func (stubGateway) UploadImage(context.Context, string, blogapi.Upload) (string, error) {
	return "", nil
}

type stubSessions struct{}

func (stubSessions) SignIn(http.ResponseWriter, *http.Request, string) (principal.Viewer, error) {
	return principal.Viewer{}, nil
}
func (stubSessions) SignOut(http.ResponseWriter, *http.Request) (string, error) { return "", nil }

func TestDefaultModulesMountWithoutOverlap(t *testing.T) {
	t.Parallel()

	mods := Default(Dependencies{Gateway: stubGateway{}, Sessions: stubSessions{}})
	wantIDs := []string{"auth", "posts"}
	if len(mods) != len(wantIDs) {
		t.Fatalf("module count = %d, want %d", len(mods), len(wantIDs))
	}
	seen := map[string]string{}
	for i, mod := range mods {
		if mod.ID() != wantIDs[i] {
			t.Fatalf("module[%d] id = %q, want %q", i, mod.ID(), wantIDs[i])
		}
		mount, err := mod.Mount()
		if err != nil {
			t.Fatalf("Mount(%s) error = %v", mod.ID(), err)
		}
		if mount.Handler == nil || len(mount.Patterns) == 0 {
			t.Fatalf("module %s mount = %+v", mod.ID(), mount)
		}
		for _, pattern := range mount.Patterns {
			if owner, ok := seen[pattern]; ok {
				t.Fatalf("pattern %q owned by %s and %s", pattern, owner, mod.ID())
			}
			seen[pattern] = mod.ID()
		}
	}
}

func TestDefaultModulesRequireGateway(t *testing.T) {
	t.Parallel()

	for _, mod := range Default(Dependencies{}) {
		if _, err := mod.Mount(); err == nil {
			t.Fatalf("module %s mounted without gateway", mod.ID())
		}
	}
}

type recordingEvents struct {
	hooks []func(string)
}

func (e *recordingEvents) OnDiscard(fn func(sessionID string)) {
	e.hooks = append(e.hooks, fn)
}

func TestDefaultModulesSubscribeToDiscardedSessions(t *testing.T) {
	t.Parallel()

	events := &recordingEvents{}
	Default(Dependencies{Gateway: stubGateway{}, Sessions: stubSessions{}, SessionEvents: events})
	if len(events.hooks) != 1 {
		t.Fatalf("discard hooks = %d, want 1", len(events.hooks))
	}
	events.hooks[0]("s1")
	events.hooks[0]("")
}
