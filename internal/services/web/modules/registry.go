package modules

import (
	"github.com/louisbranch/razzo/internal/services/web/modules/auth"
	"github.com/louisbranch/razzo/internal/services/web/modules/posts"
)

// Default returns the web modules in mount order. Signing out, or the
// session being discarded, releases the post list held for the session.
func Default(deps Dependencies) []Module {
	postsModule := posts.New(
		posts.WithGateway(deps.Gateway),
		posts.WithBase(deps.Base),
		posts.WithAssetBaseURL(deps.AssetBaseURL),
		posts.WithMaxUploadBytes(deps.MaxUploadBytes),
	)
	authModule := auth.New(
		auth.WithGateway(deps.Gateway),
		auth.WithSessions(deps.Sessions),
		auth.WithBase(deps.Base),
		auth.WithLimiter(deps.AuthLimiter),
		auth.WithSchemePolicy(deps.SchemePolicy),
		auth.WithLogoutHook(postsModule.Release),
	)
	if deps.SessionEvents != nil {
		deps.SessionEvents.OnDiscard(postsModule.Release)
	}
	return []Module{authModule, postsModule}
}
