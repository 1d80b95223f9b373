// Package modules assembles the web feature modules.
package modules

import (
	module "github.com/louisbranch/razzo/internal/services/web/module"
	"github.com/louisbranch/razzo/internal/services/web/modules/auth"
	"github.com/louisbranch/razzo/internal/services/web/modules/posts"
	"github.com/louisbranch/razzo/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/razzo/internal/services/web/platform/ratelimit"
	"github.com/louisbranch/razzo/internal/services/web/platform/requestmeta"
)

// Mount aliases the module mount contract.
type Mount = module.Mount

// Module aliases the module interface contract.
type Module = module.Module

// Gateway is the blog API surface the modules share. Each module only sees
// its own narrow interface.
type Gateway interface {
	auth.Gateway
	posts.Gateway
}

// SessionEvents reports sessions dropped without a sign-out.
type SessionEvents interface {
	OnDiscard(fn func(sessionID string))
}

// Dependencies carries the clients and settings required to compose the
// module registry.
type Dependencies struct {
	Base           modulehandler.Base
	Gateway        Gateway
	Sessions       auth.Sessions
	SessionEvents  SessionEvents
	AuthLimiter    *ratelimit.Limiter
	SchemePolicy   requestmeta.SchemePolicy
	AssetBaseURL   string
	MaxUploadBytes int64
}
