// Package app composes feature modules into the root handler.
package app

import (
	"fmt"
	"net/http"
	"strings"

	module "github.com/louisbranch/razzo/internal/services/web/module"
)

// Compose mounts every module pattern on root. A pattern may be owned by
// one module only.
func Compose(root *http.ServeMux, modules []module.Module) error {
	if root == nil {
		return fmt.Errorf("root mux is required")
	}
	seen := make(map[string]string)
	for _, feature := range modules {
		if feature == nil {
			return fmt.Errorf("module is nil")
		}
		mount, err := resolveMount(feature)
		if err != nil {
			return err
		}
		for _, pattern := range mount.Patterns {
			if previous, ok := seen[pattern]; ok {
				return fmt.Errorf("module %q duplicates pattern %q owned by module %q", feature.ID(), pattern, previous)
			}
			seen[pattern] = feature.ID()
			root.Handle(pattern, mount.Handler)
		}
	}
	return nil
}

func resolveMount(feature module.Module) (module.Mount, error) {
	mount, err := feature.Mount()
	if err != nil {
		return module.Mount{}, fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	if mount.Handler == nil {
		return module.Mount{}, fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	if len(mount.Patterns) == 0 {
		return module.Mount{}, fmt.Errorf("mount module %q: at least one pattern is required", feature.ID())
	}
	for _, pattern := range mount.Patterns {
		if err := validatePattern(pattern); err != nil {
			return module.Mount{}, fmt.Errorf("mount module %q has invalid pattern %q: %w", feature.ID(), pattern, err)
		}
	}
	return mount, nil
}

// validatePattern accepts path-only patterns; modules route methods on
// their own mux.
func validatePattern(pattern string) error {
	if strings.TrimSpace(pattern) != pattern || pattern == "" {
		return fmt.Errorf("pattern must be non-empty without surrounding whitespace")
	}
	if !strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("pattern must begin with /")
	}
	return nil
}
