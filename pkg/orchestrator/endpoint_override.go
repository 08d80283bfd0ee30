package orchestrator

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-stockform/pkg/routes"
)

// ErrInvalidOverride is reported by Prepare when a route override cannot be
// applied.
var ErrInvalidOverride = errors.New("orchestrator: invalid route override")

// RouteOverride replaces parts of the route resolved from the API document.
// Zero values keep the resolved value.
type RouteOverride struct {
	Method string
	Path   string
}

// WithRouteOverride registers an override applied after route resolution.
// Validation failures surface from Prepare.
func WithRouteOverride(override RouteOverride) Option {
	return func(o *Orchestrator) {
		if err := validateRouteOverride(override); err != nil {
			o.initialiseErr = errors.Join(o.initialiseErr, err)
			return
		}
		o.override = override
	}
}

func validateRouteOverride(override RouteOverride) error {
	if path := strings.TrimSpace(override.Path); path != "" && !strings.HasPrefix(path, "/") {
		return fmt.Errorf("%w: path %q must start with /", ErrInvalidOverride, override.Path)
	}
	switch strings.ToUpper(strings.TrimSpace(override.Method)) {
	case "", http.MethodPost, http.MethodPut, http.MethodPatch:
		return nil
	default:
		return fmt.Errorf("%w: method %q cannot carry a product payload", ErrInvalidOverride, override.Method)
	}
}

func (r RouteOverride) apply(route routes.Route) routes.Route {
	if path := strings.TrimSpace(r.Path); path != "" {
		route.Path = path
	}
	if method := strings.TrimSpace(r.Method); method != "" {
		route.Method = strings.ToUpper(method)
	}
	return route
}
