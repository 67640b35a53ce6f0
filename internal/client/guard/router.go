package guard

import (
	"github.com/wastewise/wastewise/internal/client/session"
	"github.com/wastewise/wastewise/internal/core/domain"
)

// Route declares one view. Public routes skip the guard.
type Route struct {
	Path   string
	Role   domain.Role
	Public bool
}

// Router resolves a path to a Decision. It keeps no per-navigation state.
type Router struct {
	routes map[string]Route
}

// DefaultRoutes lists every view of the client.
func DefaultRoutes() []Route {
	routes := []Route{
		{Path: HomePath, Public: true},
		{Path: LoginPath, Public: true},
		{Path: RegisterPath, Public: true},
	}
	for _, cfg := range []RoleConfig{CitizenConfig(), AdminConfig()} {
		for _, item := range cfg.Nav {
			routes = append(routes, Route{Path: item.Path, Role: cfg.Role})
		}
	}
	return routes
}

func NewRouter(routes []Route) *Router {
	r := &Router{routes: make(map[string]Route, len(routes))}
	for _, rt := range routes {
		r.routes[rt.Path] = rt
	}
	return r
}

// Resolve evaluates path against st. Unknown paths redirect home.
func (r *Router) Resolve(st session.State, path string) Decision {
	rt, ok := r.routes[path]
	if !ok {
		return Decision{Outcome: Redirect, Target: HomePath}
	}
	if rt.Public {
		return Decision{Outcome: Render}
	}
	return Evaluate(st, rt.Role)
}

// Lookup returns the route registered for path.
func (r *Router) Lookup(path string) (Route, bool) {
	rt, ok := r.routes[path]
	return rt, ok
}
