// Package guard decides, per navigation, whether a view may render.
package guard

import (
	"github.com/wastewise/wastewise/internal/client/session"
	"github.com/wastewise/wastewise/internal/core/domain"
)

const (
	HomePath           = "/"
	LoginPath          = "/login"
	RegisterPath       = "/register"
	CitizenDashboard   = "/user/dashboard"
	CitizenReportsPath = "/user/reports"
	CitizenProfilePath = "/user/profile"
	AdminDashboardPath = "/admin/dashboard"
	AdminReportsPath   = "/admin/reports"
	AdminAnalyticsPath = "/admin/analytics"
)

// Outcome is what the caller should do with a navigation.
type Outcome int

const (
	// Loading means the session is not known yet; show a neutral placeholder.
	Loading Outcome = iota
	Redirect
	Render
)

func (o Outcome) String() string {
	switch o {
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	}
	return "unknown"
}

// Decision is the result of Evaluate. Target is set only for Redirect.
type Decision struct {
	Outcome Outcome
	Target  string
}

// DashboardFor returns the landing view for role.
func DashboardFor(role domain.Role) string {
	if role == domain.RoleAdmin {
		return AdminDashboardPath
	}
	return CitizenDashboard
}

// Evaluate applies the access rules to a protected view. An empty required
// role admits any signed-in user. A signed-in user with the wrong role is
// sent to their own dashboard, never to login.
func Evaluate(st session.State, required domain.Role) Decision {
	if st.IsLoading {
		return Decision{Outcome: Loading}
	}
	if st.User == nil {
		return Decision{Outcome: Redirect, Target: LoginPath}
	}
	if required != "" && st.User.Role != required {
		return Decision{Outcome: Redirect, Target: DashboardFor(st.User.Role)}
	}
	return Decision{Outcome: Render}
}
