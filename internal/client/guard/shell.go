package guard

import "github.com/wastewise/wastewise/internal/core/domain"

// NavItem is one entry of the dashboard navigation.
type NavItem struct {
	Name string
	Path string
	Icon string
}

// RoleConfig describes the dashboard chrome for one role.
type RoleConfig struct {
	Role  domain.Role
	Title string
	Nav   []NavItem
}

func CitizenConfig() RoleConfig {
	return RoleConfig{
		Role:  domain.RoleCitizen,
		Title: "Citizen",
		Nav: []NavItem{
			{Name: "Dashboard", Path: CitizenDashboard, Icon: "layout-dashboard"},
			{Name: "My Reports", Path: CitizenReportsPath, Icon: "file-text"},
			{Name: "Profile", Path: CitizenProfilePath, Icon: "user"},
		},
	}
}

func AdminConfig() RoleConfig {
	return RoleConfig{
		Role:  domain.RoleAdmin,
		Title: "Admin",
		Nav: []NavItem{
			{Name: "Dashboard", Path: AdminDashboardPath, Icon: "layout-dashboard"},
			{Name: "All Reports", Path: AdminReportsPath, Icon: "file-text"},
			{Name: "Analytics", Path: AdminAnalyticsPath, Icon: "bar-chart-3"},
		},
	}
}

// ConfigFor returns the chrome for role.
func ConfigFor(role domain.Role) RoleConfig {
	if role == domain.RoleAdmin {
		return AdminConfig()
	}
	return CitizenConfig()
}

// Shell is the dashboard frame shared by both roles.
type Shell struct {
	Config RoleConfig
	User   domain.User
	Active string
}

// NewShell builds the frame for user with path highlighted.
func NewShell(user domain.User, path string) Shell {
	return Shell{Config: ConfigFor(user.Role), User: user, Active: path}
}

// Allows reports whether path is one of the shell's navigation targets.
func (s Shell) Allows(path string) bool {
	for _, item := range s.Config.Nav {
		if item.Path == path {
			return true
		}
	}
	return false
}
