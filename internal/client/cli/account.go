package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/wastewise/wastewise/internal/client/authstore"
	"github.com/wastewise/wastewise/internal/client/gateway"
	"github.com/wastewise/wastewise/internal/client/guard"
	"github.com/wastewise/wastewise/internal/client/reports"
	"github.com/wastewise/wastewise/internal/core/domain"
)

// parseRole accepts the wire values and "citizen" as an alias of "user".
func parseRole(s string) (domain.Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "user", "citizen":
		return domain.RoleCitizen, nil
	case "admin":
		return domain.RoleAdmin, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidRole, s)
}

func toUser(u gateway.RawUser) domain.User {
	user := domain.User{ID: u.ID, Name: u.Name, Email: u.Email, Role: domain.Role(u.Role)}
	if t, ok := reports.ParseTimestamp(u.CreatedAt); ok {
		user.CreatedAt = t
	}
	return user
}

func (a *App) signIn(resp *gateway.AuthResponse, msg string) {
	user := toUser(resp.User)
	a.session.Login(authstore.Session{Token: resp.Token, User: user})
	a.notifier.Success(msg)
	fmt.Fprintf(a.out, "Signed in as %s <%s>; dashboard %s\n", user.Name, user.Email, guard.DashboardFor(user.Role))
}

func (a *App) register(ctx context.Context, args []string) error {
	fs := a.flags("register")
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password, at least 6 characters")
	roleFlag := fs.String("role", "user", "user or admin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	role, err := parseRole(*roleFlag)
	if err != nil {
		fmt.Fprintln(a.errOut, err)
		return errUsage
	}
	if *name == "" || *email == "" || *password == "" {
		fs.Usage()
		return errUsage
	}

	resp, err := a.api.Register(ctx, gateway.RegisterRequest{
		Name:     *name,
		Email:    *email,
		Password: *password,
		Role:     string(role),
	})
	if err != nil {
		a.notifier.Error(err.Error())
		return err
	}
	a.signIn(resp, "Registration successful!")
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	roleFlag := fs.String("role", "user", "user or admin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	role, err := parseRole(*roleFlag)
	if err != nil {
		fmt.Fprintln(a.errOut, err)
		return errUsage
	}
	if *email == "" || *password == "" {
		fs.Usage()
		return errUsage
	}

	resp, err := a.api.Login(ctx, gateway.LoginRequest{Email: *email, Password: *password, Role: string(role)})
	if err != nil {
		a.notifier.Error(err.Error())
		return err
	}
	a.signIn(resp, "Login successful!")
	return nil
}

func (a *App) logout(context.Context, []string) error {
	a.session.Logout()
	a.notifier.Success("Logged out successfully")
	return nil
}

func (a *App) whoami(context.Context, []string) error {
	if err := a.signedIn(); err != nil {
		return err
	}
	user, _ := a.session.User()
	shell := guard.NewShell(*user, guard.DashboardFor(user.Role))

	fmt.Fprintf(a.out, "%s <%s>\n", user.Name, user.Email)
	fmt.Fprintf(a.out, "Role: %s\n", shell.Config.Title)
	for _, item := range shell.Config.Nav {
		fmt.Fprintf(a.out, "  %-12s %s\n", item.Name, item.Path)
	}
	return nil
}

// profile prints the profile, or updates it when -name or -email is given.
func (a *App) profile(ctx context.Context, args []string) error {
	fs := a.flags("profile")
	name := fs.String("name", "", "new name")
	email := fs.String("email", "", "new email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.signedIn(); err != nil {
		return err
	}

	if *name == "" && *email == "" {
		raw, err := a.api.Profile(ctx)
		if err != nil {
			a.notifier.Error(err.Error())
			return err
		}
		user := toUser(*raw)
		fmt.Fprintf(a.out, "Name:   %s\nEmail:  %s\nRole:   %s\n", user.Name, user.Email, user.Role)
		if !user.CreatedAt.IsZero() {
			fmt.Fprintf(a.out, "Joined: %s\n", user.CreatedAt.Local().Format("Jan 2, 2006"))
		}
		return nil
	}

	var in gateway.ProfileUpdate
	if *name != "" {
		in.Name = name
	}
	if *email != "" {
		in.Email = email
	}
	resp, err := a.api.UpdateProfile(ctx, in)
	if err != nil {
		a.notifier.Error(err.Error())
		return err
	}
	a.session.UpdateUser(toUser(resp.User), resp.Token)
	a.notifier.Success("Profile updated successfully")
	return nil
}

func (a *App) password(ctx context.Context, args []string) error {
	fs := a.flags("password")
	current := fs.String("current", "", "current password")
	next := fs.String("new", "", "new password, at least 6 characters")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *current == "" || *next == "" {
		fs.Usage()
		return errUsage
	}
	if err := a.signedIn(); err != nil {
		return err
	}
	if len(*next) < 6 {
		a.notifier.Error("Password must be at least 6 characters")
		return errUsage
	}

	if err := a.api.UpdatePassword(ctx, *current, *next); err != nil {
		a.notifier.Error(err.Error())
		return err
	}
	a.notifier.Success("Password updated successfully")
	return nil
}
