package guard

import (
	"testing"

	"github.com/wastewise/wastewise/internal/client/session"
	"github.com/wastewise/wastewise/internal/core/domain"
)

var (
	citizen = &domain.User{ID: "u1", Role: domain.RoleCitizen}
	admin   = &domain.User{ID: "a1", Role: domain.RoleAdmin}
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name     string
		state    session.State
		required domain.Role
		want     Decision
	}{
		{"loading never redirects", session.State{IsLoading: true}, domain.RoleAdmin, Decision{Outcome: Loading}},
		{"anonymous goes to login", session.State{}, domain.RoleCitizen, Decision{Outcome: Redirect, Target: LoginPath}},
		{"anonymous on admin view goes to login", session.State{}, domain.RoleAdmin, Decision{Outcome: Redirect, Target: LoginPath}},
		{"citizen on admin view", session.State{User: citizen, Token: "t"}, domain.RoleAdmin, Decision{Outcome: Redirect, Target: CitizenDashboard}},
		{"admin on citizen view", session.State{User: admin, Token: "t"}, domain.RoleCitizen, Decision{Outcome: Redirect, Target: AdminDashboardPath}},
		{"matching role renders", session.State{User: admin, Token: "t"}, domain.RoleAdmin, Decision{Outcome: Render}},
		{"no required role", session.State{User: citizen, Token: "t"}, "", Decision{Outcome: Render}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(tc.state, tc.required); got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestRouter_Resolve(t *testing.T) {
	r := NewRouter(DefaultRoutes())
	signedIn := session.State{User: citizen, Token: "t"}

	if d := r.Resolve(session.State{}, LoginPath); d.Outcome != Render {
		t.Fatalf("login should be public, got %+v", d)
	}
	if d := r.Resolve(session.State{}, "/user/reports"); d.Target != LoginPath {
		t.Fatalf("protected view should redirect to login, got %+v", d)
	}
	if d := r.Resolve(signedIn, "/admin/analytics"); d.Target != CitizenDashboard {
		t.Fatalf("citizen should land on own dashboard, got %+v", d)
	}
	if d := r.Resolve(signedIn, "/user/profile"); d.Outcome != Render {
		t.Fatalf("citizen should see profile, got %+v", d)
	}
	if d := r.Resolve(signedIn, "/nowhere"); d.Target != HomePath {
		t.Fatalf("unknown path should go home, got %+v", d)
	}
}

func TestRouter_ReevaluatesEveryNavigation(t *testing.T) {
	r := NewRouter(DefaultRoutes())
	u := &domain.User{ID: "u1", Role: domain.RoleCitizen}
	st := session.State{User: u, Token: "t"}

	if d := r.Resolve(st, AdminDashboardPath); d.Outcome != Redirect {
		t.Fatalf("expected redirect, got %+v", d)
	}
	u.Role = domain.RoleAdmin
	if d := r.Resolve(st, AdminDashboardPath); d.Outcome != Render {
		t.Fatalf("role change should apply on next navigation, got %+v", d)
	}
}

func TestShell(t *testing.T) {
	s := NewShell(*admin, AdminDashboardPath)
	if s.Config.Role != domain.RoleAdmin || len(s.Config.Nav) != 3 {
		t.Fatalf("unexpected config: %+v", s.Config)
	}
	if !s.Allows("/admin/reports") || s.Allows("/user/profile") {
		t.Fatal("admin shell navigation mismatch")
	}
	if c := NewShell(*citizen, CitizenDashboard); !c.Allows("/user/profile") {
		t.Fatal("citizen shell should link the profile")
	}
}
