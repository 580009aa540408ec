package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studentperf/internal/screens/home"
	"github.com/abhisek/studentperf/internal/screens/login"
	"github.com/abhisek/studentperf/internal/store"
)

type fakeAuth struct{}

func (fakeAuth) Authenticate(context.Context, string, string) (*store.User, error) {
	return nil, nil
}

func TestSignInReplacesLoginWithHome(t *testing.T) {
	m := newAppModel(Options{Auth: fakeAuth{}})
	if _, ok := m.router.Active().(*login.LoginScreen); !ok {
		t.Fatalf("expected login screen first, got %T", m.router.Active())
	}

	user := &store.User{Username: "ms.k", Role: store.RoleTeacher}
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	updated, _ = updated.Update(login.LoggedInMsg{User: user, Next: home.New(home.Deps{}, user)})
	m = updated.(AppModel)

	if _, ok := m.router.Active().(*home.HomeScreen); !ok {
		t.Fatalf("expected home screen after sign-in, got %T", m.router.Active())
	}
	if m.router.Depth() != 1 {
		t.Errorf("expected login to be replaced, depth %d", m.router.Depth())
	}
	if !strings.Contains(m.frame(), "ms.k (teacher)") {
		t.Error("expected signed-in user in header")
	}
}

func TestTooSmallTerminal(t *testing.T) {
	m := newAppModel(Options{Auth: fakeAuth{}})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(updated.(AppModel).frame(), "Terminal too small") {
		t.Error("expected resize message")
	}
}
