package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/hobbyhub/internal/theme"
)

// loginForm holds the username and password inputs of the login screen.
type loginForm struct {
	username   textinput.Model
	password   textinput.Model
	focus      int
	submitting bool
	notice     string
}

func newLoginForm() loginForm {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 150
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginForm{username: username, password: password}
}

func (f *loginForm) values() (string, string) {
	return strings.TrimSpace(f.username.Value()), f.password.Value()
}

func (f *loginForm) toggleFocus() {
	f.focus = 1 - f.focus
	if f.focus == 0 {
		f.password.Blur()
		f.username.Focus()
	} else {
		f.username.Blur()
		f.password.Focus()
	}
}

func (f *loginForm) reset(notice string) {
	f.password.SetValue("")
	f.submitting = false
	f.notice = notice
	if f.focus == 1 && f.username.Value() == "" {
		f.toggleFocus()
	}
}

func (f *loginForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.focus == 0 {
		f.username, cmd = f.username.Update(msg)
	} else {
		f.password, cmd = f.password.Update(msg)
	}
	return cmd
}

func (f *loginForm) view(styles theme.Styles) string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Hobby Hub") + "\n")
	b.WriteString(styles.Subtitle.Render("Sign in to continue") + "\n\n")
	b.WriteString(f.username.View() + "\n")
	b.WriteString(f.password.View() + "\n\n")
	if f.submitting {
		b.WriteString(styles.Help.Render("Signing in...") + "\n")
	} else if f.notice != "" {
		b.WriteString(styles.Err.Render(f.notice) + "\n")
	}
	return b.String()
}

// login calls the backend and, on success, loads the user's theme before reporting back.
func (m *Model) login() tea.Cmd {
	username, password := m.form.values()
	m.form.submitting = true
	return func() tea.Msg {
		if _, err := m.deps.Hub.Auth.Login(m.ctx, username, password); err != nil {
			return loggedInMsg(err)
		}
		m.loadTheme(m.ctx)
		return loggedInMsg(nil)
	}
}

func (m *Model) logout() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg(m.deps.Hub.Auth.Logout(m.ctx))
	}
}

func (m *Model) loadTheme(ctx context.Context) {
	if m.deps.Theme == nil {
		return
	}
	if err := m.deps.Theme.Load(ctx); err != nil {
		m.logger.Warn("theme not loaded", "error", err)
	}
}
