package session

import (
	"fmt"

	"github.com/desertthunder/hobbyhub/internal/shared"
)

// LoginRoute is where unauthenticated sessions are sent.
const LoginRoute = "/login"

// Navigator performs a navigation to a named route. The CLI and the TUI each provide one.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// Authenticator is the part of [Session] the guard needs.
type Authenticator interface {
	Authenticated() bool
}

// Guard redirects unauthenticated sessions to the login route.
type Guard struct {
	auth       Authenticator
	nav        Navigator
	loginRoute string
}

// NewGuard builds a guard. An empty loginRoute means [LoginRoute]; a nil nav skips the redirect.
func NewGuard(auth Authenticator, nav Navigator, loginRoute string) *Guard {
	if loginRoute == "" {
		loginRoute = LoginRoute
	}
	return &Guard{auth: auth, nav: nav, loginRoute: loginRoute}
}

// Require returns nil when a credential is present. Otherwise it navigates to the login route and returns
// [shared.ErrNotAuthenticated].
func (g *Guard) Require() error {
	if g.auth != nil && g.auth.Authenticated() {
		return nil
	}
	if g.nav != nil {
		g.nav.Navigate(g.loginRoute)
	}
	return fmt.Errorf("%w: run `hub auth login` first", shared.ErrNotAuthenticated)
}

// LoginRoute returns the route the guard redirects to.
func (g *Guard) LoginRoute() string {
	return g.loginRoute
}
