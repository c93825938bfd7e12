package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/hobbyhub/internal/session"
)

var _ session.Navigator = (*Navigator)(nil)

// Navigator delivers hard navigations (such as the redirect after a failed refresh) to a running program.
//
// It exists before the program does so it can be handed to the services hub; a route requested before [Run]
// attaches a program is delivered once one is attached.
type Navigator struct {
	mu      sync.Mutex
	program *tea.Program
	pending string
}

// NewNavigator creates a detached Navigator.
func NewNavigator() *Navigator {
	return &Navigator{}
}

// Navigate sends route to the program. It may block until the program's event loop reads it.
func (n *Navigator) Navigate(route string) {
	n.mu.Lock()
	p := n.program
	if p == nil {
		n.pending = route
	}
	n.mu.Unlock()

	if p != nil {
		p.Send(navigateMsg(route))
	}
}

func (n *Navigator) attach(p *tea.Program) {
	n.mu.Lock()
	n.program = p
	pending := n.pending
	n.pending = ""
	n.mu.Unlock()

	if pending != "" {
		go p.Send(navigateMsg(pending))
	}
}

func (n *Navigator) detach() {
	n.mu.Lock()
	n.program = nil
	n.mu.Unlock()
}

// Pending returns a route requested while no program was attached.
func (n *Navigator) Pending() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pending
}
