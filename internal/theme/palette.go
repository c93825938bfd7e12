package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/hobbyhub/internal/models"
)

// Palette is the set of colours every view renders with.
type Palette struct {
	ID         int    `json:"id,omitempty"`
	Name       string `json:"name"`
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Background string `json:"background"`
	Text       string `json:"text"`
	Sidebar    string `json:"sidebar"`
}

// Default is the palette used until a profile theme is loaded.
func Default() Palette {
	return Palette{
		Name:       "Default",
		Primary:    "#6366f1",
		Secondary:  "#8b5cf6",
		Background: "#f9fafb",
		Text:       "#111827",
		Sidebar:    "#1f2937",
	}
}

// FromTheme converts a backend theme, keeping default colours for fields it leaves empty.
func FromTheme(t models.Theme) Palette {
	p := Default()
	p.ID = t.ID
	p.Name = t.Name
	for dst, src := range map[*string]string{
		&p.Primary:    t.PrimaryColor,
		&p.Secondary:  t.SecondaryColor,
		&p.Background: t.BackgroundColor,
		&p.Text:       t.TextColor,
		&p.Sidebar:    t.SidebarColor,
	} {
		if src != "" {
			*dst = src
		}
	}
	return p
}

// Vars returns the palette as CSS custom properties.
func (p Palette) Vars() map[string]string {
	return map[string]string{
		"--color-primary":    p.Primary,
		"--color-secondary":  p.Secondary,
		"--color-background": p.Background,
		"--color-text":       p.Text,
		"--color-sidebar":    p.Sidebar,
	}
}

// Status colours do not follow the palette.
const (
	okColor   = "#04B575"
	errColor  = "#FF0000"
	warnColor = "#FFA500"
	helpColor = "#626262"
)

// Styles is a stylesheet derived from a [Palette].
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Text     lipgloss.Style
	Selected lipgloss.Style
	Sidebar  lipgloss.Style
	OK       lipgloss.Style
	Err      lipgloss.Style
	Warn     lipgloss.Style
	Help     lipgloss.Style
	Done     lipgloss.Style // completed heatmap cell
	Missed   lipgloss.Style // empty heatmap cell
}

// Styles builds the lipgloss stylesheet for p.
func (p Palette) Styles() Styles {
	return Styles{
		Title:    NewBold(p.Primary).MarginBottom(1),
		Subtitle: NewBold(p.Secondary),
		Text:     NewStyle(p.Text),
		Selected: NewBold(p.Background).Background(lipgloss.Color(p.Primary)).Padding(0, 1),
		Sidebar:  NewStyle(p.Background).Background(lipgloss.Color(p.Sidebar)).Padding(0, 1),
		OK:       NewBold(okColor),
		Err:      NewBold(errColor),
		Warn:     NewStyle(warnColor),
		Help:     NewEm(helpColor),
		Done:     NewStyle(p.Primary),
		Missed:   NewStyle(helpColor),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
