package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/hobbyhub/internal/formatter"
	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/services"
	"github.com/desertthunder/hobbyhub/internal/session"
	"github.com/desertthunder/hobbyhub/internal/shared"
	"github.com/desertthunder/hobbyhub/internal/tasks"
	"github.com/desertthunder/hobbyhub/internal/theme"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	MenuView
	SectionView
	HabitView
	ExportView
)

const (
	routeMenu     = "/"
	routeHabits   = "/habits"
	routeNotes    = "/notes"
	routeProjects = "/projects"
	routeGallery  = "/gallery"
	routeCalendar = "/calendar"
	routeThemes   = "/themes"
	routeExport   = "/export"
	routeLogout   = "/logout"
)

const expiredNotice = "Your session has expired. Please sign in again."

// SessionState is the part of the session the TUI reads.
type SessionState interface {
	session.Authenticator
	Username() string
}

// Deps holds everything the TUI calls into.
type Deps struct {
	Hub         *services.Hub
	Session     SessionState
	Theme       *theme.Context
	Engine      *tasks.Engine
	Navigator   *Navigator
	LoginRoute  string
	ExportDir   string
	HeatmapDays int
	Logger      *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	deps    Deps
	logger  *log.Logger
	view    ViewState
	width   int
	height  int
	menu    list.Model
	form    loginForm
	sec     sectionView
	habits  *section[models.Habit, struct{}]
	notes   *section[models.Note, services.NoteFilter]
	projs   *section[models.Project, services.ProjectFilter]
	photos  *section[models.Photo, struct{}]
	agenda  *section[models.Task, services.TaskRange]
	themes  *section[models.Theme, struct{}]
	habit   habitDetail
	export  *exportRun
	status  string
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	now     func() time.Time
}

// NewModel creates a new TUI model. An authenticated session starts on the menu, anything else on the login screen.
func NewModel(ctx context.Context, deps Deps) *Model {
	if deps.Logger == nil {
		deps.Logger = shared.NewLogger(nil)
	}
	if deps.LoginRoute == "" {
		deps.LoginRoute = session.LoginRoute
	}
	if deps.HeatmapDays <= 0 {
		deps.HeatmapDays = formatter.HeatmapDays
	}

	menu := list.New(menuItems(), list.NewDefaultDelegate(), 0, 0)
	menu.Title = "Hobby Hub"

	m := &Model{
		ctx:     ctx,
		deps:    deps,
		logger:  shared.WithLogger(deps.Logger, "component", "ui"),
		view:    LoginView,
		menu:    menu,
		form:    newLoginForm(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
		keys:    newKeyMap(),
		now:     time.Now,
	}
	if deps.Session != nil && deps.Session.Authenticated() {
		m.view = MenuView
	}
	return m
}

// Init loads the theme when the session is already authenticated.
func (m *Model) Init() tea.Cmd {
	if m.view != MenuView {
		return textinput.Blink
	}
	return func() tea.Msg {
		m.loadTheme(m.ctx)
		return themeChangedMsg(nil)
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-8)
		if m.sec != nil {
			m.sec.list().SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case MenuView:
			return m.handleMenuKeys(msg)
		case SectionView:
			return m.handleSectionKeys(msg)
		case HabitView:
			return m.handleHabitKeys(msg)
		case ExportView:
			return m.handleExportKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgLoggedIn:
		res := msg.data.(resultData)
		if res.err != nil {
			m.form.reset(services.Message(res.err))
			return m, nil
		}
		m.form.reset("")
		m.status = ""
		m.view = MenuView
		return m, nil

	case MsgLoggedOut:
		m.toLogin("")
		if res := msg.data.(resultData); res.err != nil {
			m.status = "Signed out locally; the server did not confirm."
		}
		return m, nil

	case MsgNavigate:
		route := msg.data.(string)
		if route == m.deps.LoginRoute {
			m.toLogin(expiredNotice)
			return m, nil
		}
		return m, m.open(route)

	case MsgSectionLoaded:
		res := msg.data.(resultData)
		if discarded(res.err) || m.sec == nil || m.sec.route() != res.value.(string) {
			return m, nil
		}
		m.sec.sync()
		return m, nil

	case MsgThemeChanged:
		if res := msg.data.(resultData); res.err != nil {
			m.status = "Theme not changed: " + services.Message(res.err)
			return m, nil
		}
		if m.themes != nil {
			m.themes.sync()
		}
		return m, nil

	case MsgHabitLogsFetched:
		data := msg.data.(struct {
			habit models.Habit
			logs  []models.HabitLog
			err   error
		})
		if m.view != HabitView || m.habit.habit.ID != data.habit.ID {
			return m, nil
		}
		m.habit.logs, m.habit.err, m.habit.loading = data.logs, data.err, false
		return m, nil

	case MsgProgressUpdate:
		if m.export == nil {
			return m, nil
		}
		m.export.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress(m.export)

	case MsgExportComplete:
		if m.export == nil {
			return m, nil
		}
		res := msg.data.(resultData)
		m.export.done = true
		m.export.err = res.err
		if r, ok := res.value.(*tasks.BulkExportResult); ok {
			m.export.result = r
		}
		return m, nil

	case MsgStatus:
		res := msg.data.(resultData)
		if res.err != nil {
			m.status = services.Message(res.err)
		} else {
			m.status = res.value.(string)
		}
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	styles := m.styles()

	var body string
	switch m.view {
	case LoginView:
		body = m.form.view(styles) + "\n" + m.help.ShortHelpView([]key.Binding{m.keys.next, m.keys.enter, m.keys.quit})
	case MenuView:
		body = m.renderMenu(styles)
	case SectionView:
		body = m.renderSection(styles)
	case HabitView:
		body = m.habit.view(styles, m.now(), m.deps.HeatmapDays) + "\n" + m.help.ShortHelpView([]key.Binding{m.keys.reload, m.keys.back})
	case ExportView:
		if m.export != nil {
			body = m.export.view(styles)
		}
		if m.export != nil && m.export.done {
			body += "\n" + m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
		}
	}

	if m.status != "" {
		body += "\n" + styles.Help.Render(m.status)
	}
	return body
}

func (m *Model) styles() theme.Styles {
	if m.deps.Theme == nil {
		return theme.Default().Styles()
	}
	return m.deps.Theme.Current().Styles()
}

func (m *Model) currentThemeID() int {
	if m.deps.Theme == nil {
		return 0
	}
	return m.deps.Theme.Current().ID
}

func (m *Model) busy() bool {
	switch m.view {
	case LoginView:
		return m.form.submitting
	case SectionView:
		if m.sec == nil {
			return false
		}
		loading, _ := m.sec.state()
		return loading
	case HabitView:
		return m.habit.loading
	case ExportView:
		return m.export != nil && !m.export.done
	}
	return false
}

func (m *Model) toLogin(notice string) {
	m.closeSection()
	m.view = LoginView
	m.form.reset(notice)
}

func (m *Model) closeSection() {
	if m.sec != nil {
		m.sec.close()
	}
	m.sec = nil
	m.habits, m.notes, m.projs, m.photos, m.agenda, m.themes = nil, nil, nil, nil, nil, nil
}

func (m *Model) sectionContext() context.Context {
	if m.sec == nil {
		return m.ctx
	}
	return m.sec.lifetime()
}

// open switches to the screen for route. Every section gets a fresh lifetime.
func (m *Model) open(route string) tea.Cmd {
	m.status = ""
	if route == routeMenu {
		m.closeSection()
		m.view = MenuView
		return nil
	}
	if m.deps.Session != nil && !m.deps.Session.Authenticated() {
		m.toLogin("")
		return nil
	}
	if route == routeExport {
		if m.deps.Engine == nil {
			m.status = "Export is not available."
			return nil
		}
		m.closeSection()
		return tea.Batch(m.startExport(), m.spinner.Tick)
	}

	m.closeSection()
	sec := m.newSection(route)
	if sec == nil {
		m.status = fmt.Sprintf("Unknown route %s", route)
		m.view = MenuView
		return nil
	}
	m.sec = sec
	m.sec.list().SetSize(m.width-4, m.height-8)
	m.view = SectionView
	return tea.Batch(sec.reload(), m.spinner.Tick)
}

func (m *Model) newSection(route string) sectionView {
	hub := m.deps.Hub
	switch route {
	case routeHabits:
		m.habits = newSection[models.Habit, struct{}](m.ctx, route, "Habits",
			func(ctx context.Context, _ struct{}) ([]models.Habit, error) { return hub.Habits.List(ctx) },
			struct{}{}, habitItem, m.logger)
		return m.habits
	case routeNotes:
		m.notes = newSection[models.Note, services.NoteFilter](m.ctx, route, notesTitle(services.ScopeAll),
			hub.Notes.List, services.NoteFilter{Scope: services.ScopeAll}, noteItem, m.logger)
		return m.notes
	case routeProjects:
		m.projs = newSection[models.Project, services.ProjectFilter](m.ctx, route, "Projects",
			hub.Projects.List, services.ProjectFilter{}, projectItem, m.logger)
		return m.projs
	case routeGallery:
		m.photos = newSection[models.Photo, struct{}](m.ctx, route, "Gallery",
			func(ctx context.Context, _ struct{}) ([]models.Photo, error) { return hub.Gallery.List(ctx) },
			struct{}{}, photoItem, m.logger)
		return m.photos
	case routeCalendar:
		m.agenda = newSection[models.Task, services.TaskRange](m.ctx, route, calendarTitle(services.RangeUpcoming),
			hub.Calendar.Range, services.RangeUpcoming, taskItem, m.logger)
		return m.agenda
	case routeThemes:
		m.themes = newSection[models.Theme, struct{}](m.ctx, route, "Themes",
			func(ctx context.Context, _ struct{}) ([]models.Theme, error) { return hub.Profile.Themes(ctx) },
			struct{}{},
			func(t models.Theme) item[models.Theme] { return themeItem(m.currentThemeID())(t) },
			m.logger)
		return m.themes
	}
	return nil
}

func notesTitle(scope services.NoteScope) string {
	return "Notes · " + string(scope)
}

func calendarTitle(r services.TaskRange) string {
	return "Calendar · " + string(r)
}

// nextRange cycles through the task ranges.
func nextRange(r services.TaskRange) services.TaskRange {
	order := []services.TaskRange{services.RangeUpcoming, services.RangeToday, services.RangePast, services.RangeAll}
	for i, o := range order {
		if o == r {
			return order[(i+1)%len(order)]
		}
	}
	return services.RangeUpcoming
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form.submitting {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.form.toggleFocus()
		return m, nil
	case "enter":
		username, password := m.form.values()
		if m.form.focus == 0 && password == "" {
			m.form.toggleFocus()
			return m, nil
		}
		if username == "" || password == "" {
			m.form.notice = "Username and password are required."
			return m, nil
		}
		return m, tea.Batch(m.login(), m.spinner.Tick)
	}
	return m, m.form.update(msg)
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.menu.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter":
		selected, ok := m.menu.SelectedItem().(menuItem)
		if !ok {
			return m, nil
		}
		if selected.route == routeLogout {
			return m, m.logout()
		}
		return m, m.open(selected.route)
	}
	return m.updateLists(msg)
}

func (m *Model) handleSectionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sec == nil || m.sec.list().FilterState() == list.Filtering {
		return m.updateLists(msg)
	}
	switch {
	case msg.String() == "q":
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		if m.sec.list().FilterState() == list.FilterApplied {
			return m.updateLists(msg)
		}
		m.closeSection()
		m.view = MenuView
		return m, nil
	case key.Matches(msg, m.keys.reload):
		return m, tea.Batch(m.sec.reload(), m.spinner.Tick)
	}

	if cmd := m.sectionAction(msg); cmd != nil {
		return m, tea.Batch(cmd, m.spinner.Tick)
	}
	return m.updateLists(msg)
}

// sectionAction maps a key to the current section's mutation, or returns nil.
func (m *Model) sectionAction(msg tea.KeyMsg) tea.Cmd {
	hub := m.deps.Hub
	k := m.keys

	switch {
	case m.habits != nil:
		h, ok := m.habits.selected()
		if !ok {
			return nil
		}
		switch {
		case key.Matches(msg, k.enter):
			return m.openHabit(h)
		case key.Matches(msg, k.toggle):
			return m.habits.mutate(func(ctx context.Context) error {
				_, err := hub.Habits.ToggleLog(ctx, h.ID, m.now(), !h.TodayCompleted)
				return err
			})
		}

	case m.notes != nil:
		if key.Matches(msg, k.next) {
			f := m.notes.filter()
			f.Scope = f.Scope.Next()
			m.notes.model.Title = notesTitle(f.Scope)
			return m.notes.setFilter(f)
		}
		n, ok := m.notes.selected()
		if !ok {
			return nil
		}
		var action func(context.Context, int) (*models.Note, error)
		switch {
		case key.Matches(msg, k.pin):
			action = hub.Notes.Pin
		case key.Matches(msg, k.archive):
			action = hub.Notes.Archive
		case key.Matches(msg, k.trash):
			action = hub.Notes.Trash
		case key.Matches(msg, k.restore):
			action = hub.Notes.Restore
		default:
			return nil
		}
		return m.notes.mutate(func(ctx context.Context) error {
			_, err := action(ctx, n.ID)
			return err
		})

	case m.projs != nil:
		p, ok := m.projs.selected()
		if !ok {
			return nil
		}
		switch {
		case key.Matches(msg, k.pin):
			return m.projs.mutate(func(ctx context.Context) error {
				_, err := hub.Projects.Pin(ctx, p.ID)
				return err
			})
		case key.Matches(msg, k.more), key.Matches(msg, k.less):
			step := 10
			if key.Matches(msg, k.less) {
				step = -10
			}
			progress := min(max(p.Progress+step, 0), 100)
			return m.projs.mutate(func(ctx context.Context) error {
				_, err := hub.Projects.SetProgress(ctx, p.ID, progress)
				return err
			})
		}

	case m.photos != nil:
		p, ok := m.photos.selected()
		if !ok || !key.Matches(msg, k.open) {
			return nil
		}
		url := hub.MediaURL(p.Image)
		return func() tea.Msg {
			if err := shared.OpenBrowser(url); err != nil {
				return statusMsg("", err)
			}
			return statusMsg("Opened "+url, nil)
		}

	case m.agenda != nil:
		if key.Matches(msg, k.next) {
			r := nextRange(m.agenda.filter())
			m.agenda.model.Title = calendarTitle(r)
			return m.agenda.setFilter(r)
		}
		t, ok := m.agenda.selected()
		if !ok || !key.Matches(msg, k.toggle) {
			return nil
		}
		return m.agenda.mutate(func(ctx context.Context) error {
			_, err := hub.Calendar.ToggleComplete(ctx, t.ID)
			return err
		})

	case m.themes != nil:
		t, ok := m.themes.selected()
		if !ok || !key.Matches(msg, k.enter) {
			return nil
		}
		ctx := m.themes.lifetime()
		m.status = "Applying " + t.Name + "..."
		return func() tea.Msg {
			return themeChangedMsg(m.deps.Theme.Change(ctx, t.ID))
		}
	}
	return nil
}

func (m *Model) handleHabitKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "q":
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = SectionView
		if m.sec == nil {
			m.view = MenuView
		}
		return m, nil
	case key.Matches(msg, m.keys.reload):
		return m, tea.Batch(m.openHabit(m.habit.habit), m.spinner.Tick)
	}
	return m, nil
}

func (m *Model) handleExportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.export == nil || !m.export.done {
		return m, nil
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "enter":
		m.export = nil
		m.view = MenuView
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case MenuView:
		m.menu, cmd = m.menu.Update(msg)
	case SectionView:
		if m.sec != nil {
			l := m.sec.list()
			*l, cmd = l.Update(msg)
		}
	case LoginView:
		cmd = m.form.update(msg)
	}
	return m, cmd
}

func (m *Model) renderMenu(styles theme.Styles) string {
	var header string
	if m.deps.Session != nil && m.deps.Session.Username() != "" {
		header = styles.Subtitle.Render("Signed in as "+m.deps.Session.Username()) + "\n"
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s%s\n\n%s", header, m.menu.View(), helpView)
}

func (m *Model) renderSection(styles theme.Styles) string {
	if m.sec == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.sec.list().View())
	b.WriteString("\n")

	loading, err := m.sec.state()
	switch {
	case loading:
		b.WriteString(m.spinner.View() + " Loading...\n")
	case err != nil:
		b.WriteString(styles.Err.Render("Error: "+services.Message(err)) + "\n")
	}
	b.WriteString(m.help.ShortHelpView(m.keys.sectionKeys(m.sec.route())))
	return b.String()
}

// Run starts the TUI and blocks until it exits.
func Run(ctx context.Context, deps Deps) error {
	m := NewModel(ctx, deps)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if deps.Navigator != nil {
		deps.Navigator.attach(p)
		defer deps.Navigator.detach()
	}
	if deps.Theme != nil {
		unsubscribe := deps.Theme.Subscribe(func(p theme.Palette) {
			m.logger.Info("palette changed", "theme", p.Name)
		})
		defer unsubscribe()
	}

	_, err := p.Run()
	m.closeSection()
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
