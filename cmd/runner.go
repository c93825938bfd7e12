package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hobbyhub/internal/repositories"
	"github.com/desertthunder/hobbyhub/internal/services"
	"github.com/desertthunder/hobbyhub/internal/session"
	"github.com/desertthunder/hobbyhub/internal/shared"
	"github.com/desertthunder/hobbyhub/internal/tasks"
	"github.com/desertthunder/hobbyhub/internal/theme"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	db         *sql.DB
	session    *session.Session
	hub        *services.Hub
	guard      *session.Guard
	theme      *theme.Context
	jobs       *repositories.ExportRepository
	engine     *tasks.Engine
	redirect   *redirect
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	DB         *sql.DB // nil keeps the session in memory and disables job history
	Backend    session.Backend
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		db:         opts.DB,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		redirect:   &redirect{logger: opts.Logger},
	}

	backend := opts.Backend
	if backend == nil && opts.DB != nil {
		backend = repositories.NewTokenRepository(opts.DB)
	}
	if backend == nil {
		backend = session.NewMemoryBackend(session.Credentials{})
	}

	sess, err := session.New(backend, opts.Logger)
	if err != nil {
		r.logger.Warn("stored session unreadable, starting signed out", "error", err)
		sess, _ = session.New(session.NewMemoryBackend(session.Credentials{}), opts.Logger)
	}
	r.session = sess

	r.wire()
	return r
}

// wire builds the service graph on the current logger. Child loggers copy the level and writer of their parent,
// so the graph is rebuilt whenever the logger changes.
func (r *Runner) wire() {
	r.hub = services.NewHub(services.HubOpts{
		BaseURL:    r.config.API.BaseURL,
		Store:      r.session,
		Navigator:  r.redirect,
		LoginRoute: r.config.UI.LoginRoute,
		HTTPClient: &http.Client{Timeout: r.config.API.TimeoutOrDefault()},
		RateLimit:  r.config.API.RateLimit,
		UserAgent:  r.config.API.UserAgent,
		Logger:     r.logger,
	})
	r.guard = session.NewGuard(r.session, r.redirect, r.config.UI.LoginRoute)
	r.theme = theme.New(r.hub.Profile, r.session, r.logger)

	var store tasks.JobStore
	if r.db != nil {
		r.jobs = repositories.NewExportRepository(r.db)
		store = r.jobs
	}
	r.engine = tasks.NewEngine(r.hub, store, r.logger)
}

// SetLogger replaces the logger, e.g. to move output into a file while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.redirect.setLogger(l)
	r.wire()
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, profileCommand, habitsCommand, notesCommand, projectsCommand,
		galleryCommand, calendarCommand, apiCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireAuth is the Before hook of every command group that needs a session.
func (r *Runner) requireAuth(ctx context.Context, _ *cli.Command) (context.Context, error) {
	return ctx, r.guard.Require()
}

// redirect is the navigator handed to the hub. CLI commands report the redirect; the TUI swaps in its own.
type redirect struct {
	mu     sync.Mutex
	target session.Navigator
	logger *log.Logger
	route  string
}

func (n *redirect) Navigate(route string) {
	n.mu.Lock()
	n.route = route
	target, logger := n.target, n.logger
	n.mu.Unlock()

	if target != nil {
		target.Navigate(route)
		return
	}
	logger.Warn("session ended, sign in again with `hub auth login`", "route", route)
}

// use routes navigations to target until the returned function is called.
func (n *redirect) use(target session.Navigator) func() {
	n.mu.Lock()
	n.target = target
	n.mu.Unlock()
	return func() {
		n.mu.Lock()
		n.target = nil
		n.mu.Unlock()
	}
}

func (n *redirect) setLogger(l *log.Logger) {
	n.mu.Lock()
	n.logger = l
	n.mu.Unlock()
}

// last returns the most recent route navigated to.
func (n *redirect) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.route
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

// writeYAML encodes data through its JSON form so field names match the API.
func (r *Runner) writeYAML(data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("failed to convert to YAML: %w", err)
	}

	output, err := yaml.Marshal(generic)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// render writes data as JSON or YAML when the matching flag is set and falls back to plain otherwise.
func (r *Runner) render(cmd *cli.Command, data any, plain func() error) error {
	switch {
	case cmd.Bool("json"):
		return r.writeJSON(data, cmd.Bool("pretty"))
	case cmd.Bool("yaml"):
		return r.writeYAML(data)
	}
	return plain()
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// idArg parses a positional numeric id.
func idArg(cmd *cli.Command, name string) (int, error) {
	raw := cmd.StringArg(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive number, got %q", shared.ErrInvalidArgument, name, raw)
	}
	return id, nil
}

// optionalID returns a pointer to the flag's value, or nil when it is unset.
func optionalID(cmd *cli.Command, name string) *int {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.Int(name)
	return &v
}

// optionalString returns a pointer to the flag's value, or nil when it is unset.
func optionalString(cmd *cli.Command, name string) *string {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.String(name)
	return &v
}
