package services

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hobbyhub/internal/session"
	"github.com/desertthunder/hobbyhub/internal/shared"
	"golang.org/x/time/rate"
)

// HubOpts configures a [Hub].
type HubOpts struct {
	BaseURL    string
	Store      SessionStore
	Navigator  session.Navigator
	LoginRoute string
	HTTPClient *http.Client
	RateLimit  float64 // requests per second across all groups; 0 disables limiting
	UserAgent  string
	Logger     *log.Logger
}

// Hub holds one [Client] per resource group, all sharing one session, one [Refresher] and one rate limiter.
type Hub struct {
	Auth      *AuthService
	Profile   *ProfileService
	Habits    *HabitService
	Notes     *NoteService
	Projects  *ProjectService
	Gallery   *GalleryService
	Calendar  *CalendarService
	Refresher *Refresher

	clients map[string]*Client
	baseURL string
}

// NewHub builds every group client from opts.
func NewHub(opts HubOpts) *Hub {
	if opts.BaseURL == "" {
		opts.BaseURL = shared.DefaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: shared.DefaultTimeout}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	refresher := NewRefresher(RefresherOpts{
		BaseURL:    opts.BaseURL,
		Store:      opts.Store,
		Navigator:  opts.Navigator,
		LoginRoute: opts.LoginRoute,
		HTTPClient: opts.HTTPClient,
		UserAgent:  opts.UserAgent,
		Logger:     opts.Logger,
	})

	h := &Hub{Refresher: refresher, clients: map[string]*Client{}, baseURL: strings.TrimRight(opts.BaseURL, "/")}
	client := func(group string) *Client {
		c := NewClient(ClientOpts{
			BaseURL:    opts.BaseURL,
			Group:      group,
			Store:      opts.Store,
			Refresher:  refresher,
			HTTPClient: opts.HTTPClient,
			Limiter:    limiter,
			UserAgent:  opts.UserAgent,
			Logger:     opts.Logger,
		})
		h.clients[c.Group()] = c
		return c
	}

	h.Auth = NewAuthService(client(authGroup), opts.Store, refresher, opts.Logger)
	h.Profile = NewProfileService(client(profileGroup))
	h.Habits = NewHabitService(client(habitsGroup))
	h.Notes = NewNoteService(client(notesGroup))
	h.Projects = NewProjectService(client(projectsGroup))
	h.Gallery = NewGalleryService(client(galleryGroup))
	h.Calendar = NewCalendarService(client(calendarGroup))
	return h
}

// Client returns the client of a group by name, e.g. "notes".
func (h *Hub) Client(group string) (*Client, error) {
	c, ok := h.clients[strings.Trim(group, "/")]
	if !ok {
		return nil, fmt.Errorf("%w: unknown group %q (want one of %s)", shared.ErrInvalidArgument, group, strings.Join(Groups, ", "))
	}
	return c, nil
}

// BaseURL returns the API root.
func (h *Hub) BaseURL() string {
	return h.baseURL
}

// MediaURL resolves a media path returned by the backend (e.g. "/media/photos/a.jpg") against the server root.
func (h *Hub) MediaURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	root := strings.TrimSuffix(h.baseURL, "/api")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return root + path
}
