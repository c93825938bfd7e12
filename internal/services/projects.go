package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/hobbyhub/internal/models"
)

// ProjectFilter is the query of the projects list.
type ProjectFilter struct {
	Search     string
	Collection int
	Status     models.ProjectStatus
	Tag        int
	Pinned     bool
}

// Query maps the filter to list parameters.
func (f ProjectFilter) Query() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Collection > 0 {
		q.Set("collection", strconv.Itoa(f.Collection))
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Tag > 0 {
		q.Set("tag", strconv.Itoa(f.Tag))
	}
	if f.Pinned {
		q.Set("pinned", "true")
	}
	return q
}

// ProjectService wraps the /projects group: collections, tags and projects.
type ProjectService struct {
	client      *Client
	collections *Resource[models.Collection, models.Collection]
	tags        *Resource[models.ProjectTag, models.ProjectTag]
	projects    *Resource[models.Project, models.ProjectInput]
}

// NewProjectService creates a ProjectService on client.
func NewProjectService(client *Client) *ProjectService {
	return &ProjectService{
		client:      client,
		collections: NewResource[models.Collection, models.Collection](client, "/collections/"),
		tags:        NewResource[models.ProjectTag, models.ProjectTag](client, "/tags/"),
		projects:    NewResource[models.Project, models.ProjectInput](client, "/projects/"),
	}
}

// Collections lists collections whose name or description matches search.
func (s *ProjectService) Collections(ctx context.Context, search string) ([]models.Collection, error) {
	var q url.Values
	if search != "" {
		q = url.Values{"search": {search}}
	}
	return s.collections.List(ctx, q)
}

func (s *ProjectService) Collection(ctx context.Context, id int) (*models.Collection, error) {
	return s.collections.Get(ctx, id)
}

func (s *ProjectService) CreateCollection(ctx context.Context, c models.Collection) (*models.Collection, error) {
	return s.collections.Create(ctx, c)
}

func (s *ProjectService) UpdateCollection(ctx context.Context, id int, c models.Collection) (*models.Collection, error) {
	return s.collections.Update(ctx, id, c)
}

func (s *ProjectService) DeleteCollection(ctx context.Context, id int) error {
	return s.collections.Delete(ctx, id)
}

// CollectionProjects lists the projects of one collection.
func (s *ProjectService) CollectionProjects(ctx context.Context, id int) ([]models.Project, error) {
	var out []models.Project
	if err := s.client.Get(ctx, s.collections.Item(id, "projects"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProjectService) Tags(ctx context.Context) ([]models.ProjectTag, error) {
	return s.tags.List(ctx, nil)
}

func (s *ProjectService) CreateTag(ctx context.Context, tag models.ProjectTag) (*models.ProjectTag, error) {
	return s.tags.Create(ctx, tag)
}

func (s *ProjectService) UpdateTag(ctx context.Context, id int, tag models.ProjectTag) (*models.ProjectTag, error) {
	return s.tags.Update(ctx, id, tag)
}

func (s *ProjectService) DeleteTag(ctx context.Context, id int) error {
	return s.tags.Delete(ctx, id)
}

// List fetches the projects matching f.
func (s *ProjectService) List(ctx context.Context, f ProjectFilter) ([]models.Project, error) {
	return s.projects.List(ctx, f.Query())
}

func (s *ProjectService) Get(ctx context.Context, id int) (*models.Project, error) {
	return s.projects.Get(ctx, id)
}

// Create validates and stores a project.
func (s *ProjectService) Create(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.projects.Create(ctx, in)
}

func (s *ProjectService) Update(ctx context.Context, id int, in models.ProjectInput) (*models.Project, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.projects.Update(ctx, id, in)
}

func (s *ProjectService) Delete(ctx context.Context, id int) error {
	return s.projects.Delete(ctx, id)
}

// Pin toggles the pinned flag.
func (s *ProjectService) Pin(ctx context.Context, id int) (*models.Project, error) {
	return s.projects.Action(ctx, http.MethodPatch, id, "pin", nil)
}

// SetProgress sets the completion percentage; the backend marks the project completed at 100.
func (s *ProjectService) SetProgress(ctx context.Context, id, progress int) (*models.Project, error) {
	if err := models.ValidateProgress(progress); err != nil {
		return nil, err
	}
	return s.projects.Action(ctx, http.MethodPatch, id, "progress", map[string]int{"progress": progress})
}
