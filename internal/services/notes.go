package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/hobbyhub/internal/models"
)

// NoteScope selects one of the mutually exclusive note lists.
type NoteScope string

const (
	ScopeAll      NoteScope = "all"
	ScopePinned   NoteScope = "pinned"
	ScopeArchived NoteScope = "archived"
	ScopeTrashed  NoteScope = "trashed"
)

// NoteScopes lists the scopes in display order.
var NoteScopes = []NoteScope{ScopeAll, ScopePinned, ScopeArchived, ScopeTrashed}

// ParseNoteScope validates a scope name; "" means [ScopeAll].
func ParseNoteScope(s string) (NoteScope, error) {
	if s == "" {
		return ScopeAll, nil
	}
	for _, scope := range NoteScopes {
		if string(scope) == s {
			return scope, nil
		}
	}
	return "", fmt.Errorf("unknown scope %q (want all, pinned, archived or trashed)", s)
}

// Next cycles to the following scope.
func (s NoteScope) Next() NoteScope {
	for i, scope := range NoteScopes {
		if scope == s {
			return NoteScopes[(i+1)%len(NoteScopes)]
		}
	}
	return ScopeAll
}

// NoteFilter is the query of the notes list.
type NoteFilter struct {
	Scope  NoteScope
	Search string
	Folder int
	Tag    int
}

// Query maps the filter to list parameters. Each scope sets exactly one flag; [ScopeAll] sets none.
func (f NoteFilter) Query() url.Values {
	q := url.Values{}
	switch f.Scope {
	case ScopePinned:
		q.Set("pinned", "true")
	case ScopeArchived:
		q.Set("archived", "true")
	case ScopeTrashed:
		q.Set("deleted", "true")
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Folder > 0 {
		q.Set("folder", strconv.Itoa(f.Folder))
	}
	if f.Tag > 0 {
		q.Set("tag", strconv.Itoa(f.Tag))
	}
	return q
}

// NoteService wraps the /notes group.
type NoteService struct {
	client  *Client
	folders *Resource[models.Folder, models.Folder]
	tags    *Resource[models.NoteTag, models.NoteTag]
	notes   *Resource[models.Note, models.NoteInput]
}

// NewNoteService creates a NoteService on client.
func NewNoteService(client *Client) *NoteService {
	return &NoteService{
		client:  client,
		folders: NewResource[models.Folder, models.Folder](client, "/folders/"),
		tags:    NewResource[models.NoteTag, models.NoteTag](client, "/tags/"),
		notes:   NewResource[models.Note, models.NoteInput](client, "/notes/"),
	}
}

func (s *NoteService) Folders(ctx context.Context) ([]models.Folder, error) {
	return s.folders.List(ctx, nil)
}

func (s *NoteService) CreateFolder(ctx context.Context, name string) (*models.Folder, error) {
	return s.folders.Create(ctx, models.Folder{Name: name})
}

func (s *NoteService) RenameFolder(ctx context.Context, id int, name string) (*models.Folder, error) {
	return s.folders.Update(ctx, id, models.Folder{Name: name})
}

func (s *NoteService) DeleteFolder(ctx context.Context, id int) error {
	return s.folders.Delete(ctx, id)
}

func (s *NoteService) Tags(ctx context.Context) ([]models.NoteTag, error) {
	return s.tags.List(ctx, nil)
}

func (s *NoteService) CreateTag(ctx context.Context, tag models.NoteTag) (*models.NoteTag, error) {
	return s.tags.Create(ctx, tag)
}

func (s *NoteService) UpdateTag(ctx context.Context, id int, tag models.NoteTag) (*models.NoteTag, error) {
	return s.tags.Update(ctx, id, tag)
}

func (s *NoteService) DeleteTag(ctx context.Context, id int) error {
	return s.tags.Delete(ctx, id)
}

// List fetches the notes matching f.
//
// The backend has no pinned filter of its own, so the pinned scope is narrowed here as well.
func (s *NoteService) List(ctx context.Context, f NoteFilter) ([]models.Note, error) {
	notes, err := s.notes.List(ctx, f.Query())
	if err != nil {
		return nil, err
	}
	if f.Scope != ScopePinned {
		return notes, nil
	}

	pinned := notes[:0]
	for _, n := range notes {
		if n.IsPinned {
			pinned = append(pinned, n)
		}
	}
	return pinned, nil
}

func (s *NoteService) Get(ctx context.Context, id int) (*models.Note, error) {
	return s.notes.Get(ctx, id)
}

func (s *NoteService) Create(ctx context.Context, in models.NoteInput) (*models.Note, error) {
	return s.notes.Create(ctx, in)
}

func (s *NoteService) Update(ctx context.Context, id int, in models.NoteInput) (*models.Note, error) {
	return s.notes.Update(ctx, id, in)
}

// Delete removes a note permanently. Use [NoteService.Trash] for the soft delete.
func (s *NoteService) Delete(ctx context.Context, id int) error {
	return s.notes.Delete(ctx, id)
}

// Pin toggles the pinned flag.
func (s *NoteService) Pin(ctx context.Context, id int) (*models.Note, error) {
	return s.notes.Action(ctx, http.MethodPatch, id, "pin", nil)
}

// Archive toggles the archived flag; archiving unpins.
func (s *NoteService) Archive(ctx context.Context, id int) (*models.Note, error) {
	return s.notes.Action(ctx, http.MethodPatch, id, "archive", nil)
}

// Trash soft-deletes a note.
func (s *NoteService) Trash(ctx context.Context, id int) (*models.Note, error) {
	return s.notes.Action(ctx, http.MethodPatch, id, "trash", nil)
}

// Restore brings a note back from the trash.
func (s *NoteService) Restore(ctx context.Context, id int) (*models.Note, error) {
	return s.notes.Action(ctx, http.MethodPatch, id, "restore", nil)
}

// UploadImage attaches an image to a note.
func (s *NoteService) UploadImage(ctx context.Context, id int, image FormFile) (*models.NoteImage, error) {
	image.Field = "image"
	var out models.NoteImage
	if err := s.client.Upload(ctx, http.MethodPost, s.notes.Item(id, "images"), &Form{Files: []FormFile{image}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteImage removes an attached image.
func (s *NoteService) DeleteImage(ctx context.Context, imageID int) error {
	return s.client.Delete(ctx, fmt.Sprintf("%simages/%d/", s.notes.Path(), imageID))
}

// PurgeTrash permanently deletes notes trashed more than 30 days ago and returns how many went.
func (s *NoteService) PurgeTrash(ctx context.Context) (int, error) {
	var out models.Deleted
	if err := s.client.Do(ctx, Request{Method: http.MethodDelete, Path: s.notes.Path() + "permanent-delete/"}, &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}
