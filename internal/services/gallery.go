package services

import (
	"context"
	"net/http"

	"github.com/desertthunder/hobbyhub/internal/models"
)

// GalleryService wraps the /gallery group.
type GalleryService struct {
	client *Client
	photos *Resource[models.Photo, models.PhotoInput]
}

// NewGalleryService creates a GalleryService on client.
func NewGalleryService(client *Client) *GalleryService {
	return &GalleryService{client: client, photos: NewResource[models.Photo, models.PhotoInput](client, "/photos/")}
}

func (s *GalleryService) List(ctx context.Context) ([]models.Photo, error) {
	return s.photos.List(ctx, nil)
}

func (s *GalleryService) Get(ctx context.Context, id int) (*models.Photo, error) {
	return s.photos.Get(ctx, id)
}

// Upload sends an image with its title and description as multipart.
func (s *GalleryService) Upload(ctx context.Context, image FormFile, meta models.PhotoInput) (*models.Photo, error) {
	image.Field = "image"
	form := &Form{
		Fields: map[string]string{"title": meta.Title, "description": meta.Description},
		Files:  []FormFile{image},
	}

	var out models.Photo
	if err := s.client.Upload(ctx, http.MethodPost, s.photos.Path()+"upload/", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the title and description.
func (s *GalleryService) Update(ctx context.Context, id int, meta models.PhotoInput) (*models.Photo, error) {
	return s.photos.Update(ctx, id, meta)
}

func (s *GalleryService) Delete(ctx context.Context, id int) error {
	return s.photos.Delete(ctx, id)
}
