package models

// Photo is a gallery image.
type Photo struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	UploadedAt  string `json:"uploaded_at,omitempty"`
}

// PhotoInput is the editable metadata of a photo.
type PhotoInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
