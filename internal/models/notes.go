package models

// Folder groups notes.
type Folder struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}

// NoteTag labels notes.
type NoteTag struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// NoteImage is an image attached to a note.
type NoteImage struct {
	ID         int     `json:"id"`
	Image      string  `json:"image"`
	ImageURL   *string `json:"image_url"`
	UploadedAt string  `json:"uploaded_at"`
}

// Note is a note with its tags and images.
type Note struct {
	ID         int         `json:"id"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	Folder     *int        `json:"folder"`
	FolderName *string     `json:"folder_name"`
	Tags       []NoteTag   `json:"tags"`
	Color      string      `json:"color"`
	IsPinned   bool        `json:"is_pinned"`
	IsArchived bool        `json:"is_archived"`
	IsDeleted  bool        `json:"is_deleted"`
	DeletedAt  *string     `json:"deleted_at"`
	CreatedAt  string      `json:"created_at,omitempty"`
	UpdatedAt  string      `json:"updated_at,omitempty"`
	Images     []NoteImage `json:"images"`
}

// NoteInput is the writable part of a note. A nil Folder clears the folder.
type NoteInput struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Folder     *int   `json:"folder"`
	TagIDs     []int  `json:"tag_ids"`
	Color      string `json:"color,omitempty"`
	IsPinned   bool   `json:"is_pinned"`
	IsArchived bool   `json:"is_archived"`
}

// Input converts a note back into an editable input.
func (n Note) Input() NoteInput {
	ids := make([]int, 0, len(n.Tags))
	for _, t := range n.Tags {
		ids = append(ids, t.ID)
	}
	return NoteInput{
		Title:      n.Title,
		Content:    n.Content,
		Folder:     n.Folder,
		TagIDs:     ids,
		Color:      n.Color,
		IsPinned:   n.IsPinned,
		IsArchived: n.IsArchived,
	}
}
