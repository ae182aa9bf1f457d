package dto

import "time"

// UploadTarget is the per-file result of initiateUpload: one multipart
// session and one presigned URL per 5 MiB part, in part order.
type UploadTarget struct {
	UploadID string   `json:"upload_id"`
	Key      string   `json:"key"`
	URLs     []string `json:"urls"`
}

type InitiateUploadResponse struct {
	Targets []UploadTarget `json:"targets"`
}

// FileView is a File row decorated with its derived fields.
type FileView struct {
	ID              uint64    `json:"id"`
	Name            string    `json:"name"`
	Manifesto       string    `json:"manifesto"`
	UserID          *uint64   `json:"user_id,omitempty"`
	UserName        string    `json:"user_name,omitempty"`
	AnonID          string    `json:"anon_id,omitempty"`
	AnonColorA      string    `json:"anon_color_a,omitempty"`
	AnonColorB      string    `json:"anon_color_b,omitempty"`
	Views           uint64    `json:"views"`
	OriginalName    string    `json:"original_name"`
	Size            int64     `json:"size"`
	MimeType        string    `json:"mime_type"`
	HashedFileName  string    `json:"hashed_file_name"`
	FileURL         string    `json:"file_url"`
	ThumbnailURL    *string   `json:"thumbnail_url"`
	AlbumID         *uint64   `json:"album_id,omitempty"`
	DisableComments bool      `json:"disable_comments"`
	Unlisted        bool      `json:"unlisted"`
	Karma           int64     `json:"karma"`
	CommentCount    int64     `json:"comment_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// AlbumView is an Album row decorated with derived fields and members.
type AlbumView struct {
	ID              uint64     `json:"id"`
	Name            string     `json:"name"`
	Manifesto       string     `json:"manifesto"`
	UserID          *uint64    `json:"user_id,omitempty"`
	AnonID          string     `json:"anon_id,omitempty"`
	AnonColorA      string     `json:"anon_color_a,omitempty"`
	AnonColorB      string     `json:"anon_color_b,omitempty"`
	Views           uint64     `json:"views"`
	DisableComments bool       `json:"disable_comments"`
	Unlisted        bool       `json:"unlisted"`
	Karma           int64      `json:"karma"`
	CommentCount    int64      `json:"comment_count"`
	Files           []FileView `json:"files,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// FileUploadResult is the completeUpload response: the first created file
// plus the album when the batch carried more than one file.
type FileUploadResult struct {
	File  *FileView  `json:"file"`
	Album *AlbumView `json:"album,omitempty"`
}

type FileListResponse struct {
	Files []FileView `json:"files"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
}

type CommentView struct {
	ID         uint64    `json:"id"`
	Flavor     string    `json:"flavor"`
	ContentID  uint64    `json:"content_id"`
	UserID     *uint64   `json:"user_id,omitempty"`
	UserName   string    `json:"user_name,omitempty"`
	AnonID     string    `json:"anon_id,omitempty"`
	AnonColorA string    `json:"anon_color_a,omitempty"`
	AnonColorB string    `json:"anon_color_b,omitempty"`
	Body       string    `json:"body"`
	Karma      int64     `json:"karma"`
	CreatedAt  time.Time `json:"created_at"`
}

type TimelineItemView struct {
	ID        uint64    `json:"id"`
	File      FileView  `json:"file"`
	EventDate time.Time `json:"event_date"`
	Note      string    `json:"note,omitempty"`
}

type TimelineView struct {
	ID        uint64             `json:"id"`
	Name      string             `json:"name"`
	Manifesto string             `json:"manifesto"`
	UserID    uint64             `json:"user_id"`
	Karma     int64              `json:"karma"`
	Items     []TimelineItemView `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
}
