package dto

// UploadFileInput describes one file of an initiate batch.
type UploadFileInput struct {
	Name     string `json:"name"`
	FileName string `json:"file_name" binding:"required"`
	FileSize int64  `json:"file_size" binding:"required"`
	MimeType string `json:"mime_type" binding:"required"`
}

type InitiateUploadRequest struct {
	Files          []UploadFileInput `json:"files" binding:"required"`
	RecaptchaToken string            `json:"recaptcha_token"`
}

// UploadPartInput is one uploaded chunk's (PartNumber, ETag) pair as
// captured from the storage backend's PUT response.
type UploadPartInput struct {
	PartNumber int    `json:"part_number" binding:"required"`
	ETag       string `json:"etag" binding:"required"`
}

// CompletedUploadInput is the value object handed back per file once all
// of its parts are uploaded.
type CompletedUploadInput struct {
	Key      string            `json:"key" binding:"required"`
	UploadID string            `json:"upload_id" binding:"required"`
	FileName string            `json:"file_name" binding:"required"`
	FileSize int64             `json:"file_size" binding:"required"`
	MimeType string            `json:"mime_type" binding:"required"`
	Name     string            `json:"name"`
	Parts    []UploadPartInput `json:"parts" binding:"required"`
}

type CompleteUploadRequest struct {
	Uploads         []CompletedUploadInput `json:"uploads" binding:"required"`
	Name            string                 `json:"name"`
	Manifesto       string                 `json:"manifesto"`
	DisableComments bool                   `json:"disable_comments"`
	Unlisted        bool                   `json:"unlisted"`
	Anonymous       bool                   `json:"anonymous"`
}

type CommentCreateRequest struct {
	Flavor    string `json:"flavor" binding:"required"`
	ContentID uint64 `json:"content_id" binding:"required"`
	Body      string `json:"body" binding:"required"`
}

type VoteRequest struct {
	Flavor    string `json:"flavor" binding:"required"`
	ContentID uint64 `json:"content_id" binding:"required"`
	Vote      int    `json:"vote" binding:"required"`
}

type ReportRequest struct {
	Flavor    string `json:"flavor" binding:"required"`
	ContentID uint64 `json:"content_id" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

type ResolveReportRequest struct {
	ReportID uint64 `json:"report_id" binding:"required"`
	Remove   bool   `json:"remove"`
}

type TimelineCreateRequest struct {
	Name      string `json:"name" binding:"required"`
	Manifesto string `json:"manifesto"`
}

type TimelineItemRequest struct {
	TimelineID uint64 `json:"timeline_id" binding:"required"`
	FileID     uint64 `json:"file_id" binding:"required"`
	EventDate  string `json:"event_date" binding:"required"` // 2006-01-02
	Note       string `json:"note"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username      string `json:"username" binding:"required"`
	FirstPassword string `json:"first-password" binding:"required"`
	LastPassword  string `json:"second-password" binding:"required"`
	Email         string `json:"email" binding:"required"`
}
