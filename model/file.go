package model

import "time"

type File struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	Name      string `gorm:"column:name;size:255;not null;default:''" json:"name"`
	Manifesto string `gorm:"column:manifesto;type:text" json:"manifesto"`

	// UserID is nil for anonymous posts; the anon fields carry the
	// per-session pseudonymous identity instead.
	UserID *uint64 `gorm:"column:user_id;index" json:"user_id,omitempty"`
	User   *User   `gorm:"foreignKey:UserID;references:ID" json:"-"`

	AnonID     string `gorm:"column:anon_id;size:36;not null;default:''" json:"anon_id,omitempty"`
	AnonColorA string `gorm:"column:anon_color_a;size:7;not null;default:''" json:"anon_color_a,omitempty"`
	AnonColorB string `gorm:"column:anon_color_b;size:7;not null;default:''" json:"anon_color_b,omitempty"`

	Views uint64 `gorm:"column:views;not null;default:0" json:"views"`

	OriginalName string `gorm:"column:original_name;size:255;not null" json:"original_name"`
	Size         int64  `gorm:"column:size;not null" json:"size"`
	MimeType     string `gorm:"column:mime_type;size:128;not null" json:"mime_type"`

	// HashedFileName is the storage key's basename; FileURL is derived
	// deterministically from it at creation time.
	HashedFileName string  `gorm:"column:hashed_file_name;size:128;index;not null" json:"hashed_file_name"`
	FileURL        string  `gorm:"column:file_url;size:512;not null" json:"file_url"`
	ThumbnailURL   *string `gorm:"column:thumbnail_url;size:512" json:"thumbnail_url"`

	// AlbumID is set at creation time only; files are never reparented.
	AlbumID *uint64 `gorm:"column:album_id;index" json:"album_id,omitempty"`
	Album   *Album  `gorm:"foreignKey:AlbumID;references:ID" json:"-"`

	DisableComments bool `gorm:"column:disable_comments;not null;default:false" json:"disable_comments"`
	Unlisted        bool `gorm:"column:unlisted;not null;default:false" json:"unlisted"`
	Removed         bool `gorm:"column:removed;not null;default:false" json:"removed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (File) TableName() string {
	return "file"
}
