package model

import "time"

// Album groups the files of one multi-file upload batch. It is created
// implicitly when a batch carries more than one file.
type Album struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	Name      string `gorm:"column:name;size:255;not null;default:''" json:"name"`
	Manifesto string `gorm:"column:manifesto;type:text" json:"manifesto"`

	UserID *uint64 `gorm:"column:user_id;index" json:"user_id,omitempty"`
	User   *User   `gorm:"foreignKey:UserID;references:ID" json:"-"`

	AnonID     string `gorm:"column:anon_id;size:36;not null;default:''" json:"anon_id,omitempty"`
	AnonColorA string `gorm:"column:anon_color_a;size:7;not null;default:''" json:"anon_color_a,omitempty"`
	AnonColorB string `gorm:"column:anon_color_b;size:7;not null;default:''" json:"anon_color_b,omitempty"`

	Views uint64 `gorm:"column:views;not null;default:0" json:"views"`

	DisableComments bool `gorm:"column:disable_comments;not null;default:false" json:"disable_comments"`
	Unlisted        bool `gorm:"column:unlisted;not null;default:false" json:"unlisted"`
	Removed         bool `gorm:"column:removed;not null;default:false" json:"removed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Album) TableName() string {
	return "album"
}
