package model

import "time"

type Comment struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	Flavor    string `gorm:"column:flavor;size:16;not null;index:idx_comment_content" json:"flavor"`
	ContentID uint64 `gorm:"column:content_id;not null;index:idx_comment_content" json:"content_id"`

	UserID *uint64 `gorm:"column:user_id;index" json:"user_id,omitempty"`
	User   *User   `gorm:"foreignKey:UserID;references:ID" json:"-"`

	AnonID     string `gorm:"column:anon_id;size:36;not null;default:''" json:"anon_id,omitempty"`
	AnonColorA string `gorm:"column:anon_color_a;size:7;not null;default:''" json:"anon_color_a,omitempty"`
	AnonColorB string `gorm:"column:anon_color_b;size:7;not null;default:''" json:"anon_color_b,omitempty"`

	Body string `gorm:"column:body;type:text;not null" json:"body"`

	Removed bool `gorm:"column:removed;not null;default:false" json:"removed"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Comment) TableName() string {
	return "comment"
}
