package model

import "time"

type Timeline struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	Name      string `gorm:"column:name;size:255;not null" json:"name"`
	Manifesto string `gorm:"column:manifesto;type:text" json:"manifesto"`

	UserID uint64 `gorm:"column:user_id;not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Removed bool `gorm:"column:removed;not null;default:false" json:"removed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Timeline) TableName() string {
	return "timeline"
}

// TimelineItem places one file on a timeline at a calendar date. The date
// is what the ribbon's lens filters on.
type TimelineItem struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	TimelineID uint64   `gorm:"column:timeline_id;not null;index" json:"timeline_id"`
	Timeline   Timeline `gorm:"foreignKey:TimelineID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	FileID uint64 `gorm:"column:file_id;not null;index" json:"file_id"`
	File   File   `gorm:"foreignKey:FileID;references:ID" json:"-"`

	EventDate time.Time `gorm:"column:event_date;not null;index" json:"event_date"`
	Note      string    `gorm:"column:note;size:500;not null;default:''" json:"note"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (TimelineItem) TableName() string {
	return "timeline_item"
}
