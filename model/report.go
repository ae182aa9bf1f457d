package model

import "time"

type Report struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	Flavor    string `gorm:"column:flavor;size:16;not null;index:idx_report_content" json:"flavor"`
	ContentID uint64 `gorm:"column:content_id;not null;index:idx_report_content" json:"content_id"`

	Reason string `gorm:"column:reason;size:1000;not null" json:"reason"`

	UserID *uint64 `gorm:"column:user_id" json:"user_id,omitempty"`
	AnonID string  `gorm:"column:anon_id;size:36;not null;default:''" json:"anon_id,omitempty"`

	Resolved   bool    `gorm:"column:resolved;not null;default:false;index" json:"resolved"`
	ResolvedBy *uint64 `gorm:"column:resolved_by" json:"resolved_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Report) TableName() string {
	return "report"
}
