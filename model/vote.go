package model

import "time"

// Vote is one ±1 ballot on a piece of content. Karma is never stored; it
// is always SUM(vote) over these rows at read time.
type Vote struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	Flavor    string `gorm:"column:flavor;size:16;not null;uniqueIndex:uk_vote_content_voter,priority:1" json:"flavor"`
	ContentID uint64 `gorm:"column:content_id;not null;uniqueIndex:uk_vote_content_voter,priority:2" json:"content_id"`

	// VoterKey is "u:<user id>" for authenticated voters, "a:<anon id>"
	// for anonymous ones. One ballot per voter per content.
	VoterKey string `gorm:"column:voter_key;size:64;not null;uniqueIndex:uk_vote_content_voter,priority:3" json:"-"`

	UserID *uint64 `gorm:"column:user_id;index" json:"user_id,omitempty"`
	AnonID string  `gorm:"column:anon_id;size:36;not null;default:''" json:"anon_id,omitempty"`

	Vote int `gorm:"column:vote;not null" json:"vote"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Vote) TableName() string {
	return "vote"
}
