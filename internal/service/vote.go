package service

import (
	"errors"
	"feednana/internal/events"
	"feednana/internal/repo"
	"feednana/model"

	"golang.org/x/net/context"
	"gorm.io/gorm/clause"
)

// CastVote records a ±1 ballot. A repeat vote by the same voter on the
// same content overwrites the earlier ballot instead of stacking.
func CastVote(ctx context.Context, identity Identity, flavor string, contentID uint64, value int) (int64, error) {
	if !model.ValidFlavor(flavor) {
		return 0, errors.New("unknown flavor")
	}
	if value != 1 && value != -1 {
		return 0, errors.New("vote must be 1 or -1")
	}
	if identity.UserID == nil && identity.AnonID == "" {
		return 0, errors.New("no voter identity")
	}
	vote := model.Vote{
		Flavor:    flavor,
		ContentID: contentID,
		VoterKey:  identity.VoterKey(),
		UserID:    identity.UserID,
		AnonID:    identity.AnonID,
		Vote:      value,
	}
	err := repo.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "flavor"}, {Name: "content_id"}, {Name: "voter_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"vote", "updated_at"}),
	}).Create(&vote).Error
	if err != nil {
		return 0, err
	}
	karma, err := Karma(flavor, contentID)
	if err != nil {
		return 0, err
	}
	events.Publish(ctx, events.TopicVotes, events.Event{
		Kind:      "vote.cast",
		Flavor:    flavor,
		ContentID: contentID,
	})
	return karma, nil
}
