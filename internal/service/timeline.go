package service

import (
	"errors"
	"feednana/internal/dto"
	"feednana/internal/repo"
	"feednana/model"
	"time"

	"golang.org/x/net/context"
)

// eventDateLayout is the calendar-date wire format for timeline items.
const eventDateLayout = "2006-01-02"

// ParseEventDate parses a timeline item's calendar date.
func ParseEventDate(raw string) (time.Time, error) {
	return time.Parse(eventDateLayout, raw)
}

// CreateTimeline opens a new timeline owned by a user.
func CreateTimeline(userID uint64, name, manifesto string) (*model.Timeline, error) {
	if name == "" {
		return nil, errors.New("timeline needs a name")
	}
	timeline := model.Timeline{
		Name:      name,
		Manifesto: manifesto,
		UserID:    userID,
	}
	if err := repo.Db.Create(&timeline).Error; err != nil {
		return nil, err
	}
	return &timeline, nil
}

// AddTimelineItem pins a file to a timeline at a calendar date. Only the
// timeline's owner may extend it.
func AddTimelineItem(ctx context.Context, actorID, timelineID, fileID uint64, eventDate time.Time, note string) (*model.TimelineItem, error) {
	var timeline model.Timeline
	if err := repo.Db.Where("id = ? AND removed = ?", timelineID, false).First(&timeline).Error; err != nil {
		return nil, err
	}
	if timeline.UserID != actorID {
		return nil, ErrForbidden
	}
	if _, err := GetFileById(ctx, fileID); err != nil {
		return nil, err
	}
	item := model.TimelineItem{
		TimelineID: timelineID,
		FileID:     fileID,
		EventDate:  eventDate,
		Note:       note,
	}
	if err := repo.Db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// GetTimeline loads a timeline with its items in event-date order. The
// optional from/to bounds are the ribbon's lens: only items whose date
// falls inside the window are returned.
func GetTimeline(id uint64, from, to *time.Time) (*dto.TimelineView, error) {
	var timeline model.Timeline
	if err := repo.Db.Where("id = ? AND removed = ?", id, false).First(&timeline).Error; err != nil {
		return nil, err
	}
	query := repo.Db.
		Where("timeline_id = ?", id).
		Order("event_date ASC, id ASC")
	if from != nil {
		query = query.Where("event_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("event_date <= ?", *to)
	}
	var items []model.TimelineItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}

	karma, err := Karma(model.FlavorTimeline, timeline.ID)
	if err != nil {
		return nil, err
	}
	view := dto.TimelineView{
		ID:        timeline.ID,
		Name:      timeline.Name,
		Manifesto: timeline.Manifesto,
		UserID:    timeline.UserID,
		Karma:     karma,
		Items:     make([]dto.TimelineItemView, 0, len(items)),
		CreatedAt: timeline.CreatedAt,
	}
	for i := range items {
		item := &items[i]
		var file model.File
		err := repo.Db.Where("id = ? AND removed = ?", item.FileID, false).First(&file).Error
		if err != nil {
			// A removed file drops off the ribbon but keeps its slot row.
			continue
		}
		fileView, err := BuildFileView(&file)
		if err != nil {
			return nil, err
		}
		view.Items = append(view.Items, dto.TimelineItemView{
			ID:        item.ID,
			File:      fileView,
			EventDate: item.EventDate,
			Note:      item.Note,
		})
	}
	return &view, nil
}

// ListTimelines returns a user's timelines, newest first.
func ListTimelines(userID uint64) ([]model.Timeline, error) {
	var timelines []model.Timeline
	err := repo.Db.
		Where("user_id = ? AND removed = ?", userID, false).
		Order("id DESC").
		Find(&timelines).Error
	return timelines, err
}

// RemoveTimelineItem unpins a file from a timeline. Only the timeline's
// owner may do this.
func RemoveTimelineItem(actorID, itemID uint64) error {
	var item model.TimelineItem
	if err := repo.Db.Where("id = ?", itemID).First(&item).Error; err != nil {
		return err
	}
	var timeline model.Timeline
	if err := repo.Db.Where("id = ?", item.TimelineID).First(&timeline).Error; err != nil {
		return err
	}
	if timeline.UserID != actorID && !IsModerator(actorID) {
		return ErrForbidden
	}
	return repo.Db.Delete(&model.TimelineItem{}, item.ID).Error
}
