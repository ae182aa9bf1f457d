package service

import (
	"errors"
	"feednana/internal/dto"
	"feednana/internal/events"
	"feednana/internal/repo"
	"feednana/model"
	"strings"

	"golang.org/x/net/context"
)

// MaxCommentLength caps a comment body.
const MaxCommentLength = 5000

// commentsOpen checks the target exists, is visible and accepts comments.
func commentsOpen(ctx context.Context, flavor string, contentID uint64) error {
	switch flavor {
	case model.FlavorFile:
		file, err := GetFileById(ctx, contentID)
		if err != nil {
			return err
		}
		if file.DisableComments {
			return errors.New("comments disabled")
		}
	case model.FlavorAlbum:
		album, err := GetAlbumById(ctx, contentID)
		if err != nil {
			return err
		}
		if album.DisableComments {
			return errors.New("comments disabled")
		}
	case model.FlavorTimeline:
		var timeline model.Timeline
		err := repo.Db.Where("id = ? AND removed = ?", contentID, false).First(&timeline).Error
		if err != nil {
			return err
		}
	default:
		return errors.New("flavor not commentable")
	}
	return nil
}

// CreateComment posts a comment on a piece of content.
func CreateComment(ctx context.Context, identity Identity, flavor string, contentID uint64, body string) (*model.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.New("empty comment")
	}
	if len(body) > MaxCommentLength {
		return nil, errors.New("comment too long")
	}
	if err := commentsOpen(ctx, flavor, contentID); err != nil {
		return nil, err
	}
	comment := model.Comment{
		Flavor:     flavor,
		ContentID:  contentID,
		UserID:     identity.UserID,
		AnonID:     identity.AnonID,
		AnonColorA: identity.AnonColorA,
		AnonColorB: identity.AnonColorB,
		Body:       body,
	}
	if err := repo.Db.Create(&comment).Error; err != nil {
		return nil, err
	}
	events.Publish(ctx, events.TopicComments, events.Event{
		Kind:      "comment.created",
		Flavor:    flavor,
		ContentID: contentID,
	})
	return &comment, nil
}

// ListComments pages through the visible comments on a piece of content,
// oldest first.
func ListComments(flavor string, contentID uint64, page, pageSize int) ([]dto.CommentView, error) {
	if !model.ValidFlavor(flavor) {
		return nil, errors.New("unknown flavor")
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	var comments []model.Comment
	err := repo.Db.
		Where("flavor = ? AND content_id = ? AND removed = ?", flavor, contentID, false).
		Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	views := make([]dto.CommentView, 0, len(comments))
	for i := range comments {
		comment := &comments[i]
		karma, err := Karma(model.FlavorComment, comment.ID)
		if err != nil {
			return nil, err
		}
		view := dto.CommentView{
			ID:         comment.ID,
			Flavor:     comment.Flavor,
			ContentID:  comment.ContentID,
			UserID:     comment.UserID,
			AnonID:     comment.AnonID,
			AnonColorA: comment.AnonColorA,
			AnonColorB: comment.AnonColorB,
			Body:       comment.Body,
			Karma:      karma,
			CreatedAt:  comment.CreatedAt,
		}
		if comment.UserID != nil {
			if user, err := GetUserById(*comment.UserID); err == nil {
				view.UserName = user.UserName
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// RemoveComment soft-removes a comment. Only its author or a moderator
// may do this.
func RemoveComment(id, actorID uint64) error {
	var comment model.Comment
	if err := repo.Db.Where("id = ?", id).First(&comment).Error; err != nil {
		return err
	}
	isAuthor := comment.UserID != nil && *comment.UserID == actorID
	if !isAuthor && !IsModerator(actorID) {
		return ErrForbidden
	}
	return repo.Db.Model(&model.Comment{}).
		Where("id = ?", id).
		Update("removed", true).Error
}
