package service

import (
	"errors"
	"feednana/internal/dto"
	"feednana/internal/repo"
	"feednana/model"
	"feednana/utils"
	"time"

	"golang.org/x/net/context"
	"gorm.io/gorm"
)

const fileCacheTTL = 5 * time.Minute

// ErrForbidden is returned when a caller may not act on the content.
var ErrForbidden = errors.New("forbidden")

// Karma is the ballot sum for a piece of content. It is derived on every
// read; no stored counter can drift.
func Karma(flavor string, contentID uint64) (int64, error) {
	var total *int64
	err := repo.Db.Model(&model.Vote{}).
		Select("SUM(vote)").
		Where("flavor = ? AND content_id = ?", flavor, contentID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// CommentCount counts the visible comments on a piece of content.
func CommentCount(flavor string, contentID uint64) (int64, error) {
	var count int64
	err := repo.Db.Model(&model.Comment{}).
		Where("flavor = ? AND content_id = ? AND removed = ?", flavor, contentID, false).
		Count(&count).Error
	return count, err
}

// GetFileById finds a visible file by id, reading through the cache.
func GetFileById(ctx context.Context, id uint64) (*model.File, error) {
	if cached, ok := utils.GetFileFromCache(ctx, id); ok && cached != nil {
		if cached.Removed {
			return nil, gorm.ErrRecordNotFound
		}
		return cached, nil
	}
	var file model.File
	err := repo.Db.Where("id = ? AND removed = ?", id, false).First(&file).Error
	if err != nil {
		return nil, err
	}
	_ = utils.SetFileToCache(ctx, id, &file, fileCacheTTL)
	return &file, nil
}

// IncrementViews bumps a file's view counter.
func IncrementViews(ctx context.Context, id uint64) error {
	err := repo.Db.Model(&model.File{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return err
	}
	return utils.InvalidateFileCache(ctx, id)
}

// BuildFileView decorates a file row with its derived fields.
func BuildFileView(file *model.File) (dto.FileView, error) {
	karma, err := Karma(model.FlavorFile, file.ID)
	if err != nil {
		return dto.FileView{}, err
	}
	comments, err := CommentCount(model.FlavorFile, file.ID)
	if err != nil {
		return dto.FileView{}, err
	}
	view := dto.FileView{
		ID:              file.ID,
		Name:            file.Name,
		Manifesto:       file.Manifesto,
		UserID:          file.UserID,
		AnonID:          file.AnonID,
		AnonColorA:      file.AnonColorA,
		AnonColorB:      file.AnonColorB,
		Views:           file.Views,
		OriginalName:    file.OriginalName,
		Size:            file.Size,
		MimeType:        file.MimeType,
		HashedFileName:  file.HashedFileName,
		FileURL:         file.FileURL,
		ThumbnailURL:    file.ThumbnailURL,
		AlbumID:         file.AlbumID,
		DisableComments: file.DisableComments,
		Unlisted:        file.Unlisted,
		Karma:           karma,
		CommentCount:    comments,
		CreatedAt:       file.CreatedAt,
	}
	if file.UserID != nil {
		if user, err := GetUserById(*file.UserID); err == nil {
			view.UserName = user.UserName
		}
	}
	return view, nil
}

// ListFiles pages through the public feed. Order "top" ranks by karma,
// anything else by recency. Unlisted and removed files never appear.
func ListFiles(page, pageSize int, order string) ([]model.File, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	base := repo.Db.Model(&model.File{}).
		Where("removed = ? AND unlisted = ?", false, false)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := repo.Db.Model(&model.File{}).
		Where("removed = ? AND unlisted = ?", false, false)
	if order == "top" {
		query = query.
			Select("file.*, COALESCE((SELECT SUM(v.vote) FROM vote v WHERE v.flavor = ? AND v.content_id = file.id), 0) AS karma_rank", model.FlavorFile).
			Order("karma_rank DESC, file.id DESC")
	} else {
		query = query.Order("file.id DESC")
	}

	var files []model.File
	err := query.
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&files).Error
	return files, total, err
}

// RemoveFile soft-removes a file. Only the owner or a moderator may do
// this; anonymous posts have no owner and are moderator-only.
func RemoveFile(ctx context.Context, id, actorID uint64) error {
	var file model.File
	if err := repo.Db.Where("id = ?", id).First(&file).Error; err != nil {
		return err
	}
	isOwner := file.UserID != nil && *file.UserID == actorID
	if !isOwner && !IsModerator(actorID) {
		return ErrForbidden
	}
	err := repo.Db.Model(&model.File{}).
		Where("id = ?", id).
		Update("removed", true).Error
	if err != nil {
		return err
	}
	return utils.InvalidateFileCache(ctx, id)
}
