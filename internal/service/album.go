package service

import (
	"feednana/internal/dto"
	"feednana/internal/repo"
	"feednana/model"
	"feednana/utils"
	"time"

	"golang.org/x/net/context"
	"gorm.io/gorm"
)

const albumCacheTTL = 5 * time.Minute

// GetAlbumById finds a visible album by id, reading through the cache.
func GetAlbumById(ctx context.Context, id uint64) (*model.Album, error) {
	if cached, ok := utils.GetAlbumFromCache(ctx, id); ok && cached != nil {
		if cached.Removed {
			return nil, gorm.ErrRecordNotFound
		}
		return cached, nil
	}
	var album model.Album
	err := repo.Db.Where("id = ? AND removed = ?", id, false).First(&album).Error
	if err != nil {
		return nil, err
	}
	_ = utils.SetAlbumToCache(ctx, id, &album, albumCacheTTL)
	return &album, nil
}

// ListAlbumFiles returns an album's visible members in upload order.
func ListAlbumFiles(albumID uint64) ([]model.File, error) {
	var files []model.File
	err := repo.Db.
		Where("album_id = ? AND removed = ?", albumID, false).
		Order("id ASC").
		Find(&files).Error
	return files, err
}

// BuildAlbumView decorates an album row with its derived fields and,
// when asked, its member files.
func BuildAlbumView(album *model.Album, withFiles bool) (dto.AlbumView, error) {
	karma, err := Karma(model.FlavorAlbum, album.ID)
	if err != nil {
		return dto.AlbumView{}, err
	}
	comments, err := CommentCount(model.FlavorAlbum, album.ID)
	if err != nil {
		return dto.AlbumView{}, err
	}
	view := dto.AlbumView{
		ID:              album.ID,
		Name:            album.Name,
		Manifesto:       album.Manifesto,
		UserID:          album.UserID,
		AnonID:          album.AnonID,
		AnonColorA:      album.AnonColorA,
		AnonColorB:      album.AnonColorB,
		Views:           album.Views,
		DisableComments: album.DisableComments,
		Unlisted:        album.Unlisted,
		Karma:           karma,
		CommentCount:    comments,
		CreatedAt:       album.CreatedAt,
	}
	if withFiles {
		files, err := ListAlbumFiles(album.ID)
		if err != nil {
			return dto.AlbumView{}, err
		}
		for i := range files {
			fileView, err := BuildFileView(&files[i])
			if err != nil {
				return dto.AlbumView{}, err
			}
			view.Files = append(view.Files, fileView)
		}
	}
	return view, nil
}

// IncrementAlbumViews bumps an album's view counter.
func IncrementAlbumViews(ctx context.Context, id uint64) error {
	err := repo.Db.Model(&model.Album{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return err
	}
	return utils.InvalidateAlbumCache(ctx, id)
}
