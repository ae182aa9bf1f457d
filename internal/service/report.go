package service

import (
	"errors"
	"feednana/internal/repo"
	"feednana/model"
	"feednana/utils"

	"golang.org/x/net/context"
)

// CreateReport files a moderation report against a piece of content.
func CreateReport(identity Identity, flavor string, contentID uint64, reason string) (*model.Report, error) {
	if !model.ValidFlavor(flavor) {
		return nil, errors.New("unknown flavor")
	}
	if reason == "" {
		return nil, errors.New("report needs a reason")
	}
	report := model.Report{
		Flavor:    flavor,
		ContentID: contentID,
		Reason:    reason,
		UserID:    identity.UserID,
		AnonID:    identity.AnonID,
	}
	if err := repo.Db.Create(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// ListOpenReports returns unresolved reports, oldest first. Moderators
// only.
func ListOpenReports(actorID uint64) ([]model.Report, error) {
	if !IsModerator(actorID) {
		return nil, ErrForbidden
	}
	var reports []model.Report
	err := repo.Db.
		Where("resolved = ?", false).
		Order("id ASC").
		Find(&reports).Error
	return reports, err
}

// ResolveReport closes a report, optionally removing the reported
// content in the same stroke. Moderators only.
func ResolveReport(ctx context.Context, actorID, reportID uint64, remove bool) error {
	if !IsModerator(actorID) {
		return ErrForbidden
	}
	var report model.Report
	if err := repo.Db.Where("id = ?", reportID).First(&report).Error; err != nil {
		return err
	}
	if remove {
		switch report.Flavor {
		case model.FlavorFile:
			if err := RemoveFile(ctx, report.ContentID, actorID); err != nil {
				return err
			}
		case model.FlavorAlbum:
			if err := repo.Db.Model(&model.Album{}).
				Where("id = ?", report.ContentID).
				Update("removed", true).Error; err != nil {
				return err
			}
			_ = utils.InvalidateAlbumCache(ctx, report.ContentID)
		case model.FlavorComment:
			if err := RemoveComment(report.ContentID, actorID); err != nil {
				return err
			}
		case model.FlavorTimeline:
			if err := repo.Db.Model(&model.Timeline{}).
				Where("id = ?", report.ContentID).
				Update("removed", true).Error; err != nil {
				return err
			}
		}
	}
	return repo.Db.Model(&model.Report{}).
		Where("id = ?", reportID).
		Updates(map[string]interface{}{
			"resolved":    true,
			"resolved_by": actorID,
		}).Error
}
