package service

import (
	"feednana/config"
	"feednana/internal/repo"
	"feednana/internal/storage"
	"feednana/model"
	"log"
	"time"

	"golang.org/x/net/context"
)

const reaperLockKey = "lock:upload-reaper"

// ReapStaleUploadSessions aborts multipart sessions whose clients never
// completed them and drops their rows. Sessions the backend no longer
// knows are treated as already aborted.
func ReapStaleUploadSessions(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-config.AppConfig.UploadSessionTTL)
	var sessions []model.UploadSession
	err := repo.Db.
		Where("status = ? AND created_at < ?", model.UploadStatusOpen, cutoff).
		Find(&sessions).Error
	if err != nil {
		return 0, err
	}
	reaped := 0
	bucket := config.AppConfig.BucketName
	for i := range sessions {
		session := &sessions[i]
		if storage.Default != nil {
			err := storage.Default.AbortMultipartUpload(ctx, bucket, session.ObjectKey, session.UploadID)
			if err != nil && !storage.IsNoSuchUpload(err) {
				log.Printf("reaper: abort %s fail: %v", session.ObjectKey, err)
				continue
			}
		}
		if err := repo.Db.Delete(&model.UploadSession{}, session.ID).Error; err != nil {
			log.Printf("reaper: delete session %d fail: %v", session.ID, err)
			continue
		}
		reaped++
	}
	// Completed sessions only matter for dedup of the abort pass; old ones
	// can go without touching the backend.
	err = repo.Db.
		Where("status = ? AND created_at < ?", model.UploadStatusCompleted, cutoff).
		Delete(&model.UploadSession{}).Error
	if err != nil {
		log.Printf("reaper: prune completed sessions fail: %v", err)
	}
	return reaped, nil
}

// PurgeRemovedFiles deletes the stored bytes of files that have been
// removed for longer than the session TTL. The rows stay, soft-removed,
// with their URLs blanked so the purge never repeats.
func PurgeRemovedFiles(ctx context.Context) (int, error) {
	if storage.Default == nil {
		return 0, nil
	}
	cutoff := time.Now().Add(-config.AppConfig.UploadSessionTTL)
	var files []model.File
	err := repo.Db.
		Where("removed = ? AND file_url <> '' AND updated_at < ?", true, cutoff).
		Find(&files).Error
	if err != nil {
		return 0, err
	}
	purged := 0
	bucket := config.AppConfig.BucketName
	for i := range files {
		file := &files[i]
		if err := storage.Default.RemoveObject(ctx, bucket, file.HashedFileName); err != nil {
			log.Printf("reaper: purge %s fail: %v", file.HashedFileName, err)
			continue
		}
		if file.ThumbnailURL != nil && *file.ThumbnailURL != "" {
			thumbKey := ThumbnailKey(file.HashedFileName, file.MimeType)
			if err := storage.Default.RemoveObject(ctx, bucket, thumbKey); err != nil {
				log.Printf("reaper: purge thumbnail %s fail: %v", thumbKey, err)
			}
		}
		err := repo.Db.Model(&model.File{}).
			Where("id = ?", file.ID).
			Updates(map[string]interface{}{
				"file_url":      "",
				"thumbnail_url": nil,
			}).Error
		if err != nil {
			log.Printf("reaper: mark purged %d fail: %v", file.ID, err)
			continue
		}
		purged++
	}
	return purged, nil
}

// RunSessionReaper sweeps stale sessions on a fixed interval until the
// context ends. A Redis lock keeps concurrent instances from sweeping
// the same sessions.
func RunSessionReaper(ctx context.Context) {
	interval := config.AppConfig.ReaperInterval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		sweep := func() {
			if repo.Redis != nil {
				lock := repo.NewRedisLock(repo.Redis, reaperLockKey, interval)
				if err := lock.Lock(ctx); err != nil {
					return
				}
				defer lock.Unlock(ctx)
			}
			reaped, err := ReapStaleUploadSessions(ctx)
			if err != nil {
				log.Printf("reaper: sweep fail: %v", err)
				return
			}
			if reaped > 0 {
				log.Printf("reaper: aborted %d stale upload sessions", reaped)
			}
			purged, err := PurgeRemovedFiles(ctx)
			if err != nil {
				log.Printf("reaper: purge fail: %v", err)
				return
			}
			if purged > 0 {
				log.Printf("reaper: purged %d removed files", purged)
			}
		}
		sweep()
	}
}
