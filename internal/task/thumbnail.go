package task

import (
	"context"
	"encoding/json"
	"feednana/internal/events"
	"feednana/internal/mq"
	"feednana/internal/repo"
	"feednana/internal/service"
	"feednana/model"
	"feednana/utils"
	"log"
)

// ThumbnailMessage is the payload sent to the worker.
type ThumbnailMessage struct {
	FileID    uint64 `json:"file_id"`
	ObjectKey string `json:"object_key"`
	MimeType  string `json:"mime_type"`
	Attempt   int    `json:"attempt"`
}

// EnqueueThumbnail schedules thumbnail derivation for a committed file.
// Enqueue failures are logged, not surfaced: the upload already
// succeeded and a missing thumbnail must not undo it.
func EnqueueThumbnail(ctx context.Context, file *model.File) {
	msg := ThumbnailMessage{
		FileID:    file.ID,
		ObjectKey: file.HashedFileName,
		MimeType:  file.MimeType,
		Attempt:   0,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("thumbnail enqueue: marshal file %d fail: %v", file.ID, err)
		return
	}
	publisher, err := mq.GetPublisher()
	if err != nil {
		log.Printf("thumbnail enqueue: publisher fail: %v", err)
		return
	}
	if err := publisher.PublishTask(ctx, body); err != nil {
		log.Printf("thumbnail enqueue: publish file %d fail: %v", file.ID, err)
	}
}

// ProcessThumbnail derives and records one file's thumbnail.
func ProcessThumbnail(ctx context.Context, msg ThumbnailMessage) error {
	var file model.File
	if err := repo.Db.Where("id = ?", msg.FileID).First(&file).Error; err != nil {
		return err
	}
	if file.Removed {
		return nil
	}
	if file.ThumbnailURL != nil && *file.ThumbnailURL != "" {
		return nil
	}

	key, err := service.DeriveThumbnail(ctx, msg.ObjectKey, msg.MimeType)
	if err != nil {
		return err
	}
	if key == "" {
		// Unrenderable source: the file stays up with a null thumbnail.
		return nil
	}
	thumbURL := service.FileURL(key)
	err = repo.Db.Model(&model.File{}).
		Where("id = ?", msg.FileID).
		Update("thumbnail_url", thumbURL).Error
	if err != nil {
		return err
	}
	_ = utils.InvalidateFileCache(ctx, msg.FileID)
	events.Publish(ctx, events.TopicFiles, events.Event{
		Kind:      "file.thumbnail",
		Flavor:    model.FlavorFile,
		ContentID: msg.FileID,
	})
	return nil
}
