package service

import (
	"errors"
	"feednana/config"
	"feednana/internal/dto"
	"feednana/internal/events"
	"feednana/internal/repo"
	"feednana/internal/storage"
	"feednana/model"
	"feednana/utils"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/context"
	"gorm.io/gorm"
)

// MaxBatchSize caps how many files one initiate call may open.
const MaxBatchSize = 50

var keyExtPattern = regexp.MustCompile(`^[a-z0-9]{1,8}$`)

// BuildObjectKey mints the storage key for an uploaded file: a random
// UUID plus the original extension when it is a sane one. Keys carry no
// user data, so collisions and enumeration are both off the table.
func BuildObjectKey(fileName string) string {
	key := utils.GetToken()
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if keyExtPattern.MatchString(ext) {
		key += "." + ext
	}
	return key
}

// InitiateUpload opens one multipart session per file and returns, per
// file in request order, the session id, the minted key and one presigned
// PUT URL per 5 MiB part.
func InitiateUpload(ctx context.Context, identity Identity, files []dto.UploadFileInput) ([]dto.UploadTarget, error) {
	if storage.Default == nil {
		return nil, errors.New("storage not initialized")
	}
	if len(files) == 0 {
		return nil, errors.New("empty batch")
	}
	if len(files) > MaxBatchSize {
		return nil, fmt.Errorf("batch exceeds %d files", MaxBatchSize)
	}
	bucket := config.AppConfig.BucketName
	targets := make([]dto.UploadTarget, 0, len(files))
	for _, file := range files {
		if file.FileSize <= 0 {
			return nil, fmt.Errorf("invalid size for %q", file.FileName)
		}
		mimeType := file.MimeType
		if mimeType == "" {
			mimeType = ContentTypeByName(file.FileName)
		}
		key := BuildObjectKey(file.FileName)
		uploadID, err := storage.Default.NewMultipartUpload(ctx, bucket, key, mimeType)
		if err != nil {
			return nil, err
		}
		partCount := storage.PartCount(file.FileSize)
		urls := make([]string, 0, partCount)
		for partNumber := 1; partNumber <= partCount; partNumber++ {
			signed, err := storage.Default.PresignedUploadPartURL(
				ctx,
				bucket,
				key,
				uploadID,
				partNumber,
				config.AppConfig.PartURLTTL,
			)
			if err != nil {
				_ = storage.Default.AbortMultipartUpload(ctx, bucket, key, uploadID)
				return nil, err
			}
			urls = append(urls, signed)
		}
		session := model.UploadSession{
			ObjectKey: key,
			UploadID:  uploadID,
			FileName:  file.FileName,
			FileSize:  file.FileSize,
			MimeType:  mimeType,
			PartCount: partCount,
			Status:    model.UploadStatusOpen,
			UserID:    identity.UserID,
			AnonID:    identity.AnonID,
		}
		if err := repo.Db.Create(&session).Error; err != nil {
			_ = storage.Default.AbortMultipartUpload(ctx, bucket, key, uploadID)
			return nil, err
		}
		targets = append(targets, dto.UploadTarget{
			UploadID: uploadID,
			Key:      key,
			URLs:     urls,
		})
	}
	return targets, nil
}

// sortAndCheckParts orders the client's parts and enforces the contiguous
// 1..N contract before they are handed to the backend.
func sortAndCheckParts(parts []dto.UploadPartInput, want int) ([]storage.Part, error) {
	if len(parts) == 0 {
		return nil, errors.New("no parts supplied")
	}
	out := make([]storage.Part, 0, len(parts))
	for _, part := range parts {
		if part.ETag == "" {
			return nil, fmt.Errorf("part %d missing etag", part.PartNumber)
		}
		out = append(out, storage.Part{
			PartNumber: part.PartNumber,
			ETag:       strings.Trim(part.ETag, `"`),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PartNumber < out[j].PartNumber
	})
	for i, part := range out {
		if part.PartNumber != i+1 {
			return nil, fmt.Errorf("parts not contiguous at %d", part.PartNumber)
		}
	}
	if want > 0 && len(out) != want {
		return nil, fmt.Errorf("expected %d parts, got %d", want, len(out))
	}
	return out, nil
}

// CompleteUpload commits a batch: every multipart session is completed on
// the backend, then all metadata rows land in one transaction. A batch of
// two or more files gets exactly one album; the whole batch fails
// together, so no partial albums ever become visible. Retrying a
// completed batch fails because the sessions are already consumed.
func CompleteUpload(ctx context.Context, identity Identity, req dto.CompleteUploadRequest) ([]*model.File, *model.Album, error) {
	if storage.Default == nil {
		return nil, nil, errors.New("storage not initialized")
	}
	if len(req.Uploads) == 0 {
		return nil, nil, errors.New("empty batch")
	}
	if len(req.Uploads) > MaxBatchSize {
		return nil, nil, fmt.Errorf("batch exceeds %d files", MaxBatchSize)
	}
	if req.Anonymous {
		identity.UserID = nil
	}

	bucket := config.AppConfig.BucketName
	var album *model.Album
	files := make([]*model.File, 0, len(req.Uploads))

	err := repo.Db.Transaction(func(tx *gorm.DB) error {
		if len(req.Uploads) > 1 {
			album = &model.Album{
				Name:            req.Name,
				Manifesto:       req.Manifesto,
				UserID:          identity.UserID,
				AnonID:          identity.AnonID,
				AnonColorA:      identity.AnonColorA,
				AnonColorB:      identity.AnonColorB,
				DisableComments: req.DisableComments,
				Unlisted:        req.Unlisted,
			}
			if err := tx.Create(album).Error; err != nil {
				return err
			}
		}
		for _, upload := range req.Uploads {
			var session model.UploadSession
			err := tx.Where(
				"object_key = ? AND upload_id = ? AND status = ?",
				upload.Key, upload.UploadID, model.UploadStatusOpen,
			).First(&session).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("unknown upload session for %q", upload.Key)
				}
				return err
			}
			parts, err := sortAndCheckParts(upload.Parts, session.PartCount)
			if err != nil {
				return err
			}
			if err := storage.Default.CompleteMultipartUpload(ctx, bucket, upload.Key, upload.UploadID, parts); err != nil {
				return err
			}
			name := upload.Name
			if name == "" && len(req.Uploads) == 1 {
				name = req.Name
			}
			manifesto := ""
			if len(req.Uploads) == 1 {
				manifesto = req.Manifesto
			}
			file := &model.File{
				Name:            name,
				Manifesto:       manifesto,
				UserID:          identity.UserID,
				AnonID:          identity.AnonID,
				AnonColorA:      identity.AnonColorA,
				AnonColorB:      identity.AnonColorB,
				OriginalName:    upload.FileName,
				Size:            upload.FileSize,
				MimeType:        session.MimeType,
				HashedFileName:  upload.Key,
				FileURL:         FileURL(upload.Key),
				DisableComments: req.DisableComments,
				Unlisted:        req.Unlisted,
			}
			if album != nil {
				file.AlbumID = &album.ID
			}
			if err := tx.Create(file).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.UploadSession{}).
				Where("id = ?", session.ID).
				Update("status", model.UploadStatusCompleted).Error; err != nil {
				return err
			}
			files = append(files, file)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	for _, file := range files {
		event := events.Event{
			Kind:      "file.created",
			Flavor:    model.FlavorFile,
			ContentID: file.ID,
		}
		if file.AlbumID != nil {
			event.AlbumID = *file.AlbumID
		}
		events.Publish(ctx, events.TopicFiles, event)
	}
	return files, album, nil
}

// DownloadObject streams a stored object for server-side processing.
func DownloadObject(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	if storage.Default == nil {
		return nil, 0, errors.New("storage not initialized")
	}
	reader, info, err := storage.Default.GetObject(ctx, config.AppConfig.BucketName, key)
	if err != nil {
		return nil, 0, err
	}
	return reader, info.Size, nil
}
