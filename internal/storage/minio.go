package storage

import (
	"context"
	"feednana/config"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements Store with a MinIO core client. The core client
// exposes the raw multipart primitives the upload protocol needs.
type MinioStore struct {
	core *minio.Core
}

// NewMinioStore builds a Store from a MinIO core client.
func NewMinioStore(core *minio.Core) *MinioStore {
	return &MinioStore{core: core}
}

// PutObject uploads a whole object to MinIO.
func (s *MinioStore) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts PutOptions) error {
	_, err := s.core.Client.PutObject(ctx, bucket, object, reader, size, minio.PutObjectOptions{
		ContentType: opts.ContentType,
	})
	return err
}

// GetObject fetches an object and its size from MinIO.
func (s *MinioStore) GetObject(ctx context.Context, bucket, object string) (io.ReadCloser, ObjectInfo, error) {
	obj, err := s.core.Client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, ObjectInfo{}, err
	}
	info := ObjectInfo{
		ObjectName: object,
		Size:       stat.Size,
	}
	return obj, info, nil
}

// RemoveObject deletes an object from MinIO.
func (s *MinioStore) RemoveObject(ctx context.Context, bucket, object string) error {
	return s.core.Client.RemoveObject(ctx, bucket, object, minio.RemoveObjectOptions{})
}

// PresignedGetObject returns a presigned download URL, optionally with
// response header overrides.
func (s *MinioStore) PresignedGetObject(
	ctx context.Context,
	bucket,
	object string,
	expiry time.Duration,
	params map[string]string,
) (string, error) {
	values := url.Values{}
	for key, value := range params {
		if value == "" {
			continue
		}
		values.Set(key, value)
	}
	signed, err := s.core.Client.PresignedGetObject(ctx, bucket, object, expiry, values)
	if err != nil {
		return "", err
	}
	return signed.String(), nil
}

// NewMultipartUpload opens a multipart session and returns its upload ID.
func (s *MinioStore) NewMultipartUpload(ctx context.Context, bucket, object, contentType string) (string, error) {
	return s.core.NewMultipartUpload(ctx, bucket, object, minio.PutObjectOptions{
		ContentType: contentType,
	})
}

// PresignedUploadPartURL signs a PUT URL for one 1-indexed part of an open
// multipart session. The URL needs no further authentication.
func (s *MinioStore) PresignedUploadPartURL(
	ctx context.Context,
	bucket,
	object,
	uploadID string,
	partNumber int,
	expiry time.Duration,
) (string, error) {
	if partNumber < 1 {
		return "", fmt.Errorf("part number %d out of range", partNumber)
	}
	params := url.Values{}
	params.Set("uploadId", uploadID)
	params.Set("partNumber", strconv.Itoa(partNumber))
	signed, err := s.core.Client.Presign(ctx, http.MethodPut, bucket, object, expiry, params)
	if err != nil {
		return "", err
	}
	return signed.String(), nil
}

// CompleteMultipartUpload stitches the uploaded parts. Parts must be
// supplied in ascending part-number order; the backend rejects gaps and
// mismatched (object, uploadID) pairs.
func (s *MinioStore) CompleteMultipartUpload(ctx context.Context, bucket, object, uploadID string, parts []Part) error {
	completeParts := make([]minio.CompletePart, 0, len(parts))
	for _, part := range parts {
		completeParts = append(completeParts, minio.CompletePart{
			PartNumber: part.PartNumber,
			ETag:       part.ETag,
		})
	}
	_, err := s.core.CompleteMultipartUpload(ctx, bucket, object, uploadID, completeParts, minio.PutObjectOptions{})
	return err
}

// AbortMultipartUpload discards an open multipart session.
func (s *MinioStore) AbortMultipartUpload(ctx context.Context, bucket, object, uploadID string) error {
	return s.core.AbortMultipartUpload(ctx, bucket, object, uploadID)
}

// IsNoSuchUpload reports whether an error means the multipart session is
// already gone on the backend.
func IsNoSuchUpload(err error) bool {
	if err == nil {
		return false
	}
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchUpload" || resp.Code == "NoSuchKey"
}

func newCore(bucket string) *minio.Core {
	core, err := minio.NewCore(fmt.Sprintf("%s:%s", config.AppConfig.MinioHost, config.AppConfig.MinioPort), &minio.Options{
		Creds:  credentials.NewStaticV4(config.AppConfig.MinioUsername, config.AppConfig.MinioPassword, ""),
		Secure: false,
	})
	if err != nil {
		log.Fatalln("minio error:", err)
	}
	ctx := context.Background()
	exists, err := core.Client.BucketExists(ctx, bucket)
	if err != nil {
		log.Fatalln("check bucket fail:", err)
	}
	if !exists {
		if err := core.Client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			log.Fatalln("create bucket fail:", err)
		}
	}
	return core
}

// InitMinio initializes the MinIO client and main bucket.
func InitMinio() {
	Default = NewMinioStore(newCore(config.AppConfig.BucketName))
}

// InitMinioTest initializes the test MinIO bucket.
func InitMinioTest() {
	DefaultTest = NewMinioStore(newCore(config.AppConfig.BucketNameTest))
}
