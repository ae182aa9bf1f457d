package storage

import (
	"context"
	"io"
	"time"
)

// PartSize is the fixed multipart chunk size. The upload client slices
// files on the same constant; it is not negotiated.
const PartSize = 5 * 1024 * 1024

// PutOptions describes upload options for object storage.
type PutOptions struct {
	ContentType string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	ObjectName string
	Size       int64
}

// Part is one completed multipart chunk. Part numbers are 1-indexed and
// must be contiguous 1..N on completion.
type Part struct {
	PartNumber int
	ETag       string
}

// Store abstracts object storage operations.
type Store interface {
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts PutOptions) error
	GetObject(ctx context.Context, bucket, object string) (io.ReadCloser, ObjectInfo, error)
	RemoveObject(ctx context.Context, bucket, object string) error
	PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params map[string]string) (string, error)

	NewMultipartUpload(ctx context.Context, bucket, object, contentType string) (string, error)
	PresignedUploadPartURL(ctx context.Context, bucket, object, uploadID string, partNumber int, expiry time.Duration) (string, error)
	CompleteMultipartUpload(ctx context.Context, bucket, object, uploadID string, parts []Part) error
	AbortMultipartUpload(ctx context.Context, bucket, object, uploadID string) error
}

// Default is the main object store instance.
var Default Store

// DefaultTest is the test object store instance.
var DefaultTest Store

// PartCount returns the number of PartSize chunks a file of the given
// size splits into. Only the final chunk may be shorter.
func PartCount(size int64) int {
	if size <= 0 {
		return 0
	}
	return int((size + PartSize - 1) / PartSize)
}
