// Package uploader implements the client side of the multipart upload
// protocol: slice a local file into fixed 5 MiB parts, PUT each part to
// its presigned URL, collect the returned ETags and hand back the
// completion payload.
package uploader

import (
	"context"
	"errors"
	"feednana/internal/storage"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

// Target is one file's upload session as handed out by initiateUpload.
type Target struct {
	UploadID string
	Key      string
	URLs     []string
}

// Part is one uploaded chunk's number and ETag.
type Part struct {
	PartNumber int
	ETag       string
}

// CompletedUpload is the payload to send back per file on completion.
type CompletedUpload struct {
	Key      string
	UploadID string
	FileName string
	FileSize int64
	Parts    []Part
}

// BatchFile pairs a local path with its upload target.
type BatchFile struct {
	Path   string
	Target Target
}

// ProgressFunc observes one file's progress as a 0-100 percentage.
type ProgressFunc func(key string, percent float64)

type Uploader struct {
	Client   *http.Client
	Progress ProgressFunc
}

// New returns an Uploader with a long-enough default timeout for a
// 5 MiB part on a slow link.
func New() *Uploader {
	return &Uploader{
		Client: &http.Client{Timeout: 10 * time.Minute},
	}
}

// ChunkCount returns how many parts a file of the given size needs.
func ChunkCount(size int64) int {
	return storage.PartCount(size)
}

func (u *Uploader) client() *http.Client {
	if u.Client != nil {
		return u.Client
	}
	return http.DefaultClient
}

func (u *Uploader) report(key string, done, total int) {
	if u.Progress == nil || total == 0 {
		return
	}
	u.Progress(key, float64(done)/float64(total)*100)
}

// UploadFile PUTs a local file part by part, in order, to the target's
// presigned URLs. The first failed part aborts the rest; the server-side
// reaper cleans the orphaned session up later.
func (u *Uploader) UploadFile(ctx context.Context, path string, target Target) (CompletedUpload, error) {
	file, err := os.Open(path)
	if err != nil {
		return CompletedUpload{}, err
	}
	defer file.Close()
	stat, err := file.Stat()
	if err != nil {
		return CompletedUpload{}, err
	}
	size := stat.Size()
	total := ChunkCount(size)
	if total == 0 {
		return CompletedUpload{}, errors.New("empty file")
	}
	if total != len(target.URLs) {
		return CompletedUpload{}, fmt.Errorf("file needs %d parts, target has %d urls", total, len(target.URLs))
	}

	out := CompletedUpload{
		Key:      target.Key,
		UploadID: target.UploadID,
		FileName: stat.Name(),
		FileSize: size,
		Parts:    make([]Part, 0, total),
	}
	remaining := size
	for i := 0; i < total; i++ {
		partSize := int64(storage.PartSize)
		if remaining < partSize {
			partSize = remaining
		}
		etag, err := u.putPart(ctx, target.URLs[i], io.LimitReader(file, partSize), partSize)
		if err != nil {
			return CompletedUpload{}, fmt.Errorf("part %d: %w", i+1, err)
		}
		out.Parts = append(out.Parts, Part{PartNumber: i + 1, ETag: etag})
		remaining -= partSize
		u.report(target.Key, i+1, total)
	}
	return out, nil
}

func (u *Uploader) putPart(ctx context.Context, url string, body io.Reader, size int64) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return "", err
	}
	req.ContentLength = size
	resp, err := u.client().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	etag := strings.Trim(resp.Header.Get("ETag"), `"`)
	if etag == "" {
		return "", errors.New("no etag in response")
	}
	return etag, nil
}

// UploadBatch uploads several files concurrently. The first failure
// cancels the files still in flight and is returned; results keep the
// input order.
func (u *Uploader) UploadBatch(ctx context.Context, files []BatchFile) ([]CompletedUpload, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]CompletedUpload, len(files))
	errs := make([]error, len(files))
	var wg sync.WaitGroup
	for i := range files {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := u.UploadFile(ctx, files[i].Path, files[i].Target)
			if err != nil {
				errs[i] = err
				cancel()
				return
			}
			results[i] = result
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
