package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"feednana/internal/storage"

	"golang.org/x/net/context"
)

// fakeStore is an in-memory Store. Multipart sessions are tracked so the
// completion path sees the same contract the real backend enforces.
type fakeStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	uploads  map[string]string // uploadID -> object
	nextID   int
	putFails bool
	getFails bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects: make(map[string][]byte),
		uploads: make(map[string]string),
	}
}

func (s *fakeStore) put(object string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[object] = data
}

func (s *fakeStore) get(object string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[object]
	return data, ok
}

func (s *fakeStore) openUploads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}

func (s *fakeStore) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts storage.PutOptions) error {
	if s.putFails {
		return errors.New("put refused")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.put(object, data)
	return nil
}

func (s *fakeStore) GetObject(ctx context.Context, bucket, object string) (io.ReadCloser, storage.ObjectInfo, error) {
	if s.getFails {
		return nil, storage.ObjectInfo{}, errors.New("get refused")
	}
	data, ok := s.get(object)
	if !ok {
		return nil, storage.ObjectInfo{}, fmt.Errorf("no such object %s", object)
	}
	info := storage.ObjectInfo{ObjectName: object, Size: int64(len(data))}
	return io.NopCloser(bytes.NewReader(data)), info, nil
}

func (s *fakeStore) RemoveObject(ctx context.Context, bucket, object string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[object]; !ok {
		return fmt.Errorf("no such object %s", object)
	}
	delete(s.objects, object)
	return nil
}

func (s *fakeStore) PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params map[string]string) (string, error) {
	return "http://fake/" + object, nil
}

func (s *fakeStore) NewMultipartUpload(ctx context.Context, bucket, object, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	uploadID := fmt.Sprintf("upload-%d", s.nextID)
	s.uploads[uploadID] = object
	return uploadID, nil
}

func (s *fakeStore) PresignedUploadPartURL(ctx context.Context, bucket, object, uploadID string, partNumber int, expiry time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploads[uploadID] != object {
		return "", fmt.Errorf("unknown upload %s", uploadID)
	}
	return fmt.Sprintf("http://fake/%s?uploadId=%s&partNumber=%d", object, uploadID, partNumber), nil
}

func (s *fakeStore) CompleteMultipartUpload(ctx context.Context, bucket, object, uploadID string, parts []storage.Part) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploads[uploadID] != object {
		return fmt.Errorf("no such upload %s for %s", uploadID, object)
	}
	if len(parts) == 0 {
		return errors.New("no parts")
	}
	if !sort.SliceIsSorted(parts, func(i, j int) bool { return parts[i].PartNumber < parts[j].PartNumber }) {
		return errors.New("parts out of order")
	}
	for i, part := range parts {
		if part.PartNumber != i+1 {
			return fmt.Errorf("gap at part %d", part.PartNumber)
		}
		if strings.Contains(part.ETag, `"`) {
			return fmt.Errorf("etag %q not trimmed", part.ETag)
		}
	}
	delete(s.uploads, uploadID)
	s.objects[object] = []byte("committed")
	return nil
}

func (s *fakeStore) AbortMultipartUpload(ctx context.Context, bucket, object, uploadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploads[uploadID] != object {
		return errors.New("NoSuchUpload")
	}
	delete(s.uploads, uploadID)
	return nil
}
