package uploader

import (
	"bytes"
	"context"
	"feednana/internal/storage"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// partServer records every PUT body and answers with a per-part ETag.
type partServer struct {
	mu     sync.Mutex
	bodies map[string][]byte
	failOn string
}

func (s *partServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		part := r.URL.Query().Get("partNumber")
		if part == s.failOn {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.bodies[part] = body
		s.mu.Unlock()
		w.Header().Set("ETag", `"etag-`+part+`"`)
		w.WriteHeader(http.StatusOK)
	})
}

func (s *partServer) body(part string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bodies[part]
}

func writeTempFile(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payload.bin")
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func targetFor(baseURL, key string, parts int) Target {
	urls := make([]string, 0, parts)
	for i := 1; i <= parts; i++ {
		urls = append(urls, fmt.Sprintf("%s/%s?partNumber=%d", baseURL, key, i))
	}
	return Target{UploadID: "upload-1", Key: key, URLs: urls}
}

func TestUploadFileSinglePart(t *testing.T) {
	server := &partServer{bodies: make(map[string][]byte)}
	ts := httptest.NewServer(server.handler())
	defer ts.Close()

	path := writeTempFile(t, 1024)
	var progress []float64
	u := New()
	u.Progress = func(key string, percent float64) {
		progress = append(progress, percent)
	}

	result, err := u.UploadFile(context.Background(), path, targetFor(ts.URL, "k1", 1))
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if len(result.Parts) != 1 || result.Parts[0].PartNumber != 1 {
		t.Fatalf("parts = %+v", result.Parts)
	}
	if result.Parts[0].ETag != "etag-1" {
		t.Errorf("etag = %q, quotes must be trimmed", result.Parts[0].ETag)
	}
	if result.FileSize != 1024 {
		t.Errorf("file size = %d", result.FileSize)
	}
	if len(progress) != 1 || progress[0] != 100 {
		t.Errorf("progress = %v", progress)
	}
}

func TestUploadFileSplitsOnPartSize(t *testing.T) {
	server := &partServer{bodies: make(map[string][]byte)}
	ts := httptest.NewServer(server.handler())
	defer ts.Close()

	size := storage.PartSize + 10
	path := writeTempFile(t, size)
	var progress []float64
	u := New()
	u.Progress = func(key string, percent float64) {
		progress = append(progress, percent)
	}

	result, err := u.UploadFile(context.Background(), path, targetFor(ts.URL, "k2", 2))
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if len(result.Parts) != 2 {
		t.Fatalf("parts = %d, want 2", len(result.Parts))
	}
	if got := len(server.body("1")); got != storage.PartSize {
		t.Errorf("part 1 carried %d bytes, want %d", got, storage.PartSize)
	}
	if got := len(server.body("2")); got != 10 {
		t.Errorf("part 2 carried %d bytes, want 10", got)
	}
	original, _ := os.ReadFile(path)
	joined := append(append([]byte{}, server.body("1")...), server.body("2")...)
	if !bytes.Equal(original, joined) {
		t.Error("reassembled parts differ from the source file")
	}
	if len(progress) != 2 || progress[0] != 50 || progress[1] != 100 {
		t.Errorf("progress = %v", progress)
	}
}

func TestUploadFileURLCountMismatch(t *testing.T) {
	path := writeTempFile(t, 10)
	u := New()
	_, err := u.UploadFile(context.Background(), path, targetFor("http://unused", "k3", 2))
	if err == nil {
		t.Fatal("expected error for url/part count mismatch")
	}
}

func TestUploadFileStopsAtFirstFailure(t *testing.T) {
	server := &partServer{bodies: make(map[string][]byte), failOn: "2"}
	ts := httptest.NewServer(server.handler())
	defer ts.Close()

	path := writeTempFile(t, 2*storage.PartSize+5)
	u := New()
	_, err := u.UploadFile(context.Background(), path, targetFor(ts.URL, "k4", 3))
	if err == nil {
		t.Fatal("expected error when a part fails")
	}
	if server.body("3") != nil {
		t.Error("part 3 was uploaded after part 2 failed")
	}
}

func TestUploadBatch(t *testing.T) {
	server := &partServer{bodies: make(map[string][]byte)}
	ts := httptest.NewServer(server.handler())
	defer ts.Close()

	// Distinct keys keep the recorded parts apart on the shared server.
	pathA := writeTempFile(t, 100)
	pathB := writeTempFile(t, 200)
	batch := []BatchFile{
		{Path: pathA, Target: targetFor(ts.URL, "a", 1)},
		{Path: pathB, Target: targetFor(ts.URL, "b", 1)},
	}
	u := New()
	results, err := u.UploadBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("UploadBatch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}
	if results[0].Key != "a" || results[1].Key != "b" {
		t.Errorf("results out of order: %q, %q", results[0].Key, results[1].Key)
	}
	if results[1].FileSize != 200 {
		t.Errorf("second result size = %d", results[1].FileSize)
	}
}

func TestUploadBatchFailureCancelsRest(t *testing.T) {
	server := &partServer{bodies: make(map[string][]byte), failOn: "1"}
	ts := httptest.NewServer(server.handler())
	defer ts.Close()

	path := writeTempFile(t, 10)
	batch := []BatchFile{
		{Path: path, Target: targetFor(ts.URL, "x", 1)},
	}
	u := New()
	if _, err := u.UploadBatch(context.Background(), batch); err == nil {
		t.Fatal("expected batch error")
	}
}

func TestChunkCount(t *testing.T) {
	if got := ChunkCount(0); got != 0 {
		t.Errorf("ChunkCount(0) = %d", got)
	}
	if got := ChunkCount(storage.PartSize * 3); got != 3 {
		t.Errorf("ChunkCount = %d, want 3", got)
	}
}
