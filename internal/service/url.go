package service

import (
	"feednana/config"
	"mime"
	"path/filepath"
	"strings"
)

// FileURL derives the public URL of a stored object. The URL is written
// once at creation time and never recomputed.
func FileURL(objectKey string) string {
	base := strings.TrimRight(config.AppConfig.CDNBaseURL, "/")
	return base + "/" + strings.TrimLeft(objectKey, "/")
}

// ContentTypeByName guesses a MIME type from a filename extension.
func ContentTypeByName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return "application/octet-stream"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// IsImageMime reports whether the MIME type is an image.
func IsImageMime(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "image/")
}

// IsVideoMime reports whether the MIME type is a video.
func IsVideoMime(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "video/")
}
