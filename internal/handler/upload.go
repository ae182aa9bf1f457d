package handler

import (
	"feednana/internal/dto"
	"feednana/internal/service"
	"feednana/internal/task"
	"net/http"

	"github.com/gin-gonic/gin"
)

// InitiateUpload opens multipart sessions for a batch of files and hands
// back one presigned PUT URL per part.
func InitiateUpload(c *gin.Context) {
	var req dto.InitiateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if err := service.VerifyRecaptcha(req.RecaptchaToken, c.ClientIP()); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	identity, err := resolveIdentity(c)
	if err != nil {
		abortIdentity(c, err)
		return
	}
	targets, err := service.InitiateUpload(c.Request.Context(), identity, req.Files)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.InitiateUploadResponse{Targets: targets})
}

// CompleteUpload commits a batch of finished uploads, creates the file
// rows (and the album when the batch has more than one file) and queues
// thumbnail derivation.
func CompleteUpload(c *gin.Context) {
	var req dto.CompleteUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	identity, err := resolveIdentity(c)
	if err != nil {
		abortIdentity(c, err)
		return
	}
	files, album, err := service.CompleteUpload(c.Request.Context(), identity, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Thumbnails come later; the response never waits for them.
	for _, file := range files {
		if service.IsImageMime(file.MimeType) || service.IsVideoMime(file.MimeType) {
			task.EnqueueThumbnail(c.Request.Context(), file)
		}
	}

	result := dto.FileUploadResult{}
	if len(files) > 0 {
		view, err := service.BuildFileView(files[0])
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		result.File = &view
	}
	if album != nil {
		view, err := service.BuildAlbumView(album, true)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		result.Album = &view
	}
	c.JSON(http.StatusOK, result)
}
