package handler

import (
	"errors"
	"feednana/internal/dto"
	"feednana/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// GetFile returns one file with its derived fields and bumps its views.
func GetFile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	file, err := service.GetFileById(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	_ = service.IncrementViews(ctx, id)
	view, err := service.BuildFileView(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	view.Views++
	c.JSON(http.StatusOK, view)
}

// ListFiles pages through the public feed, newest or top first.
func ListFiles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	order := c.DefaultQuery("order", "new")

	files, total, err := service.ListFiles(page, pageSize, order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	views := make([]dto.FileView, 0, len(files))
	for i := range files {
		view, err := service.BuildFileView(&files[i])
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		views = append(views, view)
	}
	if page < 1 {
		page = 1
	}
	c.JSON(http.StatusOK, dto.FileListResponse{
		Files: views,
		Total: total,
		Page:  page,
	})
}

// RemoveFile soft-removes a file for its owner or a moderator.
func RemoveFile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actorID := c.GetUint64("user_id")
	err := service.RemoveFile(c.Request.Context(), id, actorID)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "removed"})
}
