package handler

import (
	"errors"
	"feednana/config"
	"feednana/internal/service"
	"feednana/internal/storage"
	"feednana/utils"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const downloadURLTTL = 15 * time.Minute

// DownloadFile hands out a short-lived presigned GET URL that serves the
// original bytes with the original filename.
func DownloadFile(c *gin.Context) {
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
		utils.Fail(c, err)
		return
	}
	filename := utils.SanitizeHeaderFilename(file.OriginalName)
	signed, err := storage.Default.PresignedGetObject(
		ctx,
		config.AppConfig.BucketName,
		file.HashedFileName,
		downloadURLTTL,
		map[string]string{
			"response-content-disposition": fmt.Sprintf("attachment; filename=%q", filename),
		},
	)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"url": signed})
}
