package handler

import (
	"errors"
	"feednana/internal/dto"
	"feednana/internal/service"
	"feednana/model"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateComment posts a comment on a file, album or timeline.
func CreateComment(c *gin.Context) {
	var req dto.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	identity, err := resolveIdentity(c)
	if err != nil {
		abortIdentity(c, err)
		return
	}
	comment, err := service.CreateComment(c.Request.Context(), identity, req.Flavor, req.ContentID, req.Body)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, comment)
}

// ListComments pages through the visible comments on a piece of content.
func ListComments(c *gin.Context) {
	flavor := c.Query("flavor")
	contentID, err := strconv.ParseUint(c.Query("content_id"), 10, 64)
	if err != nil || contentID == 0 || !model.ValidFlavor(flavor) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flavor or content id"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	views, err := service.ListComments(flavor, contentID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": views})
}

// RemoveComment soft-removes a comment for its author or a moderator.
func RemoveComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actorID := c.GetUint64("user_id")
	err := service.RemoveComment(id, actorID)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "removed"})
}
