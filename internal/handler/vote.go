package handler

import (
	"errors"
	"feednana/internal/dto"
	"feednana/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CastVote records a ±1 ballot and returns the fresh karma.
func CastVote(c *gin.Context) {
	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	identity, err := resolveIdentity(c)
	if err != nil {
		abortIdentity(c, err)
		return
	}
	karma, err := service.CastVote(c.Request.Context(), identity, req.Flavor, req.ContentID, req.Vote)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"karma": karma})
}
