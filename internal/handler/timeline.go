package handler

import (
	"errors"
	"feednana/internal/dto"
	"feednana/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateTimeline opens a new timeline for the logged-in user.
func CreateTimeline(c *gin.Context) {
	var req dto.TimelineCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	actorID := c.GetUint64("user_id")
	timeline, err := service.CreateTimeline(actorID, req.Name, req.Manifesto)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, timeline)
}

// AddTimelineItem pins a file to a timeline at a calendar date.
func AddTimelineItem(c *gin.Context) {
	var req dto.TimelineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	eventDate, err := service.ParseEventDate(req.EventDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_date must be YYYY-MM-DD"})
		return
	}
	actorID := c.GetUint64("user_id")
	item, err := service.AddTimelineItem(c.Request.Context(), actorID, req.TimelineID, req.FileID, eventDate, req.Note)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "timeline or file not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

// GetTimeline returns a timeline's ribbon, optionally windowed by the
// from/to calendar dates.
func GetTimeline(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := service.ParseEventDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		from = &parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := service.ParseEventDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		to = &parsed
	}
	view, err := service.GetTimeline(id, from, to)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "timeline not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListTimelines returns the logged-in user's timelines.
func ListTimelines(c *gin.Context) {
	actorID := c.GetUint64("user_id")
	timelines, err := service.ListTimelines(actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"timelines": timelines})
}

// RemoveTimelineItem unpins a file from a timeline.
func RemoveTimelineItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actorID := c.GetUint64("user_id")
	err := service.RemoveTimelineItem(actorID, id)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "removed"})
}
