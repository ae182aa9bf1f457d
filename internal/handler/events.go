package handler

import (
	"encoding/json"
	"feednana/internal/events"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// StreamEvents pushes live file/comment/vote events over SSE. The
// subscription lives exactly as long as the connection.
func StreamEvents(c *gin.Context) {
	var topics []string
	if raw := c.Query("topics"); raw != "" {
		for _, topic := range strings.Split(raw, ",") {
			switch strings.TrimSpace(topic) {
			case "files":
				topics = append(topics, events.TopicFiles)
			case "comments":
				topics = append(topics, events.TopicComments)
			case "votes":
				topics = append(topics, events.TopicVotes)
			}
		}
	}

	ctx := c.Request.Context()
	sub := events.Subscribe(ctx, topics...)
	if sub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live events unavailable"})
		return
	}
	defer sub.Close()
	ch := sub.Channel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case msg, ok := <-ch:
			if !ok {
				return false
			}
			var event events.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				return true
			}
			c.SSEvent(msg.Channel, event)
			return true
		}
	})
}
