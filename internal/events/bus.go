package events

import (
	"context"
	"encoding/json"
	"feednana/internal/repo"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Topics for live updates. Subscribers attach per connection and detach
// when the connection goes away.
const (
	TopicFiles    = "events:files"
	TopicComments = "events:comments"
	TopicVotes    = "events:votes"
)

type Event struct {
	Kind      string    `json:"kind"`
	Flavor    string    `json:"flavor,omitempty"`
	ContentID uint64    `json:"content_id,omitempty"`
	AlbumID   uint64    `json:"album_id,omitempty"`
	At        time.Time `json:"at"`
}

// Publish fans an event out to every live subscriber of the topic.
// Publishing is best-effort; a missed live update is not an error the
// caller can act on.
func Publish(ctx context.Context, topic string, event Event) {
	if repo.Redis == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("events: marshal failed: %v", err)
		return
	}
	if err := repo.Redis.Publish(ctx, topic, body).Err(); err != nil {
		log.Printf("events: publish %s failed: %v", topic, err)
	}
}

// Subscribe opens a subscription on the given topics, or nil when no
// Redis backend is configured. The caller owns the returned PubSub and
// must Close it when its connection ends.
func Subscribe(ctx context.Context, topics ...string) *redis.PubSub {
	if repo.Redis == nil {
		return nil
	}
	if len(topics) == 0 {
		topics = []string{TopicFiles, TopicComments, TopicVotes}
	}
	return repo.Redis.Subscribe(ctx, topics...)
}
