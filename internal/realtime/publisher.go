// Package realtime fans in-app notification events out over Redis pub/sub.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventDecision is published when a coordinator approves or rejects a justification.
const EventDecision = "justificacion.decidida"

// Event is the JSON payload sent on a user's channel.
type Event struct {
	Type            string    `json:"type"`
	JustificationID int64     `json:"justificacion_id"`
	Status          string    `json:"estado"`
	Message         string    `json:"mensaje"`
	At              time.Time `json:"at"`
}

// UserChannel is the Redis channel carrying events for one user.
func UserChannel(userID int64) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// Publisher writes events to Redis. A nil client turns every call into a no-op.
type Publisher struct {
	rdb *redis.Client
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// NewClient parses a redis:// URL. An empty URL yields a nil client.
func NewClient(url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// PublishUser sends ev to the user's channel.
func (p *Publisher) PublishUser(ctx context.Context, userID int64, ev Event) error {
	if p == nil || p.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}
