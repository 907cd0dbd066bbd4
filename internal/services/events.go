package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"crewclock-backend/internal/models"
)

// SupervisorChannel fans out recomputed live-status rows to every connected
// supervisor; WorkerChannel carries a single worker's recomputed timesheet.
const SupervisorChannel = "clock_updates:supervisors"

func WorkerChannel(userID uuid.UUID) string {
	return "clock_updates:" + userID.String()
}

// ClockPublisher pushes derived-view updates over Redis pub/sub after every
// session mutation. Publish failures are logged, never surfaced: the views
// re-derive themselves on the next read either way.
type ClockPublisher struct {
	redis *redis.Client
}

func NewClockPublisher(redisClient *redis.Client) *ClockPublisher {
	return &ClockPublisher{redis: redisClient}
}

func (p *ClockPublisher) PublishWorkerUpdate(ctx context.Context, userID uuid.UUID, msg models.WSMessage) {
	p.publish(ctx, WorkerChannel(userID), msg)
}

func (p *ClockPublisher) PublishSupervisorUpdate(ctx context.Context, msg models.WSMessage) {
	p.publish(ctx, SupervisorChannel, msg)
}

func (p *ClockPublisher) publish(ctx context.Context, channel string, msg models.WSMessage) {
	if p == nil || p.redis == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("clock publisher: failed to marshal update: %v", err)
		return
	}
	if err := p.redis.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("clock publisher: failed to publish to %s: %v", channel, err)
	}
}
