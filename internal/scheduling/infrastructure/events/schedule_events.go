// Package events publishes scheduling domain events to the shared event bus.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/calendraio/calendra/internal/scheduling/domain"
	"github.com/calendraio/calendra/internal/shared/infrastructure/eventbus"
)

// RoutingKeyScheduleCompleted is the topic routing key for a finished run.
const RoutingKeyScheduleCompleted = "schedule.completed"

// scheduleCompletedPayload is the wire shape published on RoutingKeyScheduleCompleted.
type scheduleCompletedPayload struct {
	RunID           string    `json:"run_id"`
	InputHash       string    `json:"input_hash"`
	ScheduledHours  int       `json:"scheduled_hours"`
	ImpossibleCount int       `json:"impossible_count"`
	FinishedAt      time.Time `json:"finished_at"`
}

// Publisher publishes a Run's completion to the event bus.
type Publisher struct {
	bus eventbus.Publisher
}

// NewPublisher wraps an eventbus.Publisher (RabbitMQPublisher or NoopPublisher).
func NewPublisher(bus eventbus.Publisher) *Publisher {
	return &Publisher{bus: bus}
}

// PublishScheduleCompleted publishes the run's uncommitted domain events and
// clears them once the bus has accepted the batch. A publish failure leaves
// the events on the aggregate for the caller to retry or drop.
func (p *Publisher) PublishScheduleCompleted(ctx context.Context, run *domain.Run) error {
	for _, evt := range run.DomainEvents() {
		completed, ok := evt.(domain.RunCompletedEvent)
		if !ok {
			continue
		}
		payload, err := json.Marshal(scheduleCompletedPayload{
			RunID:           completed.AggregateID().String(),
			InputHash:       run.InputHash,
			ScheduledHours:  completed.ScheduledHours,
			ImpossibleCount: completed.ImpossibleCount,
			FinishedAt:      run.FinishedAt,
		})
		if err != nil {
			return err
		}
		if err := p.bus.Publish(ctx, completed.RoutingKey(), payload); err != nil {
			return err
		}
	}
	run.ClearDomainEvents()
	return nil
}

// Close closes the underlying bus connection.
func (p *Publisher) Close() error {
	return p.bus.Close()
}
