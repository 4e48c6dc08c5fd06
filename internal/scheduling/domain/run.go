package domain

import (
	"time"

	"github.com/google/uuid"

	shareddomain "github.com/calendraio/calendra/internal/shared/domain"
)

// RunCompletedEvent is raised once a scheduling run finishes, carrying just
// enough summary data for a consumer to react without re-reading the run.
type RunCompletedEvent struct {
	shareddomain.BaseEvent
	ScheduledHours  int
	ImpossibleCount int
}

// Run is the run-history aggregate: one record per invocation of the
// scheduler, persisted so `calendra schedule history` can list past runs.
type Run struct {
	shareddomain.BaseAggregateRoot

	InputHash       string
	CalendarStart   time.Time
	CalendarEnd     time.Time
	ScheduledHours  int
	ImpossibleCount int
	FinishedAt      time.Time
}

// NewRun starts a new run-history record for a completed scheduling pass.
func NewRun(inputHash string, calendarStart, calendarEnd time.Time, final FinalTasks) *Run {
	scheduledHours := 0
	for _, day := range final.Scheduled {
		for _, task := range day.Tasks {
			if task.GoalID == "free" {
				continue
			}
			scheduledHours += task.Duration
		}
	}

	r := &Run{
		BaseAggregateRoot: shareddomain.NewBaseAggregateRoot(),
		InputHash:         inputHash,
		CalendarStart:     calendarStart,
		CalendarEnd:       calendarEnd,
		ScheduledHours:    scheduledHours,
		ImpossibleCount:   len(final.Impossible),
		FinishedAt:        time.Now().UTC(),
	}
	r.AddDomainEvent(RunCompletedEvent{
		BaseEvent:       shareddomain.NewBaseEvent(r.ID(), "Run", "schedule.completed"),
		ScheduledHours:  scheduledHours,
		ImpossibleCount: len(final.Impossible),
	})
	return r
}

// RehydrateRun rebuilds a Run from persisted column values.
func RehydrateRun(id uuid.UUID, createdAt, updatedAt time.Time, version int, inputHash string, calendarStart, calendarEnd time.Time, scheduledHours, impossibleCount int, finishedAt time.Time) *Run {
	entity := shareddomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &Run{
		BaseAggregateRoot: shareddomain.RehydrateBaseAggregateRoot(entity, version),
		InputHash:         inputHash,
		CalendarStart:     calendarStart,
		CalendarEnd:       calendarEnd,
		ScheduledHours:    scheduledHours,
		ImpossibleCount:   impossibleCount,
		FinishedAt:        finishedAt,
	}
}
