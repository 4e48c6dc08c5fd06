// Package services orchestrates the scheduling use case: validate the
// wire Input, check the cache, drive the placer, persist run history, and
// publish a completion event, wrapping the fallible infrastructure calls
// in circuit breakers. The in-memory placer itself is never wrapped.
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/calendraio/calendra/internal/scheduling/application/dto"
	"github.com/calendraio/calendra/internal/scheduling/domain"
	"github.com/calendraio/calendra/internal/scheduling/infrastructure/cache"
	"github.com/calendraio/calendra/internal/scheduling/infrastructure/events"
	"github.com/calendraio/calendra/pkg/observability"
)

// ErrHistoryNotConfigured is returned by History when the service was
// built without a RunRepository (e.g. local mode with persistence disabled).
var ErrHistoryNotConfigured = errors.New("run history not configured")

// RunRepository is the subset of persistence.SQLiteRunRepository the
// service depends on, so it can be swapped for a fake in tests.
type RunRepository interface {
	Save(ctx context.Context, run *domain.Run) error
	ListRecent(ctx context.Context, limit int) ([]*domain.Run, error)
}

// BreakerConfig tunes the circuit breakers guarding the cache and
// event-bus calls. The in-memory placer itself never fails and is never
// wrapped.
type BreakerConfig struct {
	Enabled          bool
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultBreakerConfig returns a reasonable default tuning.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:          true,
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// SchedulerService runs the end-to-end placement pipeline and wires the
// ambient/domain infrastructure (cache, persistence, events) around it.
type SchedulerService struct {
	cache   cache.Cache
	runRepo RunRepository
	events  *events.Publisher
	metrics observability.Metrics
	logger  *slog.Logger

	cacheBreaker *gobreaker.CircuitBreaker[any]
	eventBreaker *gobreaker.CircuitBreaker[any]
}

// NewSchedulerService builds a SchedulerService. Any of cache, runRepo, or
// pub may be nil (or their Noop variants) in local mode.
func NewSchedulerService(c cache.Cache, runRepo RunRepository, pub *events.Publisher, metrics observability.Metrics, logger *slog.Logger, bcfg BreakerConfig) *SchedulerService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	s := &SchedulerService{cache: c, runRepo: runRepo, events: pub, metrics: metrics, logger: logger}
	if bcfg.Enabled {
		s.cacheBreaker = newBreaker("scheduling-cache", bcfg, logger, metrics)
		s.eventBreaker = newBreaker("scheduling-events", bcfg, logger, metrics)
	}
	return s
}

func newBreaker(name string, cfg BreakerConfig, logger *slog.Logger, metrics observability.Metrics) *gobreaker.CircuitBreaker[any] {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(n string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed", "breaker", n, "from", from.String(), "to", to.String())
		},
	}
	return gobreaker.NewCircuitBreaker[any](settings)
}

// Run validates in, places every goal's activities, and renders FinalTasks,
// transparently skipping re-placement on a cache hit and persisting/
// publishing the result on a miss. inputHash is the caller-supplied hash of
// the raw wire Input (see HashInput), used as both the cache and run-history key.
func (s *SchedulerService) Run(ctx context.Context, inputHash string, in dto.Input) (domain.FinalTasks, error) {
	timer := observability.StartTimer("scheduler.run").WithLogger(s.logger).WithMetrics(s.metrics)
	defer timer.Stop()

	if final, ok := s.readCache(ctx, inputHash); ok {
		s.metrics.Counter(observability.MetricCacheHits, 1)
		s.logger.Info("schedule cache hit", "input_hash", inputHash)
		return final, nil
	}
	s.metrics.Counter(observability.MetricCacheMisses, 1)

	gs, order, err := dto.ToGoalSet(in)
	if err != nil {
		return domain.FinalTasks{}, err
	}

	final, err := domain.Schedule(gs, order, in.CalendarStart.Time, in.CalendarEnd.Time)
	if err != nil {
		s.metrics.Counter(observability.MetricOperationErrors, 1, observability.T("operation", "schedule"))
		return domain.FinalTasks{}, err
	}

	scheduledHours := 0
	for _, day := range final.Scheduled {
		for _, t := range day.Tasks {
			if t.GoalID == "free" {
				continue
			}
			scheduledHours += t.Duration
		}
	}
	s.metrics.Counter(observability.MetricActivitiesPlaced, int64(len(final.Scheduled)))
	s.metrics.Counter(observability.MetricActivitiesImpossible, int64(len(final.Impossible)))
	s.metrics.Counter(observability.MetricHoursReserved, int64(scheduledHours))
	if len(final.Impossible) > 0 {
		s.metrics.Counter(observability.MetricBudgetCeilingHits, int64(len(final.Impossible)))
	}

	s.writeCache(ctx, inputHash, final)

	run := domain.NewRun(inputHash, in.CalendarStart.Time, in.CalendarEnd.Time, final)
	if s.runRepo != nil {
		if err := s.runRepo.Save(ctx, run); err != nil {
			s.logger.Warn("failed to persist run history", "error", err)
		}
	}
	s.publish(ctx, run)

	return final, nil
}

func (s *SchedulerService) readCache(ctx context.Context, inputHash string) (domain.FinalTasks, bool) {
	if s.cache == nil {
		return domain.FinalTasks{}, false
	}
	result, err := s.breakerExec(ctx, s.cacheBreaker, func() (any, error) {
		return s.cache.Get(ctx, inputHash)
	})
	if err != nil {
		return domain.FinalTasks{}, false
	}
	final, ok := result.(domain.FinalTasks)
	return final, ok
}

func (s *SchedulerService) writeCache(ctx context.Context, inputHash string, final domain.FinalTasks) {
	if s.cache == nil {
		return
	}
	if _, err := s.breakerExec(ctx, s.cacheBreaker, func() (any, error) {
		return nil, s.cache.Set(ctx, inputHash, final)
	}); err != nil {
		s.logger.Warn("failed to cache schedule result", "error", err)
	}
}

func (s *SchedulerService) publish(ctx context.Context, run *domain.Run) {
	if s.events == nil {
		return
	}
	if _, err := s.breakerExec(ctx, s.eventBreaker, func() (any, error) {
		return nil, s.events.PublishScheduleCompleted(ctx, run)
	}); err != nil {
		s.logger.Warn("failed to publish schedule.completed event", "error", err)
		return
	}
	s.metrics.Counter(observability.MetricEventsPublished, 1)
}

func (s *SchedulerService) breakerExec(ctx context.Context, breaker *gobreaker.CircuitBreaker[any], fn func() (any, error)) (any, error) {
	if breaker == nil {
		return fn()
	}
	return breaker.Execute(fn)
}

// History returns the limit most recently finished runs, newest first.
func (s *SchedulerService) History(ctx context.Context, limit int) ([]*domain.Run, error) {
	if s.runRepo == nil {
		return nil, ErrHistoryNotConfigured
	}
	var runs []*domain.Run
	err := observability.TimeOperation(s.logger, s.metrics, "scheduler.history", func() error {
		var err error
		runs, err = s.runRepo.ListRecent(ctx, limit)
		return err
	})
	return runs, err
}

// HashInput returns a stable content hash of the raw wire Input JSON, used
// as the cache/run-history key.
// raw is re-marshalled into a canonical form first so whitespace-only
// differences in equivalent input don't miss the cache; a raw that fails to
// parse as JSON is hashed verbatim (ParseInput will reject it downstream).
func HashInput(raw []byte) string {
	canonical := raw
	var v any
	if err := json.Unmarshal(raw, &v); err == nil {
		if reencoded, err := json.Marshal(v); err == nil {
			canonical = reencoded
		}
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}
