package overtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"timesheet.service/internal/core/model"
	"timesheet.service/internal/ports/messaging"
	"timesheet.service/internal/ports/repository"
	"timesheet.service/internal/worker"
	"timesheet.service/internal/worker/legacyapi"
)

// Processor handles jobs from the overtime queue by booking them in the
// legacy payroll API. A circuit breaker stops us hammering the legacy system
// while it is failing.
type Processor struct {
	repo      repository.Repository
	legacyapi legacyapi.Client
	cb        *gobreaker.CircuitBreaker
}

// NewProcessor creates a new processor for the overtime queue.
func NewProcessor(r repository.Repository, client legacyapi.Client) *Processor {
	settings := gobreaker.Settings{
		Name:        "Legacy-API",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if failure rate is at least 50% after at least 10 requests
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
		// A rejected payload says nothing about the health of the legacy system.
		IsSuccessful: func(err error) bool {
			return err == nil || !isRetryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	}

	return &Processor{
		repo:      r,
		legacyapi: client,
		cb:        gobreaker.NewCircuitBreaker(settings),
	}
}

// Process handles a single overtime message.
func (p *Processor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	var event messaging.OvertimeEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal overtime event")
		return false, 0, err // Do not retry on malformed message
	}

	log.Ctx(ctx).Info().Str("employee_id", event.EmployeeID).Str("duration", event.Duration).Msg("Processing overtime")

	record, err := p.repo.GetEntry(ctx, event.EntryID)
	if errors.Is(err, repository.ErrEntryNotFound) {
		log.Ctx(ctx).Info().Int64("entry_id", event.EntryID).Msg("Entry deleted before overtime was booked. Skipping.")
		return false, 0, nil
	}
	if err != nil {
		return true, 10, fmt.Errorf("failed to get entry from db: %w", err)
	}

	if record.OvertimeStatus == model.StatusCompleted {
		return false, 0, nil
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.legacyapi.RecordOvertime(ctx, event)
	})

	if err != nil {
		newCount := record.OvertimeRetryCount + 1

		if !isRetryable(err) {
			_ = p.repo.UpdateOvertimeStatus(ctx, event.EntryID, model.StatusFailed, newCount)
			return false, 0, err
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.Ctx(ctx).Warn().Msg("Circuit breaker is open; skipping legacy API call")
		}

		_ = p.repo.UpdateOvertimeStatus(ctx, event.EntryID, model.StatusPending, newCount)
		return true, worker.CalculateBackoff(newCount), err
	}

	err = p.repo.UpdateOvertimeStatus(ctx, event.EntryID, model.StatusCompleted, 0)
	return false, 0, err
}

func isRetryable(err error) bool {
	var statusErr *legacyapi.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	return true
}
