package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"

	"timesheet.service/internal/core"
	"timesheet.service/internal/core/model"
	"timesheet.service/internal/ports/messaging"
	"timesheet.service/internal/ports/repository"
	"timesheet.service/internal/worker"
)

type EmailProcessor struct {
	emailService core.EmailService
	repo         repository.Repository
	domain       string
}

// NewProcessor sets up a new processor for handling email-related jobs.
// Mail goes to <employee id>@domain.
func NewProcessor(emailService core.EmailService, repo repository.Repository, domain string) *EmailProcessor {
	return &EmailProcessor{
		emailService: emailService,
		repo:         repo,
		domain:       domain,
	}
}

// Process is the main entry point for handling a message from the email queue.
// It tries to send an email and will tell the worker to retry if something goes wrong.
func (p *EmailProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	var event messaging.EmailEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal email event")
		return false, 0, err // Do not retry on malformed message
	}

	if event.Kind == messaging.EmailOvertimeDenied {
		return p.sendUntracked(ctx, event)
	}

	record, err := p.repo.GetEntry(ctx, event.EntryID)
	if errors.Is(err, repository.ErrEntryNotFound) {
		log.Ctx(ctx).Info().Int64("entry_id", event.EntryID).Msg("Entry no longer exists. Dropping email.")
		return false, 0, nil
	}
	if err != nil {
		// If we can't get the record, retry after a short delay.
		return true, 10, fmt.Errorf("failed to get record from db for email processing: %w", err)
	}

	if record.EmailStatus == model.StatusCompleted {
		log.Ctx(ctx).Info().Int64("entry_id", event.EntryID).Msg("Email already sent. Skipping.")
		return false, 0, nil
	}

	n := core.Notification{Kind: event.Kind, EntryDate: event.EntryDate, Duration: event.Duration}
	if _, _, err := core.RenderNotification(n); err != nil {
		_ = p.repo.UpdateEmailStatus(ctx, event.EntryID, model.StatusFailed, record.EmailRetryCount)
		return false, 0, err
	}

	err = p.emailService.Send(ctx, event.EmployeeID+"@"+p.domain, n)
	if err != nil {
		newCount := record.EmailRetryCount + 1
		_ = p.repo.UpdateEmailStatus(ctx, event.EntryID, model.StatusPending, newCount)
		return true, worker.CalculateBackoff(newCount), err
	}

	err = p.repo.UpdateEmailStatus(ctx, event.EntryID, model.StatusCompleted, 0)
	return false, 0, err
}

// sendUntracked delivers a mail for an entry that no longer exists, so there
// is no status to check or record.
func (p *EmailProcessor) sendUntracked(ctx context.Context, event messaging.EmailEvent) (bool, int32, error) {
	n := core.Notification{Kind: event.Kind, EntryDate: event.EntryDate, Duration: event.Duration}
	if err := p.emailService.Send(ctx, event.EmployeeID+"@"+p.domain, n); err != nil {
		return true, worker.CalculateBackoff(1), err
	}
	log.Ctx(ctx).Info().Int64("entry_id", event.EntryID).Msg("Denial email sent")
	return false, 0, nil
}
