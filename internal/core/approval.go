package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"timesheet.service/internal/core/model"
	"timesheet.service/internal/ports/messaging"
	"timesheet.service/internal/ports/repository"
)

var (
	ErrSelfApproval        = errors.New("you cannot approve your own entry")
	ErrNotAwaitingApproval = errors.New("entry is not awaiting approval")
)

// ApproveEntry accepts an entry held for approval and publishes its
// notifications. An entry whose messages failed to publish is approved
// again to republish only the failed ones.
func (s *EntryService) ApproveEntry(ctx context.Context, approverID string, id int64) (*model.TrackingEntry, error) {
	entry, err := s.reviewable(ctx, approverID, id)
	if err != nil {
		return nil, err
	}

	notes, err := s.classify(entry)
	if err != nil {
		return nil, err
	}
	if !notes.approvalRequired() && !notes.holiday {
		return nil, fmt.Errorf("%w: entry %d has nothing to approve", ErrNotAwaitingApproval, id)
	}

	switch {
	case entry.OvertimeStatus == model.StatusAwaitingApproval:
		entry.OvertimeStatus = model.StatusCompleted
		if notes.overtime {
			entry.OvertimeStatus = model.StatusPending
		}
		entry.EmailStatus = model.StatusPending
	case entry.OvertimeStatus == model.StatusFailed || entry.EmailStatus == model.StatusFailed:
		notes.skipEmail = entry.EmailStatus != model.StatusFailed
		notes.skipOvertime = entry.OvertimeStatus != model.StatusFailed
		if !notes.skipEmail {
			entry.EmailStatus = model.StatusPending
		}
		if notes.overtime && !notes.skipOvertime {
			entry.OvertimeStatus = model.StatusPending
		}
	default:
		return nil, fmt.Errorf("%w: entry %d is %s", ErrNotAwaitingApproval, id, entry.OvertimeStatus)
	}

	if err := s.repo.UpdateOvertimeStatus(ctx, id, entry.OvertimeStatus, 0); err != nil {
		return nil, fmt.Errorf("failed to update overtime status: %w", err)
	}
	if err := s.repo.UpdateEmailStatus(ctx, id, entry.EmailStatus, 0); err != nil {
		return nil, fmt.Errorf("failed to update email status: %w", err)
	}

	log.Ctx(ctx).Info().Int64("entry_id", id).Str("approver_id", approverID).Msg("Entry approved")
	if err := s.notify(ctx, entry, notes); err != nil {
		return entry, err
	}
	return entry, nil
}

// DenyEntry rejects an entry held for approval. The employee is told by
// mail, then the entry and the day it is linked to are deleted.
func (s *EntryService) DenyEntry(ctx context.Context, approverID string, id int64) error {
	entry, err := s.reviewable(ctx, approverID, id)
	if err != nil {
		return err
	}
	if entry.OvertimeStatus != model.StatusAwaitingApproval {
		return fmt.Errorf("%w: entry %d is %s", ErrNotAwaitingApproval, id, entry.OvertimeStatus)
	}

	err = s.producer.PublishEmail(ctx, messaging.EmailEvent{
		EntryID:    entry.ID,
		EmployeeID: entry.EmployeeID,
		Kind:       messaging.EmailOvertimeDenied,
		EntryDate:  entry.EntryDate.Format(dateLayout),
		Duration:   entry.Worked().String(),
		OccurredAt: s.now(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish denial to queue: %w", err)
	}

	if entry.LinkID != nil {
		err := s.repo.DeleteEntry(ctx, entry.EmployeeID, *entry.LinkID)
		if err != nil && !errors.Is(err, repository.ErrEntryNotFound) {
			return fmt.Errorf("failed to delete linked entry: %w", err)
		}
	}
	if err := s.repo.DeleteEntry(ctx, entry.EmployeeID, id); err != nil {
		return fmt.Errorf("failed to delete denied entry: %w", err)
	}

	log.Ctx(ctx).Info().Int64("entry_id", id).Str("approver_id", approverID).Msg("Entry denied")
	return nil
}

// reviewable loads an entry for an approver, who may not review their own.
func (s *EntryService) reviewable(ctx context.Context, approverID string, id int64) (*model.TrackingEntry, error) {
	if approverID == "" {
		return nil, ErrMissingEmployee
	}
	entry, err := s.repo.GetEntry(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	if entry.EmployeeID == approverID {
		return nil, ErrSelfApproval
	}
	return entry, nil
}
