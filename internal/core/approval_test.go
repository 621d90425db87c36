package core

import (
	"context"
	"errors"
	"testing"

	"timesheet.service/internal/core/model"
	"timesheet.service/internal/ports/messaging"
	"timesheet.service/internal/ports/repository"
)

func TestApproveEntryOvertime(t *testing.T) {
	svc, repo, pub := newTestService(t)
	ctx := context.Background()

	entry, err := svc.AddEntry(ctx, workDay("2025-01-06", "08:00", "18:30", "00:30"))
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	approved, err := svc.ApproveEntry(ctx, "mgr-1", entry.ID)
	if err != nil {
		t.Fatalf("ApproveEntry failed: %v", err)
	}

	if len(pub.overtime) != 1 {
		t.Fatalf("expected one overtime event, got %d", len(pub.overtime))
	}
	ev := pub.overtime[0]
	if ev.EntryID != entry.ID || ev.Duration != "10:00" || ev.DifferenceHrs != 2 {
		t.Errorf("unexpected overtime event %+v", ev)
	}
	if len(pub.emails) != 1 || pub.emails[0].Kind != messaging.EmailOvertime {
		t.Errorf("expected overtime mail, got %+v", pub.emails)
	}
	stored := repo.entries[entry.ID]
	if stored.OvertimeStatus != model.StatusPending || stored.EmailStatus != model.StatusPending {
		t.Errorf("status = %s/%s, want PENDING/PENDING", stored.OvertimeStatus, stored.EmailStatus)
	}
	if approved.OvertimeStatus != model.StatusPending {
		t.Errorf("returned OvertimeStatus = %s", approved.OvertimeStatus)
	}

	if _, err := svc.ApproveEntry(ctx, "mgr-1", entry.ID); !errors.Is(err, ErrNotAwaitingApproval) {
		t.Errorf("second approval: expected ErrNotAwaitingApproval, got %v", err)
	}
}

func TestApproveEntryUndertime(t *testing.T) {
	svc, repo, pub := newTestService(t)
	ctx := context.Background()

	entry, err := svc.AddEntry(ctx, workDay("2025-01-06", "09:00", "15:00", "00:30"))
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	if _, err := svc.ApproveEntry(ctx, "mgr-1", entry.ID); err != nil {
		t.Fatalf("ApproveEntry failed: %v", err)
	}

	if len(pub.emails) != 1 || pub.emails[0].Kind != messaging.EmailUndertime {
		t.Errorf("expected undertime mail, got %+v", pub.emails)
	}
	if len(pub.overtime) != 0 {
		t.Error("undertime should not publish overtime")
	}
	if repo.entries[entry.ID].OvertimeStatus != model.StatusCompleted {
		t.Errorf("OvertimeStatus = %s, want COMPLETED", repo.entries[entry.ID].OvertimeStatus)
	}
}

func TestApproveEntryRejects(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	over, err := svc.AddEntry(ctx, workDay("2025-01-06", "08:00", "18:30", "00:30"))
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	regular, err := svc.AddEntry(ctx, workDay("2025-01-07", "09:00", "17:30", "00:30"))
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	tests := []struct {
		name     string
		approver string
		id       int64
		want     error
	}{
		{name: "own entry", approver: "emp-1", id: over.ID, want: ErrSelfApproval},
		{name: "no approver", approver: "", id: over.ID, want: ErrMissingEmployee},
		{name: "missing entry", approver: "mgr-1", id: 99, want: repository.ErrEntryNotFound},
		{name: "regular day", approver: "mgr-1", id: regular.ID, want: ErrNotAwaitingApproval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ApproveEntry(ctx, tt.approver, tt.id); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if err := svc.DenyEntry(ctx, tt.approver, tt.id); !errors.Is(err, tt.want) {
				t.Errorf("DenyEntry: expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestApproveEntryPublishFailure(t *testing.T) {
	svc, repo, pub := newTestService(t)
	ctx := context.Background()

	entry, err := svc.AddEntry(ctx, workDay("2025-01-06", "07:00", "19:00", "00:30"))
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	pub.err = errors.New("queue down")
	got, err := svc.ApproveEntry(ctx, "mgr-1", entry.ID)
	if err == nil {
		t.Fatal("expected publish error")
	}
	if got == nil {
		t.Fatal("the approved entry should be returned with the error")
	}
	stored := repo.entries[entry.ID]
	if stored.OvertimeStatus != model.StatusFailed || stored.EmailStatus != model.StatusFailed {
		t.Fatalf("status = %s/%s, want FAILED/FAILED", stored.OvertimeStatus, stored.EmailStatus)
	}

	// Approving again republishes what was lost.
	pub.err = nil
	if _, err := svc.ApproveEntry(ctx, "mgr-1", entry.ID); err != nil {
		t.Fatalf("republish failed: %v", err)
	}
	if len(pub.overtime) != 1 || len(pub.emails) != 1 {
		t.Errorf("expected one overtime event and one mail, got %d and %d", len(pub.overtime), len(pub.emails))
	}
	if stored := repo.entries[entry.ID]; stored.OvertimeStatus != model.StatusPending || stored.EmailStatus != model.StatusPending {
		t.Errorf("status = %s/%s, want PENDING/PENDING", stored.OvertimeStatus, stored.EmailStatus)
	}
}

func TestApproveEntryRepublishesOnlyFailed(t *testing.T) {
	svc, repo, pub := newTestService(t)
	ctx := context.Background()

	entry, err := svc.AddEntry(ctx, workDay("2025-01-06", "07:00", "19:00", "00:30"))
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	if _, err := svc.ApproveEntry(ctx, "mgr-1", entry.ID); err != nil {
		t.Fatalf("ApproveEntry failed: %v", err)
	}
	// The overtime worker gave up on the entry; its mail went out.
	repo.entries[entry.ID].OvertimeStatus = model.StatusFailed
	repo.entries[entry.ID].EmailStatus = model.StatusCompleted

	if _, err := svc.ApproveEntry(ctx, "mgr-1", entry.ID); err != nil {
		t.Fatalf("ApproveEntry failed: %v", err)
	}
	if len(pub.overtime) != 2 {
		t.Errorf("expected the overtime event republished, got %d", len(pub.overtime))
	}
	if len(pub.emails) != 1 {
		t.Errorf("completed mail should not be resent, got %d", len(pub.emails))
	}
	if repo.entries[entry.ID].EmailStatus != model.StatusCompleted {
		t.Errorf("EmailStatus = %s, want COMPLETED", repo.entries[entry.ID].EmailStatus)
	}
}

func TestDenyEntry(t *testing.T) {
	svc, repo, pub := newTestService(t)
	ctx := context.Background()

	target, err := svc.AddEntry(ctx, workDay("2025-01-06", "09:00", "17:30", "00:30"))
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	in := workDay("2025-01-11", "09:00", "13:00", "")
	in.DayType = "LINKD"
	in.LinkDate = "2025-01-06"
	linked, err := svc.AddEntry(ctx, in)
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	if err := svc.DenyEntry(ctx, "mgr-1", linked.ID); err != nil {
		t.Fatalf("DenyEntry failed: %v", err)
	}

	if len(pub.emails) != 1 || pub.emails[0].Kind != messaging.EmailOvertimeDenied || pub.emails[0].EntryDate != "2025-01-11" {
		t.Errorf("expected one denial mail for 2025-01-11, got %+v", pub.emails)
	}
	if len(pub.overtime) != 0 {
		t.Error("denial should not publish overtime")
	}
	if _, ok := repo.entries[linked.ID]; ok {
		t.Error("denied entry should be deleted")
	}
	if _, ok := repo.entries[target.ID]; ok {
		t.Error("linked day should be deleted with the denied entry")
	}
}

func TestDenyEntryPublishFailureKeepsEntry(t *testing.T) {
	svc, repo, pub := newTestService(t)
	ctx := context.Background()

	entry, err := svc.AddEntry(ctx, workDay("2025-01-06", "08:00", "18:30", "00:30"))
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	pub.err = errors.New("queue down")
	if err := svc.DenyEntry(ctx, "mgr-1", entry.ID); err == nil {
		t.Fatal("expected publish error")
	}
	if stored, ok := repo.entries[entry.ID]; !ok || stored.OvertimeStatus != model.StatusAwaitingApproval {
		t.Error("entry should still await approval when the denial mail is not queued")
	}
}
