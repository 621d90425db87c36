package overtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/sony/gobreaker"

	"timesheet.service/internal/core/model"
	"timesheet.service/internal/ports/messaging"
	"timesheet.service/internal/ports/repository"
	"timesheet.service/internal/worker/legacyapi"
)

// statusRepo implements only the calls the processor makes.
type statusRepo struct {
	repository.Repository
	entry      *model.TrackingEntry
	getErr     error
	status     model.ProcessingStatus
	retryCount int
}

func (r *statusRepo) GetEntry(ctx context.Context, id int64) (*model.TrackingEntry, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	cp := *r.entry
	return &cp, nil
}

func (r *statusRepo) UpdateOvertimeStatus(ctx context.Context, id int64, status model.ProcessingStatus, retryCount int) error {
	r.status = status
	r.retryCount = retryCount
	r.entry.OvertimeStatus = status
	r.entry.OvertimeRetryCount = retryCount
	return nil
}

type fakeLegacy struct {
	calls  int
	err    error
	events []messaging.OvertimeEvent
}

func (f *fakeLegacy) RecordOvertime(ctx context.Context, event messaging.OvertimeEvent) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func overtimeMessage(t *testing.T, id int64) types.Message {
	t.Helper()
	body, err := json.Marshal(messaging.OvertimeEvent{EntryID: id, EmployeeID: "emp-1", Duration: "10:00", HoursWorked: 10})
	if err != nil {
		t.Fatal(err)
	}
	return types.Message{Body: aws.String(string(body))}
}

func pendingEntry() *model.TrackingEntry {
	return &model.TrackingEntry{ID: 5, EmployeeID: "emp-1", OvertimeStatus: model.StatusPending}
}

func TestProcessRecordsOvertime(t *testing.T) {
	repo := &statusRepo{entry: pendingEntry()}
	legacy := &fakeLegacy{}
	p := NewProcessor(repo, legacy)

	retry, _, err := p.Process(context.Background(), overtimeMessage(t, 5))
	if err != nil || retry {
		t.Fatalf("Process() = retry %v, err %v", retry, err)
	}
	if len(legacy.events) != 1 || legacy.events[0].Duration != "10:00" {
		t.Errorf("legacy api received %+v", legacy.events)
	}
	if repo.status != model.StatusCompleted {
		t.Errorf("status = %s, want COMPLETED", repo.status)
	}
}

func TestProcessIsIdempotent(t *testing.T) {
	entry := pendingEntry()
	entry.OvertimeStatus = model.StatusCompleted
	legacy := &fakeLegacy{}
	p := NewProcessor(&statusRepo{entry: entry}, legacy)

	if retry, _, err := p.Process(context.Background(), overtimeMessage(t, 5)); err != nil || retry {
		t.Fatalf("Process() = retry %v, err %v", retry, err)
	}
	if legacy.calls != 0 {
		t.Errorf("legacy api called %d times for a completed entry", legacy.calls)
	}
}

func TestProcessLegacyFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantRetry  bool
		wantDelay  int32
		wantStatus model.ProcessingStatus
	}{
		{name: "server error", err: &legacyapi.StatusError{StatusCode: http.StatusServiceUnavailable}, wantRetry: true, wantDelay: 20, wantStatus: model.StatusPending},
		{name: "network error", err: errors.New("connection refused"), wantRetry: true, wantDelay: 20, wantStatus: model.StatusPending},
		{name: "rejected payload", err: &legacyapi.StatusError{StatusCode: http.StatusBadRequest}, wantRetry: false, wantStatus: model.StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &statusRepo{entry: pendingEntry()}
			p := NewProcessor(repo, &fakeLegacy{err: tt.err})

			retry, delay, err := p.Process(context.Background(), overtimeMessage(t, 5))
			if err == nil {
				t.Fatal("expected an error")
			}
			if retry != tt.wantRetry || delay != tt.wantDelay {
				t.Errorf("Process() = retry %v delay %d, want %v %d", retry, delay, tt.wantRetry, tt.wantDelay)
			}
			if repo.status != tt.wantStatus || repo.retryCount != 1 {
				t.Errorf("status = %s/%d, want %s/1", repo.status, repo.retryCount, tt.wantStatus)
			}
		})
	}
}

func TestProcessCircuitBreakerOpens(t *testing.T) {
	repo := &statusRepo{entry: pendingEntry()}
	legacy := &fakeLegacy{err: &legacyapi.StatusError{StatusCode: http.StatusBadGateway}}
	p := NewProcessor(repo, legacy)

	for i := 0; i < 10; i++ {
		_, _, _ = p.Process(context.Background(), overtimeMessage(t, 5))
	}
	if legacy.calls != 10 {
		t.Fatalf("legacy calls = %d, want 10", legacy.calls)
	}

	retry, _, err := p.Process(context.Background(), overtimeMessage(t, 5))
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if !retry {
		t.Error("an open breaker should be retried later")
	}
	if legacy.calls != 10 {
		t.Errorf("legacy api called while breaker open")
	}
}

func TestProcessRejectedPayloadsDoNotTripBreaker(t *testing.T) {
	legacy := &fakeLegacy{err: &legacyapi.StatusError{StatusCode: http.StatusUnprocessableEntity}}
	p := NewProcessor(&statusRepo{entry: pendingEntry()}, legacy)

	for i := 0; i < 15; i++ {
		_, _, _ = p.Process(context.Background(), overtimeMessage(t, 5))
	}
	if legacy.calls != 15 {
		t.Errorf("legacy calls = %d, want 15", legacy.calls)
	}
}

func TestProcessMalformedAndMissing(t *testing.T) {
	p := NewProcessor(&statusRepo{}, &fakeLegacy{})
	if retry, _, err := p.Process(context.Background(), types.Message{Body: aws.String("nope")}); err == nil || retry {
		t.Errorf("malformed: retry %v err %v", retry, err)
	}

	p = NewProcessor(&statusRepo{getErr: repository.ErrEntryNotFound}, &fakeLegacy{})
	if retry, _, err := p.Process(context.Background(), overtimeMessage(t, 5)); err != nil || retry {
		t.Errorf("deleted entry: retry %v err %v", retry, err)
	}

	p = NewProcessor(&statusRepo{getErr: errors.New("db down")}, &fakeLegacy{})
	if retry, delay, err := p.Process(context.Background(), overtimeMessage(t, 5)); err == nil || !retry || delay != 10 {
		t.Errorf("db error: retry %v delay %d err %v", retry, delay, err)
	}
}
