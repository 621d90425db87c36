package core

import (
	"context"
	"time"

	"timesheet.service/internal/core/model"
	"timesheet.service/internal/ports/messaging"
	"timesheet.service/internal/ports/repository"
)

type fakeRepo struct {
	entries map[int64]*model.TrackingEntry
	nextID  int64
	err     error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{entries: make(map[int64]*model.TrackingEntry), nextID: 1}
}

func (r *fakeRepo) CreateEntry(ctx context.Context, e *model.TrackingEntry) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	for _, existing := range r.entries {
		if existing.EmployeeID == e.EmployeeID && existing.EntryDate.Equal(e.EntryDate) {
			return 0, repository.ErrDuplicateEntry
		}
	}
	id := r.nextID
	r.nextID++
	cp := *e
	cp.ID = id
	r.entries[id] = &cp
	return id, nil
}

func (r *fakeRepo) UpdateEntry(ctx context.Context, e *model.TrackingEntry) error {
	existing, ok := r.entries[e.ID]
	if !ok || existing.EmployeeID != e.EmployeeID {
		return repository.ErrEntryNotFound
	}
	cp := *e
	r.entries[e.ID] = &cp
	return nil
}

func (r *fakeRepo) DeleteEntry(ctx context.Context, employeeID string, id int64) error {
	existing, ok := r.entries[id]
	if !ok || existing.EmployeeID != employeeID {
		return repository.ErrEntryNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *fakeRepo) GetEntry(ctx context.Context, id int64) (*model.TrackingEntry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, repository.ErrEntryNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeRepo) FindEntryByDate(ctx context.Context, employeeID string, date time.Time) (*model.TrackingEntry, error) {
	for _, e := range r.entries {
		if e.EmployeeID == employeeID && e.EntryDate.Equal(date) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) ListEntries(ctx context.Context, employeeID string, from, to time.Time) ([]model.TrackingEntry, error) {
	var out []model.TrackingEntry
	for _, e := range r.entries {
		if e.EmployeeID == employeeID && !e.EntryDate.Before(from) && e.EntryDate.Before(to) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateOvertimeStatus(ctx context.Context, id int64, status model.ProcessingStatus, retryCount int) error {
	e, ok := r.entries[id]
	if !ok {
		return repository.ErrEntryNotFound
	}
	e.OvertimeStatus = status
	e.OvertimeRetryCount = retryCount
	return nil
}

func (r *fakeRepo) UpdateEmailStatus(ctx context.Context, id int64, status model.ProcessingStatus, retryCount int) error {
	e, ok := r.entries[id]
	if !ok {
		return repository.ErrEntryNotFound
	}
	e.EmailStatus = status
	e.EmailRetryCount = retryCount
	return nil
}

type fakePublisher struct {
	overtime []messaging.OvertimeEvent
	emails   []messaging.EmailEvent
	err      error
}

func (p *fakePublisher) PublishOvertime(ctx context.Context, event messaging.OvertimeEvent) error {
	if p.err != nil {
		return p.err
	}
	p.overtime = append(p.overtime, event)
	return nil
}

func (p *fakePublisher) PublishEmail(ctx context.Context, event messaging.EmailEvent) error {
	if p.err != nil {
		return p.err
	}
	p.emails = append(p.emails, event)
	return nil
}
