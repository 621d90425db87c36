package legacyapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"timesheet.service/internal/ports/messaging"
)

func TestRecordOvertime(t *testing.T) {
	var got messaging.OvertimeEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	err := c.RecordOvertime(context.Background(), messaging.OvertimeEvent{EntryID: 7, EmployeeID: "emp-1", Duration: "10:00"})
	if err != nil {
		t.Fatalf("RecordOvertime failed: %v", err)
	}
	if got.EntryID != 7 || got.Duration != "10:00" {
		t.Errorf("server received %+v", got)
	}
}

func TestRecordOvertimeStatusError(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{status: http.StatusInternalServerError, retryable: true},
		{status: http.StatusTooManyRequests, retryable: true},
		{status: http.StatusBadRequest, retryable: false},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		err := NewHTTPClient(srv.URL).RecordOvertime(context.Background(), messaging.OvertimeEvent{})
		srv.Close()

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("status %d: expected StatusError, got %v", tt.status, err)
		}
		if statusErr.StatusCode != tt.status || statusErr.Retryable() != tt.retryable {
			t.Errorf("status %d: got %+v retryable=%v", tt.status, statusErr, statusErr.Retryable())
		}
	}
}
