package legacyapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"timesheet.service/internal/ports/messaging"
)

// Client is the contract of the legacy payroll system that books overtime.
type Client interface {
	RecordOvertime(ctx context.Context, event messaging.OvertimeEvent) error
}

// StatusError is returned when the legacy API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("legacy api returned non-successful status code: %d", e.StatusCode)
}

// Retryable reports whether the request may succeed if sent again.
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// HTTPClient API client using HTTP
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient new HTTPClient
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: baseURL,
	}
}

// RecordOvertime sends the overtime record to the legacy API
func (c *HTTPClient) RecordOvertime(ctx context.Context, event messaging.OvertimeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal legacy api payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create legacy api request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call legacy api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode}
	}

	log.Ctx(ctx).Info().Str("employee_id", event.EmployeeID).Int64("entry_id", event.EntryID).Msg("Recorded overtime in legacy system")
	return nil
}
