package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Producer publishes entry events to the overtime and email queues.
type Producer struct {
	sender           MessageSender
	overtimeQueueURL string
	emailQueueURL    string
}

func NewProducer(sender MessageSender, overtimeQueueURL, emailQueueURL string) *Producer {
	return &Producer{
		sender:           sender,
		overtimeQueueURL: overtimeQueueURL,
		emailQueueURL:    emailQueueURL,
	}
}

// NewSQSProducer creates a new Producer backed by an AWS SQS sender.
func NewSQSProducer(client SQSClient, overtimeQueueURL, emailQueueURL string) *Producer {
	return NewProducer(NewSQSSender(client), overtimeQueueURL, emailQueueURL)
}

func (p *Producer) PublishOvertime(ctx context.Context, event OvertimeEvent) error {
	return p.publish(ctx, p.overtimeQueueURL, EventOvertimeRecorded, event.EmployeeID, event)
}

func (p *Producer) PublishEmail(ctx context.Context, event EmailEvent) error {
	return p.publish(ctx, p.emailQueueURL, event.Kind.EventType(), event.EmployeeID, event)
}

func (p *Producer) publish(ctx context.Context, destination, eventType, employeeID string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal body: %w", err)
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() && employeeID != "" {
		span.SetAttributes(attribute.String("app.employeeId", employeeID))
	}

	if err := p.sender.SendMessage(ctx, destination, eventType, b); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
