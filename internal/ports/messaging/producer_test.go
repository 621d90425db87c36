package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type recordingSender struct {
	destinations []string
	eventTypes   []string
	bodies       [][]byte
	err          error
}

func (r *recordingSender) SendMessage(ctx context.Context, destination, eventType string, body []byte) error {
	if r.err != nil {
		return r.err
	}
	r.destinations = append(r.destinations, destination)
	r.eventTypes = append(r.eventTypes, eventType)
	r.bodies = append(r.bodies, body)
	return nil
}

func TestProducerRoutesEvents(t *testing.T) {
	sender := &recordingSender{}
	p := NewProducer(sender, "overtime-q", "email-q")

	if err := p.PublishOvertime(context.Background(), OvertimeEvent{EntryID: 1, EmployeeID: "emp-1", HoursWorked: 9.5}); err != nil {
		t.Fatalf("PublishOvertime failed: %v", err)
	}
	if err := p.PublishEmail(context.Background(), EmailEvent{EntryID: 1, EmployeeID: "emp-1", Kind: EmailHolidayApproved}); err != nil {
		t.Fatalf("PublishEmail failed: %v", err)
	}

	if len(sender.destinations) != 2 || sender.destinations[0] != "overtime-q" || sender.destinations[1] != "email-q" {
		t.Fatalf("unexpected destinations: %v", sender.destinations)
	}

	if sender.eventTypes[0] != EventOvertimeRecorded || sender.eventTypes[1] != "email.holiday_approved" {
		t.Errorf("unexpected event types: %v", sender.eventTypes)
	}

	var got EmailEvent
	if err := json.Unmarshal(sender.bodies[1], &got); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if got.Kind != EmailHolidayApproved || got.EmployeeID != "emp-1" {
		t.Errorf("unexpected email payload: %+v", got)
	}
}

func TestProducerWrapsSendError(t *testing.T) {
	boom := errors.New("boom")
	p := NewProducer(&recordingSender{err: boom}, "o", "e")

	err := p.PublishOvertime(context.Background(), OvertimeEvent{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped send error, got %v", err)
	}
}

type fakeSQS struct {
	input *sqs.SendMessageInput
}

func (f *fakeSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	return &sqs.SendMessageOutput{}, nil
}

func TestSQSSenderSetsQueueAndBody(t *testing.T) {
	client := &fakeSQS{}
	s := NewSQSSender(client)

	if err := s.SendMessage(context.Background(), "http://queue", "email.overtime", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if client.input == nil || *client.input.QueueUrl != "http://queue" || *client.input.MessageBody != `{"a":1}` {
		t.Fatalf("unexpected input: %+v", client.input)
	}
	attr, ok := client.input.MessageAttributes["event_type"]
	if !ok || *attr.StringValue != "email.overtime" {
		t.Errorf("event_type attribute = %+v", client.input.MessageAttributes)
	}
}
