package core

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"timesheet.service/internal/ports/messaging"
	"timesheet.service/pkg/telemetry"
)

// Notification is the content of one entry mail.
type Notification struct {
	Kind      messaging.EmailKind
	EntryDate string
	Duration  string
}

type EmailService interface {
	Send(ctx context.Context, to string, n Notification) error
}

// SESClient is the subset of the SES API used to send mail.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESEmailService struct {
	client SESClient
	sender string
}

func NewSESEmailService(client SESClient, sender string) *SESEmailService {
	return &SESEmailService{client: client, sender: sender}
}

// RenderNotification returns the subject and text body for a notification.
func RenderNotification(n Notification) (string, string, error) {
	switch n.Kind {
	case messaging.EmailHolidayApproved:
		return "Holiday Request: Approved.",
			fmt.Sprintf("Hello,\n\nYour holiday request for %s has been approved.", n.EntryDate), nil
	case messaging.EmailOvertime:
		return "Overtime recorded",
			fmt.Sprintf("Hello,\n\nYour entry for %s records %s of working time and its overtime has been approved.", n.EntryDate, n.Duration), nil
	case messaging.EmailUndertime:
		return "Undertime recorded",
			fmt.Sprintf("Hello,\n\nYour entry for %s records only %s of working time, which is below your shift length.", n.EntryDate, n.Duration), nil
	case messaging.EmailOvertimeDenied:
		return "Request for Overtime: Denied.",
			fmt.Sprintf("Hi,\n\nYour request for overtime on %s was denied.\n\nKind Regards,\nTimetracking Team", n.EntryDate), nil
	}
	return "", "", fmt.Errorf("unknown notification kind %q", n.Kind)
}

func (s *SESEmailService) Send(ctx context.Context, to string, n Notification) error {
	tracer := otel.Tracer("ses-email-service")
	ctx, span := tracer.Start(ctx, "send_email", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if empID := telemetry.GetEmployeeIDFromContext(ctx); empID != "" {
		span.SetAttributes(attribute.String("app.employeeId", empID))
	}
	span.SetAttributes(attribute.String("app.notification", string(n.Kind)))

	subject, body, err := RenderNotification(n)
	if err != nil {
		return err
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
	}

	_, err = s.client.SendEmail(ctx, input)
	return err
}
