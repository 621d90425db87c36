package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const EmployeeIDKey contextKey = "employeeId"

// EventTypeAttribute is the SQS message attribute naming the event carried in the body.
const EventTypeAttribute = "event_type"

// InitTracer initializes the OpenTelemetry tracer provider.
func InitTracer(serviceName, endpoint string, isLocalDev bool) (func(context.Context) error, error) {
	ctx := context.Background()

	exporter, err := newExporter(ctx, endpoint, isLocalDev)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceNamespace("timesheet"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp.Shutdown, nil
}

// newExporter writes spans to stdout in local development and to the
// OTLP gRPC collector (Jaeger) otherwise.
func newExporter(ctx context.Context, endpoint string, isLocalDev bool) (sdktrace.SpanExporter, error) {
	if isLocalDev {
		return stdouttrace.New(stdouttrace.WithWriter(os.Stdout), stdouttrace.WithPrettyPrint())
	}
	return otlptracegrpc.New(ctx, otlptracegrpc.WithInsecure(), otlptracegrpc.WithEndpoint(endpoint))
}

// StartSpanFromSQSMessage continues the producer's trace from the message
// attributes and tags the span with the entry and employee in the body.
func StartSpanFromSQSMessage(ctx context.Context, msg types.Message) (context.Context, trace.Span) {
	carrier := attributeCarrier(msg.MessageAttributes)
	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

	tracer := otel.Tracer("sqs-worker")
	ctx, span := tracer.Start(ctx, "process_message",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "aws_sqs"),
			attribute.String("messaging.message_id", aws.ToString(msg.MessageId)),
		),
	)
	if eventType := carrier.Get(EventTypeAttribute); eventType != "" {
		span.SetAttributes(attribute.String("app.eventType", eventType))
	}

	if msg.Body == nil {
		return ctx, span
	}
	var payload struct {
		EntryID    int64  `json:"entryId"`
		EmployeeID string `json:"employeeId"`
	}
	if err := json.Unmarshal([]byte(*msg.Body), &payload); err != nil {
		return ctx, span
	}
	if payload.EntryID != 0 {
		span.SetAttributes(attribute.Int64("app.entryId", payload.EntryID))
	}
	if payload.EmployeeID != "" {
		span.SetAttributes(attribute.String("app.employeeId", payload.EmployeeID))
		ctx = WithEmployeeID(ctx, payload.EmployeeID)
	}
	return ctx, span
}

// WithEmployeeID stores the employee ID in the context.
func WithEmployeeID(ctx context.Context, employeeID string) context.Context {
	return context.WithValue(ctx, EmployeeIDKey, employeeID)
}

// GetEmployeeIDFromContext retrieves the employee ID from the context.
func GetEmployeeIDFromContext(ctx context.Context) string {
	if val, ok := ctx.Value(EmployeeIDKey).(string); ok {
		return val
	}
	return ""
}

// MessageAttributes returns the SQS attributes for an outgoing event: the
// current trace context plus the event type.
func MessageAttributes(ctx context.Context, eventType string) map[string]types.MessageAttributeValue {
	attrs := attributeCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, attrs)
	if eventType != "" {
		attrs.Set(EventTypeAttribute, eventType)
	}
	return attrs
}
