package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"medconnect/pkg/logger"
)

// Analytics event names.
const (
	EventSignUp        = "sign_up"
	EventLogin         = "login"
	EventCreatePost    = "create_post"
	EventCreateCase    = "create_case"
	EventSolveCase     = "solve_case"
	EventComment       = "comment"
	EventLike          = "like"
	EventBookmark      = "bookmark"
	EventConnect       = "connect"
	EventFollow        = "follow"
	EventSendMessage   = "send_message"
	EventSearch        = "search"
	EventJoinGroup     = "join_group"
	EventWriteRollback = "write_rollback"
)

// Recorder counts analytics events and recorded errors. Without a configured
// meter provider the counters are no-ops.
type Recorder struct {
	events metric.Int64Counter
	errors metric.Int64Counter
}

func New(meter metric.Meter) (*Recorder, error) {
	events, err := meter.Int64Counter("medconnect.events",
		metric.WithDescription("Analytics events by name"))
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter("medconnect.errors",
		metric.WithDescription("Recorded errors by location"))
	if err != nil {
		return nil, err
	}

	return &Recorder{events: events, errors: errs}, nil
}

// NewGlobal uses the process-wide meter provider.
func NewGlobal() *Recorder {
	r, err := New(otel.Meter("medconnect"))
	if err != nil {
		logger.Warn("Telemetry disabled: %v", err)
		return nil
	}
	return r
}

func (r *Recorder) Event(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	if r == nil {
		return
	}
	attrs = append(attrs, attribute.String("event", name))
	r.events.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordError logs err with a stack trace and counts it.
func (r *Recorder) RecordError(ctx context.Context, err error, where string) {
	if err == nil {
		return
	}
	logger.RecordError(err, where)
	if r == nil {
		return
	}
	r.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("where", where)))
}
