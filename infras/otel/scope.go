package otel

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Span attribute keys shared by every layer that touches a booking.
const (
	AttributeBookingID     = "booking.id"
	AttributeBookingCode   = "booking.code"
	AttributeBookingStatus = "booking.status"
	AttributeStatusFrom    = "booking.status.from"
	AttributeAgentID       = "booking.agent_id"
	AttributeActorID       = "actor.id"
	AttributeActorRole     = "actor.role"
)

type Scope interface {
	End()
	TraceError(err error)
	TraceIfError(err error)
	AddEvent(name string)
	SetAttribute(key string, value any)
	SetAttributes(attributes map[string]any)
	SetActor(id, role string)
	SetBooking(id string)
	SetTransition(bookingID, from, to string)
}

type scopeImpl struct {
	span oteltrace.Span
}

func (s *scopeImpl) End() {
	s.span.End()
}

func (s *scopeImpl) TraceError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *scopeImpl) TraceIfError(err error) {
	if err != nil {
		s.TraceError(err)
	}
}

func (s *scopeImpl) AddEvent(name string) {
	s.span.AddEvent(name)
}

func (s *scopeImpl) SetAttribute(key string, value any) {
	s.span.SetAttributes(toAttribute(key, value))
}

func (s *scopeImpl) SetAttributes(attributes map[string]any) {
	kvs := make([]attribute.KeyValue, 0, len(attributes))
	for key, value := range attributes {
		kvs = append(kvs, toAttribute(key, value))
	}

	s.span.SetAttributes(kvs...)
}

// SetActor tags the span with the authenticated caller.
func (s *scopeImpl) SetActor(id, role string) {
	s.span.SetAttributes(
		attribute.String(AttributeActorID, id),
		attribute.String(AttributeActorRole, role),
	)
}

func (s *scopeImpl) SetBooking(id string) {
	s.span.SetAttributes(attribute.String(AttributeBookingID, id))
}

// SetTransition records a lifecycle move and adds it as a span event.
func (s *scopeImpl) SetTransition(bookingID, from, to string) {
	s.span.SetAttributes(
		attribute.String(AttributeBookingID, bookingID),
		attribute.String(AttributeStatusFrom, from),
		attribute.String(AttributeBookingStatus, to),
	)
	s.span.AddEvent("booking.transition", oteltrace.WithAttributes(
		attribute.String(AttributeStatusFrom, from),
		attribute.String(AttributeBookingStatus, to),
	))
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch val := value.(type) {
	case bool:
		return attribute.Bool(key, val)
	case string:
		return attribute.String(key, val)
	case int:
		return attribute.Int(key, val)
	case int64:
		return attribute.Int64(key, val)
	case float64:
		return attribute.Float64(key, val)
	case []string:
		return attribute.StringSlice(key, val)
	case fmt.Stringer:
		return attribute.String(key, val.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", val))
	}
}

func NewScope(span oteltrace.Span) Scope {
	return &scopeImpl{
		span: span,
	}
}
