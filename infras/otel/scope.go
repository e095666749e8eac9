package otel

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Scope is one span as seen by the layers that open it.
type Scope interface {
	End()
	TraceError(err error)
	TraceIfError(err error)
	AddEvent(name string, attributes map[string]any)
	SetAttribute(key string, value any)
	SetAttributes(attributes map[string]any)
}

type scopeImpl struct {
	span oteltrace.Span
}

func NewScope(span oteltrace.Span) Scope {
	return &scopeImpl{span: span}
}

func (s *scopeImpl) End() {
	s.span.End()
}

func (s *scopeImpl) TraceError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *scopeImpl) TraceIfError(err error) {
	if err == nil {
		return
	}

	s.TraceError(err)
}

func (s *scopeImpl) AddEvent(name string, attributes map[string]any) {
	s.span.AddEvent(name, oteltrace.WithAttributes(toKeyValues(attributes)...))
}

func (s *scopeImpl) SetAttribute(key string, value any) {
	s.span.SetAttributes(toKeyValue(key, value))
}

func (s *scopeImpl) SetAttributes(attributes map[string]any) {
	s.span.SetAttributes(toKeyValues(attributes)...)
}

func toKeyValues(attributes map[string]any) []attribute.KeyValue {
	keyValues := make([]attribute.KeyValue, 0, len(attributes))

	for key, value := range attributes {
		keyValues = append(keyValues, toKeyValue(key, value))
	}

	return keyValues
}

// toKeyValue keeps numbers, flags and lists typed; anything else is recorded as its string form.
func toKeyValue(key string, value any) attribute.KeyValue {
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
	case []int64:
		return attribute.Int64Slice(key, val)
	case time.Time:
		return attribute.String(key, val.Format(time.RFC3339Nano))
	case fmt.Stringer:
		return attribute.Stringer(key, val)
	default:
		return attribute.String(key, fmt.Sprint(val))
	}
}
