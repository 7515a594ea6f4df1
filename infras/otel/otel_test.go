package otel_test

import (
	"context"
	"errors"
	"lockngo/config"
	"lockngo/infras/otel"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew_WithoutEndpoint(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "lockngo-test"

	ot := otel.New(cfg)
	require.NotNil(t, ot)

	ctx, scope := ot.NewScope(context.Background(), "service", "service.Test")
	assert.NotNil(t, ctx)

	scope.SetAttributes(map[string]any{
		"booking.id": "b1",
		"attempt":    1,
		"paid":       true,
		"agents":     []string{"a1"},
		"weight.kg":  10.5,
	})
	scope.AddEvent("checked")
	scope.TraceIfError(nil)
	scope.TraceIfError(errors.New("boom"))
	scope.End()

	assert.NoError(t, ot.Shutdown(context.Background()))
}

func TestScope_BookingAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("lockngo-test").Start(context.Background(), "service.booking.Accept")
	scope := otel.NewScope(span)

	scope.SetActor("a1", "agent")
	scope.SetTransition("b1", "Created", "Assigned")
	scope.SetAttribute("booking.price", 18.5)
	scope.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	got := map[attribute.Key]attribute.Value{}
	for _, kv := range ended[0].Attributes() {
		got[kv.Key] = kv.Value
	}

	assert.Equal(t, "a1", got[otel.AttributeActorID].AsString())
	assert.Equal(t, "agent", got[otel.AttributeActorRole].AsString())
	assert.Equal(t, "b1", got[otel.AttributeBookingID].AsString())
	assert.Equal(t, "Created", got[otel.AttributeStatusFrom].AsString())
	assert.Equal(t, "Assigned", got[otel.AttributeBookingStatus].AsString())
	assert.InDelta(t, 18.5, got["booking.price"].AsFloat64(), 0)

	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "booking.transition", ended[0].Events()[0].Name)
}
