package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/annel0/mine-game/internal/config"
	"github.com/annel0/mine-game/internal/logging"
)

func TestDisabledTelemetryIsNoop(t *testing.T) {
	shutdown, err := InitTelemetry(context.Background(), "test", config.TelemetryConfig{}, logging.GetComponentLogger("test"))
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSpansAreRecorded(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	_, span := StartSpan(context.Background(), "cave.generate", attribute.String("location", "VillageMine"))
	EndSpan(span, nil)
	_, span = StartSpan(context.Background(), "snapshot.save")
	EndSpan(span, errors.New("диск заполнен"))

	ended := rec.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "cave.generate", ended[0].Name())
	assert.Contains(t, ended[0].Attributes(), attribute.String("location", "VillageMine"))
	assert.Equal(t, codes.Error, ended[1].Status().Code)
}
