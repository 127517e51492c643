// Copyright © 2018 The ELPS authors

package profiler_test

import (
	"context"
	"testing"

	"github.com/OMTS/Hop/hop/x/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

func newExporter(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
		trace.WithSampler(trace.AlwaysSample()),
	)
	t.Cleanup(func() {
		err := tp.Shutdown(context.Background())
		assert.NoError(t, err, "TracerProvider shutdown")
	})
	otel.SetTracerProvider(tp)
	return exporter
}

func attr(attrs []attribute.KeyValue, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range attrs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestNewOpenTelemetryAnnotator(t *testing.T) {
	exporter := newExporter(t)
	s := newSession(t)
	ppa := profiler.NewOpenTelemetryAnnotator(s, context.Background())
	require.NoError(t, ppa.Enable())
	assert.Error(t, ppa.Enable())
	require.NoError(t, s.Run(testHop))
	assert.NoError(t, ppa.Complete())

	spans := exporter.GetSpans()
	require.Len(t, spans, 8)
	assert.Equal(t, "addIt(_:_:)", spans[0].Name)
	assert.Equal(t, "recurseIt(_:)", spans[1].Name)
	assert.Equal(t, "Sys.string(_:)", spans[6].Name)
	assert.Equal(t, "Sys.print(_:)", spans[7].Name)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.False(t, spans[7].Parent.IsValid())

	line, ok := attr(spans[0].Attributes, semconv.CodeLineNumberKey)
	require.True(t, ok)
	assert.EqualValues(t, 4, line.AsInt64())
	ns, ok := attr(spans[0].Attributes, semconv.CodeNamespaceKey)
	require.True(t, ok)
	assert.Equal(t, "main", ns.AsString())
	ns, _ = attr(spans[7].Attributes, semconv.CodeNamespaceKey)
	assert.Equal(t, "Sys", ns.AsString())
	_, ok = attr(spans[7].Attributes, semconv.CodeLineNumberKey)
	assert.False(t, ok)
}

func TestNewOpenTelemetryAnnotatorSkip(t *testing.T) {
	exporter := newExporter(t)
	s := newSession(t)
	ppa := profiler.NewOpenTelemetryAnnotator(s, context.Background(),
		profiler.WithDocFilter(),
		profiler.WithDocLabeler())
	require.NoError(t, ppa.Enable())
	require.NoError(t, s.Run(testHop))
	assert.NoError(t, ppa.Complete())

	spans := exporter.GetSpans()
	require.Len(t, spans, 3, "Expected selective spans")
	for _, span := range spans {
		assert.Equal(t, "Add_It", span.Name, "Expected custom label")
		fn, _ := attr(span.Attributes, semconv.CodeFunctionKey)
		assert.Equal(t, "addIt(_:_:)", fn.AsString())
	}
}

func TestOpenTelemetryAnnotatorNatives(t *testing.T) {
	exporter := newExporter(t)
	s := newSession(t)
	ppa := profiler.NewOpenTelemetryAnnotator(s, context.Background(), profiler.WithoutNatives())
	require.NoError(t, ppa.Enable())
	require.NoError(t, s.Run(testHop))

	assert.Len(t, exporter.GetSpans(), 6)
}

func TestOpenTelemetryAnnotatorNoContext(t *testing.T) {
	s := newSession(t)
	//nolint:staticcheck // a nil context is what is being tested
	ppa := profiler.NewOpenTelemetryAnnotator(s, nil)
	assert.Error(t, ppa.Enable())
}
