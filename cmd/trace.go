// Copyright © 2018 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/hop/x/profiler"
	"github.com/go-logr/logr"
	octrace "go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// tracing attaches the profiler selected on the command line to sessions.
type tracing struct {
	kind      string
	callgrind string
	ctx       context.Context
	log       logr.Logger
	runs      int
	shutdown  func(context.Context) error
}

func newTracing(ctx context.Context, kind, callgrind string, logger logr.Logger) (*tracing, error) {
	t := &tracing{
		kind:      kind,
		callgrind: callgrind,
		ctx:       ctx,
		log:       logger,
		shutdown:  func(context.Context) error { return nil },
	}
	switch kind {
	case "", "pprof":
	case "otel":
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(&spanLogger{log: logger}))
		otel.SetTracerProvider(tp)
		otel.SetLogger(logger)
		t.shutdown = tp.Shutdown
	case "opencensus":
		e := &spanLogger{log: logger}
		octrace.RegisterExporter(e)
		octrace.ApplyConfig(octrace.Config{DefaultSampler: octrace.AlwaysSample()})
		t.shutdown = func(context.Context) error {
			octrace.UnregisterExporter(e)
			return nil
		}
	default:
		return nil, fmt.Errorf("unknown trace kind %q: expected otel, opencensus or pprof", kind)
	}
	return t, nil
}

// annotate enables a profiler on s for the run of the script name.  The
// returned function completes the profile.
func (t *tracing) annotate(s *hop.Session, name string) (func() error, error) {
	t.runs++
	var p hop.Profiler
	end := func() {}
	switch {
	case t.callgrind != "":
		cg := profiler.NewCallgrindProfiler(s)
		path := t.callgrind
		if t.runs > 1 {
			path = fmt.Sprintf("%s.%d", path, t.runs)
		}
		if err := cg.SetFile(path); err != nil {
			return nil, err
		}
		p = cg
	case t.kind == "otel":
		ctx, span := otel.Tracer("hop").Start(t.ctx, "run "+name)
		end = func() { span.End() }
		p = profiler.NewOpenTelemetryAnnotator(s, ctx)
	case t.kind == "opencensus":
		ctx, span := octrace.StartSpan(t.ctx, "run "+name)
		end = span.End
		p = profiler.NewOpenCensusAnnotator(s, ctx)
	case t.kind == "pprof":
		p = profiler.NewPprofAnnotator(s, t.ctx)
	default:
		return func() error { return nil }, nil
	}
	if err := p.Enable(); err != nil {
		end()
		return nil, err
	}
	return func() error {
		defer end()
		return p.Complete()
	}, nil
}

// spanLogger exports finished spans as log lines.
type spanLogger struct {
	log logr.Logger
}

var _ sdktrace.SpanExporter = (*spanLogger)(nil)
var _ octrace.Exporter = (*spanLogger)(nil)

// ExportSpans implements sdktrace.SpanExporter.
func (e *spanLogger) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		e.logSpan(span.Name(), span.SpanContext(), span.Parent(), span.EndTime().Sub(span.StartTime()))
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter.
func (e *spanLogger) Shutdown(ctx context.Context) error {
	return nil
}

// ExportSpan implements octrace.Exporter.
func (e *spanLogger) ExportSpan(sd *octrace.SpanData) {
	e.log.Info("span",
		"name", sd.Name,
		"trace", sd.TraceID.String(),
		"span", sd.SpanID.String(),
		"parent", sd.ParentSpanID.String(),
		"duration", sd.EndTime.Sub(sd.StartTime))
}

func (e *spanLogger) logSpan(name string, sc, parent trace.SpanContext, d time.Duration) {
	e.log.Info("span",
		"name", name,
		"trace", sc.TraceID().String(),
		"span", sc.SpanID().String(),
		"parent", parent.SpanID().String(),
		"duration", d)
}
