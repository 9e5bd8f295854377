package binder

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/widgetkit/pkg/tree"
)

// DefaultTracerName is the tracer name used when no tracer is given.
const DefaultTracerName = "widgetkit"

func defaultTracer() trace.Tracer {
	return otel.Tracer(DefaultTracerName)
}

func (b *Binder) startSpan(ctx context.Context, name string, n *tree.Node) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.Int64("widgetkit.node.id", int64(n.ID())),
		attribute.String("widgetkit.node.tag", n.Tag),
	}
	if w := n.WidgetName(); w != "" {
		attrs = append(attrs, attribute.String("widgetkit.widget", w))
	}
	return b.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

func (b *Binder) startPassSpan(ctx context.Context, p tree.Pass) (context.Context, trace.Span) {
	return b.tracer.Start(ctx, "binder.Apply",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int("widgetkit.pass.inserted", len(p.Inserted)),
			attribute.Int("widgetkit.pass.changed", len(p.Changed)),
			attribute.Int("widgetkit.pass.removed", len(p.Removed)),
		),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
