package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Instrumentation records a span and metrics for every tool call.
type Instrumentation struct {
	tracer trace.Tracer
	calls  metric.Int64Counter
	errs   metric.Int64Counter
	dur    metric.Float64Histogram
	size   metric.Int64Histogram
}

// NewInstrumentation creates the tool instruments on the given providers.
func NewInstrumentation(mp metric.MeterProvider, tp trace.TracerProvider) (*Instrumentation, error) {
	m := mp.Meter(instrumentationScope)

	calls, err := m.Int64Counter("businessmap.tool.calls",
		metric.WithDescription("Total MCP tool calls"),
	)
	if err != nil {
		return nil, fmt.Errorf("create calls counter: %w", err)
	}
	errs, err := m.Int64Counter("businessmap.tool.errors",
		metric.WithDescription("MCP tool calls that failed or returned an error result"),
	)
	if err != nil {
		return nil, fmt.Errorf("create errors counter: %w", err)
	}
	dur, err := m.Float64Histogram("businessmap.tool.duration",
		metric.WithDescription("MCP tool call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}
	size, err := m.Int64Histogram("businessmap.tool.response.size",
		metric.WithDescription("Size of the text returned by an MCP tool"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("create response size histogram: %w", err)
	}

	return &Instrumentation{
		tracer: tp.Tracer(instrumentationScope),
		calls:  calls,
		errs:   errs,
		dur:    dur,
		size:   size,
	}, nil
}

// Global builds an Instrumentation on the providers installed by Init.
func Global() (*Instrumentation, error) {
	return NewInstrumentation(otel.GetMeterProvider(), otel.GetTracerProvider())
}

// WrapTool decorates handler. A nil Instrumentation returns handler unchanged.
func (i *Instrumentation) WrapTool(name string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	if i == nil {
		return handler
	}

	attrs := metric.WithAttributes(attribute.String("mcp.tool", name))

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := i.tracer.Start(ctx, "tool."+name,
			trace.WithAttributes(attribute.String("mcp.tool", name)),
			trace.WithSpanKind(trace.SpanKindServer),
		)
		defer span.End()

		start := time.Now()
		i.calls.Add(ctx, 1, attrs)

		result, err := handler(ctx, request)

		i.dur.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)

		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			i.errs.Add(ctx, 1, attrs)
		case result != nil && result.IsError:
			span.SetStatus(codes.Error, "tool returned an error result")
			i.errs.Add(ctx, 1, attrs)
		}

		if result != nil {
			n := ResponseSize(result)
			span.SetAttributes(attribute.Int("mcp.response.size", n))
			i.size.Record(ctx, int64(n), attrs)
		}

		return result, err
	}
}

// ResponseSize counts the bytes of text content in result.
func ResponseSize(result *mcp.CallToolResult) int {
	n := 0
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			n += len(text.Text)
		}
	}
	return n
}
