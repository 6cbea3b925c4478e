package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otelcodes "go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupInstrumentation(t *testing.T) (*Instrumentation, *sdkmetric.ManualReader, *tracetest.SpanRecorder) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	inst, err := NewInstrumentation(mp, tp)
	require.NoError(t, err)
	return inst, reader, recorder
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumValue(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()

	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected int64 sum, got %T", data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestWrapToolRecordsCallsAndSize(t *testing.T) {
	inst, reader, recorder := setupInstrumentation(t)

	handler := inst.WrapTool("list_boards", func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("hello"), nil
	})

	for i := 0; i < 2; i++ {
		result, err := handler(context.Background(), mcp.CallToolRequest{})
		require.NoError(t, err)
		require.False(t, result.IsError)
	}

	metrics := collect(t, reader)
	assert.Equal(t, int64(2), sumValue(t, metrics["businessmap.tool.calls"]))
	if errs, ok := metrics["businessmap.tool.errors"]; ok {
		assert.Zero(t, sumValue(t, errs))
	}

	size, ok := metrics["businessmap.tool.response.size"].(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, size.DataPoints, 1)
	assert.Equal(t, int64(10), size.DataPoints[0].Sum)

	_, ok = metrics["businessmap.tool.duration"].(metricdata.Histogram[float64])
	assert.True(t, ok)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "tool.list_boards", spans[0].Name())
}

func TestWrapToolCountsErrors(t *testing.T) {
	inst, reader, recorder := setupInstrumentation(t)

	failing := inst.WrapTool("get_card", func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("card not found"), nil
	})
	broken := inst.WrapTool("get_board", func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, errors.New("boom")
	})

	_, _ = failing(context.Background(), mcp.CallToolRequest{})
	_, err := broken(context.Background(), mcp.CallToolRequest{})
	assert.EqualError(t, err, "boom")

	metrics := collect(t, reader)
	assert.Equal(t, int64(2), sumValue(t, metrics["businessmap.tool.errors"]))

	for _, span := range recorder.Ended() {
		assert.Equal(t, otelcodes.Error, span.Status().Code, span.Name())
	}
}

func TestNilInstrumentationIsPassthrough(t *testing.T) {
	var inst *Instrumentation
	called := false

	handler := inst.WrapTool("health_check", func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("ok"), nil
	})

	_, err := handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestInitDisabledIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), Settings{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	inst, err := Global()
	require.NoError(t, err)
	assert.NotNil(t, inst)
}

func TestResponseSize(t *testing.T) {
	result := &mcp.CallToolResult{Content: []mcp.Content{
		mcp.NewTextContent("abc"),
		mcp.NewTextContent("de"),
	}}
	assert.Equal(t, 5, ResponseSize(result))
}
