package camelsnake

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	outcomeRewritten   = "rewritten"
	outcomePassthrough = "passthrough"
	outcomeFailed      = "failed"
)

func (rw *Rewriter) touch() {
	rw.counters.lastUpdated.Store(time.Now().UnixNano())
}

func (rw *Rewriter) record(ctx context.Context, dir Direction, outcome string, size int) {
	switch {
	case outcome == outcomePassthrough:
		rw.counters.passedThrough.Add(1)
	case dir == Incoming:
		rw.counters.requestsRewritten.Add(1)
	default:
		rw.counters.responsesRewritten.Add(1)
	}
	rw.touch()

	if rw.metrics != nil {
		rw.metrics.observe(dir, outcome, size)
	}

	if outcome != outcomeRewritten {
		return
	}

	trace.SpanFromContext(ctx).AddEvent("camelsnake."+dir.eventName()+".rewritten",
		trace.WithAttributes(attribute.Int("camelsnake.body.bytes", size)))

	if rw.config.Debug {
		rw.logger.Debug("Rewrote", dir.eventName(), "body keys,", size, "bytes")
	}
}

func (rw *Rewriter) recordBypass(ctx context.Context) {
	rw.counters.bypassed.Add(1)
	rw.touch()

	if rw.metrics != nil {
		rw.metrics.bypassed.Inc()
	}

	trace.SpanFromContext(ctx).AddEvent("camelsnake.bypassed")

	if rw.config.Debug {
		rw.logger.Debug("Bypassed key rewriting")
	}
}

func (rw *Rewriter) fail(ctx context.Context, err error) {
	rw.counters.failed.Add(1)
	rw.touch()

	dir, _ := DirectionOf(err)
	if rw.metrics != nil {
		rw.metrics.observe(dir, outcomeFailed, 0)
	}

	trace.SpanFromContext(ctx).RecordError(err,
		trace.WithAttributes(attribute.String("camelsnake.direction", dir.String())))

	rw.logger.Warn("Key rewriting failed:", err)
}

func (d Direction) eventName() string {
	if d == Incoming {
		return "request"
	}
	return "response"
}
