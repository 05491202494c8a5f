package minitrace

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span measures the time a computation of one category is running. It is
// created idle; the first Enter, Instrument or Box await starts it and it
// finishes once, on Exit, Done or cancellation. Further starts are ignored.
type Span struct {
	category uint32

	mu          sync.Mutex
	otel        trace.Span
	started     bool
	finished    bool
	canceled    bool
	fine        bool
	depth       int
	since       time.Time
	active      time.Duration
	suspensions int
}

// NewSpan creates an idle span of the given category.
func NewSpan(category uint32) *Span {
	return &Span{category: category}
}

// Category returns the span category.
func (s *Span) Category() uint32 {
	return s.category
}

// Guard keeps a synchronous span running until Exit.
type Guard struct {
	span *Span
	once sync.Once
}

// Enter starts the span for the duration of a synchronous call. A synchronous
// call has no context to take a parent from, so the exported span is always a
// root span, even when the call runs inside an instrumented context-aware one.
func (s *Span) Enter() *Guard {
	if _, ok := s.begin(context.Background(), false); !ok {
		return &Guard{}
	}
	return &Guard{span: s}
}

// Exit finishes the span. Calls after the first one do nothing.
func (g *Guard) Exit() {
	g.once.Do(func() {
		if g.span != nil {
			g.span.end(false)
		}
	})
}

// begin starts the span under the parent of ctx and marks it running. It
// returns the context carrying the exported span, or ctx and false when the
// span was started already.
func (s *Span) begin(ctx context.Context, fine bool) (context.Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ctx, false
	}

	t := now()
	ctx, s.otel = tracer().Start(
		ctx,
		"minitrace/"+strconv.FormatUint(uint64(s.category), 10),
		trace.WithTimestamp(t),
		trace.WithAttributes(attribute.Int64(AttrCategory, int64(s.category))),
	)
	s.started = true
	s.fine = fine
	s.since = t

	return ctx, true
}

// suspend stops counting active time until the matching resume. Suspensions
// nest: only the outermost one stops the clock and counts.
func (s *Span) suspend() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.finished {
		return
	}

	s.depth++
	if s.depth > 1 {
		return
	}

	t := now()
	s.active += t.Sub(s.since)
	s.suspensions++
	if s.fine {
		s.otel.AddEvent(EventSuspend, trace.WithTimestamp(t))
	}
}

func (s *Span) resume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.finished || s.depth == 0 {
		return
	}

	s.depth--
	if s.depth > 0 {
		return
	}

	t := now()
	s.since = t
	if s.fine {
		s.otel.AddEvent(EventResume, trace.WithTimestamp(t))
	}
}

// end finishes and exports the span.
func (s *Span) end(canceled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.finished {
		return
	}

	t := now()
	if s.depth == 0 {
		s.active += t.Sub(s.since)
	}
	s.finished = true
	s.canceled = canceled

	s.otel.SetAttributes(
		attribute.Int64(AttrActiveNanos, s.active.Nanoseconds()),
		attribute.Int(AttrSuspensions, s.suspensions),
		attribute.Bool(AttrCanceled, canceled),
	)
	if canceled {
		s.otel.SetStatus(codes.Error, "canceled")
	}
	s.otel.End(trace.WithTimestamp(t))
}

// Active returns the time the span has been running so far.
func (s *Span) Active() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started && !s.finished && s.depth == 0 {
		return s.active + now().Sub(s.since)
	}
	return s.active
}

// Finished reports whether the span has ended.
func (s *Span) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}
