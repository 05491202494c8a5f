package minitrace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/clockz"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T, c clockz.Clock) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	SetTracerProvider(tp)
	SetClock(c)
	t.Cleanup(func() {
		SetTracerProvider(nil)
		SetClock(nil)
		_ = tp.Shutdown(context.Background())
	})

	return sr
}

func attrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	res := map[attribute.Key]attribute.Value{}
	for _, kv := range s.Attributes() {
		res[kv.Key] = kv.Value
	}
	return res
}

func activeTime(s sdktrace.ReadOnlySpan) time.Duration {
	return time.Duration(attrs(s)[AttrActiveNanos].AsInt64())
}

func eventNames(s sdktrace.ReadOnlySpan) []string {
	var res []string
	for _, e := range s.Events() {
		res = append(res, e.Name)
	}
	return res
}

func TestSyncSpan(t *testing.T) {
	clock := clockz.NewFakeClockAt(epoch)
	sr := setup(t, clock)

	add := func(a, b int) int {
		spanwrapSpan := NewSpan(uint32(7))
		spanwrapGuard := spanwrapSpan.Enter()
		defer spanwrapGuard.Exit()
		clock.Advance(5 * time.Millisecond)
		return a + b
	}

	require.Equal(t, 5, add(2, 3))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, "minitrace/7", s.Name())
	assert.Equal(t, int64(7), attrs(s)[AttrCategory].AsInt64())
	assert.Equal(t, 5*time.Millisecond, activeTime(s))
	assert.Equal(t, int64(0), attrs(s)[AttrSuspensions].AsInt64())
	assert.False(t, attrs(s)[AttrCanceled].AsBool())
	assert.Equal(t, epoch, s.StartTime())
	assert.Equal(t, epoch.Add(5*time.Millisecond), s.EndTime())
}

func TestSyncSpan_Unwinding(t *testing.T) {
	sr := setup(t, clockz.NewFakeClockAt(epoch))

	abs := func(x int) int {
		spanwrapSpan := NewSpan(uint32(1))
		spanwrapGuard := spanwrapSpan.Enter()
		defer spanwrapGuard.Exit()
		if x < 0 {
			return -x
		}
		return x
	}
	mustPositive := func(x int) int {
		spanwrapSpan := NewSpan(uint32(2))
		spanwrapGuard := spanwrapSpan.Enter()
		defer spanwrapGuard.Exit()
		if x <= 0 {
			panic("not positive")
		}
		return x
	}

	assert.Equal(t, 3, abs(-3))
	assert.Panics(t, func() { mustPositive(0) })

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "minitrace/1", spans[0].Name())
	assert.Equal(t, "minitrace/2", spans[1].Name())
}

func TestSpan_StartsOnce(t *testing.T) {
	sr := setup(t, clockz.NewFakeClockAt(epoch))

	s := NewSpan(4)
	g := s.Enter()
	again := s.Enter()
	again.Exit()
	assert.False(t, s.Finished(), "second guard must not end the span")
	g.Exit()
	g.Exit()

	assert.True(t, s.Finished())
	assert.Len(t, sr.Ended(), 1)
}

func TestInstrument(t *testing.T) {
	clock := clockz.NewFakeClockAt(epoch)
	sr := setup(t, clock)

	fetch := func(ctx context.Context, id int) (string, error) {
		spanwrapSpan := NewSpan(uint32(3))
		ctx, spanwrapTask := Instrument(ctx, spanwrapSpan)
		defer spanwrapTask.Done()

		clock.Advance(10 * time.Millisecond)
		resume := Suspend(ctx)
		clock.Advance(100 * time.Millisecond)
		resume()
		clock.Advance(5 * time.Millisecond)
		return "item", nil
	}

	v, err := fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "item", v)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, "minitrace/3", s.Name())
	assert.Equal(t, 15*time.Millisecond, activeTime(s))
	assert.Equal(t, int64(1), attrs(s)[AttrSuspensions].AsInt64())
	assert.Equal(t, 115*time.Millisecond, s.EndTime().Sub(s.StartTime()))
	assert.Empty(t, s.Events())
}

func TestInstrumentFine(t *testing.T) {
	clock := clockz.NewFakeClockAt(epoch)
	sr := setup(t, clock)

	ctx, task := InstrumentFine(context.Background(), NewSpan(3))
	for range 2 {
		clock.Advance(time.Millisecond)
		resume := Suspend(ctx)
		clock.Advance(10 * time.Millisecond)
		resume()
		resume()
	}
	task.Done()
	task.Done()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, []string{EventSuspend, EventResume, EventSuspend, EventResume}, eventNames(s))
	assert.Equal(t, epoch.Add(time.Millisecond), s.Events()[0].Time)
	assert.Equal(t, epoch.Add(11*time.Millisecond), s.Events()[1].Time)
	assert.Equal(t, 2*time.Millisecond, activeTime(s))
	assert.Equal(t, int64(2), attrs(s)[AttrSuspensions].AsInt64())
}

func TestInstrument_Nested(t *testing.T) {
	clock := clockz.NewFakeClockAt(epoch)
	sr := setup(t, clock)

	child := func(ctx context.Context) {
		ctx, task := Instrument(ctx, NewSpan(2))
		defer task.Done()

		clock.Advance(time.Millisecond)
		resume := Suspend(ctx)
		clock.Advance(50 * time.Millisecond)
		resume()
	}

	ctx, task := Instrument(context.Background(), NewSpan(1))
	clock.Advance(time.Millisecond)
	child(ctx)
	task.Done()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	inner, outer := spans[0], spans[1]
	assert.Equal(t, "minitrace/2", inner.Name())
	assert.Equal(t, "minitrace/1", outer.Name())
	assert.Equal(t, outer.SpanContext().SpanID(), inner.Parent().SpanID())
	assert.Equal(t, time.Millisecond, activeTime(inner))
	assert.Equal(t, 2*time.Millisecond, activeTime(outer), "suspension of the child suspends the parent")
}

func TestDetach(t *testing.T) {
	clock := clockz.NewFakeClockAt(epoch)
	sr := setup(t, clock)

	ctx, task := Instrument(context.Background(), NewSpan(1))
	detached := Detach(ctx)
	resume := Suspend(detached)
	clock.Advance(10 * time.Millisecond)
	resume()
	task.Done()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, 10*time.Millisecond, activeTime(spans[0]))
	assert.Equal(t, int64(0), attrs(spans[0])[AttrSuspensions].AsInt64())
}

func TestSuspend_Overlapping(t *testing.T) {
	clock := clockz.NewFakeClockAt(epoch)
	sr := setup(t, clock)

	span := NewSpan(1)
	ctx, task := InstrumentFine(context.Background(), span)
	outer := Suspend(ctx)
	inner := Suspend(ctx)
	clock.Advance(time.Second)
	inner()
	assert.Equal(t, time.Duration(0), span.Active(), "span must stay paused while the outer suspension lasts")
	clock.Advance(time.Second)
	outer()
	clock.Advance(time.Second)
	last := Suspend(ctx)
	clock.Advance(10 * time.Second)
	last()
	task.Done()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, time.Second, activeTime(s))
	assert.Equal(t, int64(2), attrs(s)[AttrSuspensions].AsInt64())
	assert.Equal(t, []string{EventSuspend, EventResume, EventSuspend, EventResume}, eventNames(s))
	assert.Equal(t, epoch.Add(2*time.Second), s.Events()[1].Time)
}

func TestSuspend_ConcurrentAwaits(t *testing.T) {
	clock := clockz.NewFakeClockAt(epoch)
	sr := setup(t, clock)

	span := NewSpan(1)
	ctx, task := Instrument(context.Background(), span)

	first, second := make(chan int), make(chan int)
	results := make(chan int, 2)
	for _, ch := range []chan int{first, second} {
		go func() {
			v, _ := Await(ctx, ch)
			results <- v
		}()
	}
	require.Eventually(t, func() bool {
		span.mu.Lock()
		defer span.mu.Unlock()
		return span.depth == 2
	}, time.Second, time.Millisecond)

	first <- 1
	<-results
	clock.Advance(time.Millisecond)
	second <- 2
	<-results

	resume := Suspend(ctx)
	clock.Advance(time.Second)
	resume()
	task.Done()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, time.Duration(0), activeTime(spans[0]), "time of suspensions must not be counted")
	assert.Equal(t, int64(2), attrs(spans[0])[AttrSuspensions].AsInt64())
}

func TestEnter_RootSpan(t *testing.T) {
	sr := setup(t, clockz.NewFakeClockAt(epoch))

	_, task := Instrument(context.Background(), NewSpan(1))
	g := NewSpan(2).Enter()
	g.Exit()
	task.Done()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "minitrace/2", spans[0].Name())
	assert.False(t, spans[0].Parent().IsValid(), "synchronous spans have no parent")
}

func TestAwait(t *testing.T) {
	sr := setup(t, clockz.NewFakeClockAt(epoch))

	ch := make(chan int)
	go func() { ch <- 42 }()

	ctx, task := Instrument(context.Background(), NewSpan(5))
	v, err := Await(ctx, ch)
	task.Done()

	require.NoError(t, err)
	assert.Equal(t, 42, v)
	require.Len(t, sr.Ended(), 1)
	assert.Equal(t, int64(1), attrs(sr.Ended()[0])[AttrSuspensions].AsInt64())

	// No task in the context.
	closed := make(chan string)
	close(closed)
	s, err := Await(context.Background(), closed)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestAwait_Canceled(t *testing.T) {
	clock := clockz.NewFakeClockAt(epoch)
	sr := setup(t, clock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	span := NewSpan(8)
	ctx, task := Instrument(ctx, span)
	clock.Advance(3 * time.Millisecond)
	_, err := Await(ctx, make(chan struct{}))
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, span.Finished())

	clock.Advance(time.Second)
	resume := Suspend(ctx)
	resume()
	task.Done()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.True(t, attrs(s)[AttrCanceled].AsBool())
	assert.Equal(t, codes.Error, s.Status().Code)
	assert.Equal(t, 3*time.Millisecond, activeTime(s))
	assert.Equal(t, epoch.Add(3*time.Millisecond), s.EndTime())
}

func TestSleep(t *testing.T) {
	sr := setup(t, nil)

	ctx, task := Instrument(context.Background(), NewSpan(6))
	require.NoError(t, Sleep(ctx, time.Millisecond))
	task.Done()
	require.Len(t, sr.Ended(), 1)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	err := Sleep(canceled, time.Hour)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBox(t *testing.T) {
	clock := clockz.NewFakeClockAt(epoch)
	sr := setup(t, clock)

	computed := false
	load := func(id int) Future[int] {
		spanwrapSpan := NewSpan(uint32(9))
		return Box(spanwrapSpan, func() Future[int] {
			return Lazy(func(ctx context.Context) (int, error) {
				computed = true
				clock.Advance(4 * time.Millisecond)
				resume := Suspend(ctx)
				clock.Advance(20 * time.Millisecond)
				resume()
				return id * 2, nil
			})
		}())
	}

	f := load(21)
	clock.Advance(time.Second)
	assert.False(t, computed)
	assert.Empty(t, sr.Ended(), "span must not start before the future is awaited")

	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, "minitrace/9", s.Name())
	assert.Equal(t, epoch.Add(time.Second), s.StartTime())
	assert.Equal(t, 4*time.Millisecond, activeTime(s))
	assert.Empty(t, s.Events())
}

func TestBox_Chan(t *testing.T) {
	clock := clockz.NewFakeClockAt(epoch)
	sr := setup(t, clock)

	ch := make(chan string, 1)
	ch <- "ready"
	f := Box(NewSpan(9), Chan(ch))

	ctx, task := Instrument(context.Background(), NewSpan(1))
	v, err := f.Await(ctx)
	task.Done()
	require.NoError(t, err)
	assert.Equal(t, "ready", v)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	boxed, outer := spans[0], spans[1]
	assert.Equal(t, "minitrace/9", boxed.Name())
	assert.Equal(t, outer.SpanContext().SpanID(), boxed.Parent().SpanID())
	assert.Equal(t, int64(1), attrs(boxed)[AttrSuspensions].AsInt64())
	assert.Empty(t, boxed.Events())
}

func TestFutures(t *testing.T) {
	setup(t, clockz.NewFakeClockAt(epoch))

	v, err := Ready("x").Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	calls := 0
	l := Lazy(func(context.Context) (int, error) {
		calls++
		return 0, errors.New("boom")
	})
	_, err = l.Await(context.Background())
	require.EqualError(t, err, "boom")
	_, err = l.Await(context.Background())
	require.EqualError(t, err, "boom")
	assert.Equal(t, 1, calls)

	var f Future[int] = FutureFunc[int](func(ctx context.Context) (int, error) {
		return 1, ctx.Err()
	})
	n, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
