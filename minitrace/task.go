package minitrace

import (
	"context"
	"sync"
	"time"
)

type taskKey struct{}

// Task is a span attached to a context-aware call. The span follows the call:
// it stops counting while the call is suspended in Suspend, Await or Sleep.
type Task struct {
	span   *Span
	parent *Task
	once   sync.Once
}

// Instrument starts the span for a context-aware call and returns the context
// the call must continue with.
func Instrument(ctx context.Context, s *Span) (context.Context, *Task) {
	return instrument(ctx, s, false)
}

// InstrumentFine is Instrument recording every suspension and resumption as
// span events.
func InstrumentFine(ctx context.Context, s *Span) (context.Context, *Task) {
	return instrument(ctx, s, true)
}

func instrument(ctx context.Context, s *Span, fine bool) (context.Context, *Task) {
	t := &Task{
		span:   s,
		parent: taskFrom(ctx),
	}

	ctx, ok := s.begin(ctx, fine)
	if !ok {
		// The span is taken: the call runs untraced.
		t.span = nil
		return ctx, t
	}

	return context.WithValue(ctx, taskKey{}, t), t
}

// Done finishes the span. Calls after the first one and calls after the span
// was canceled do nothing.
func (t *Task) Done() {
	t.once.Do(func() {
		if t.span != nil {
			t.span.end(false)
		}
	})
}

// Detach returns ctx without the running task. Calls made in other goroutines
// should use it, so their suspensions do not pause the caller's spans. The
// exported span stays the parent of spans started under the new context.
func Detach(ctx context.Context) context.Context {
	if taskFrom(ctx) == nil {
		return ctx
	}

	return context.WithValue(ctx, taskKey{}, (*Task)(nil))
}

func taskFrom(ctx context.Context) *Task {
	t, _ := ctx.Value(taskKey{}).(*Task)
	return t
}

// Suspend marks the calling task and every task it runs under as suspended.
// The returned function resumes them and may be called more than once.
func Suspend(ctx context.Context) (resume func()) {
	var chain []*Span
	for t := taskFrom(ctx); t != nil; t = t.parent {
		if t.span != nil {
			chain = append(chain, t.span)
		}
	}
	if len(chain) == 0 {
		return func() {}
	}

	for _, s := range chain {
		s.suspend()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(chain) - 1; i >= 0; i-- {
				chain[i].resume()
			}
		})
	}
}

// Await waits for a value from ch with the calling task suspended. When ctx
// is done first the task's span ends as canceled and ctx.Err() is returned.
// A closed channel yields the zero value.
func Await[T any](ctx context.Context, ch <-chan T) (T, error) {
	resume := Suspend(ctx)
	defer resume()

	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		cancelTask(ctx)
		var zero T
		return zero, ctx.Err()
	}
}

// Sleep pauses the calling task for d measured by the configured clock.
func Sleep(ctx context.Context, d time.Duration) error {
	_, err := Await(ctx, currentClock().After(d))
	return err
}

func cancelTask(ctx context.Context) {
	if t := taskFrom(ctx); t != nil && t.span != nil {
		t.span.end(true)
	}
}
