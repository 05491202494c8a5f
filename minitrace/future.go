package minitrace

import (
	"context"
	"sync"
)

// Future is a value computed when awaited.
type Future[T any] interface {
	Await(ctx context.Context) (T, error)
}

// FutureFunc adapts a function to Future.
type FutureFunc[T any] func(ctx context.Context) (T, error)

// Await calls f.
func (f FutureFunc[T]) Await(ctx context.Context) (T, error) {
	return f(ctx)
}

// Ready returns a future resolved with v.
func Ready[T any](v T) Future[T] {
	return FutureFunc[T](func(context.Context) (T, error) {
		return v, nil
	})
}

// Chan returns a future resolved with the next value of ch.
func Chan[T any](ch <-chan T) Future[T] {
	return FutureFunc[T](func(ctx context.Context) (T, error) {
		return Await(ctx, ch)
	})
}

// Lazy returns a future computing f on the first Await. Later awaits return
// the same result.
func Lazy[T any](f func(ctx context.Context) (T, error)) Future[T] {
	return &lazy[T]{f: f}
}

type lazy[T any] struct {
	once sync.Once
	f    func(ctx context.Context) (T, error)
	v    T
	err  error
}

func (l *lazy[T]) Await(ctx context.Context) (T, error) {
	l.once.Do(func() {
		l.v, l.err = l.f(ctx)
	})
	return l.v, l.err
}

// Box attaches the span to the future: it starts when the future is first
// awaited and finishes when that await returns.
func Box[T any](s *Span, f Future[T]) Future[T] {
	return &boxed[T]{span: s, inner: f}
}

type boxed[T any] struct {
	span  *Span
	inner Future[T]
}

func (b *boxed[T]) Await(ctx context.Context) (T, error) {
	ctx, task := instrument(ctx, b.span, false)
	defer task.Done()

	return b.inner.Await(ctx)
}
