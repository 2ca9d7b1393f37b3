package respond

import (
	"context"
	"fmt"
)

// Future holds the eventual result of an asynchronous computation.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go runs fn in a new goroutine and returns a Future for its result. A
// panic in fn resolves the Future with an error wrapping [ErrPanic].
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("%w: %v", ErrPanic, r)
			}
		}()
		f.val, f.err = fn(ctx)
	}()
	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Await blocks until the result is available or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then calls cb with the result once it is available, on its own
// goroutine. It is the callback form of [Future.Await].
func (f *Future[T]) Then(cb func(T, error)) {
	go func() {
		<-f.done
		cb(f.val, f.err)
	}()
}

// RenderAsync runs a.Render on a new goroutine.
func RenderAsync(ctx context.Context, a Adapter, data any, opts ...Option) *Future[any] {
	return Go(ctx, func(ctx context.Context) (any, error) {
		return a.Render(ctx, data, opts...)
	})
}

// ErrorAsync runs a.Error on a new goroutine.
func ErrorAsync(ctx context.Context, a Adapter, err any, opts ...Option) *Future[any] {
	return Go(ctx, func(ctx context.Context) (any, error) {
		return a.Error(ctx, err, opts...)
	})
}
