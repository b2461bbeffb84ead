package service

import (
	"context"
	"errors"
	"time"
)

// BoundedResult is the outcome of RunBounded. Exactly one of Completed,
// TimedOut or Canceled is true.
type BoundedResult[T any] struct {
	Completed bool
	TimedOut  bool
	Canceled  bool
	Value     T
	Err       error
	Elapsed   time.Duration
}

// RunBounded runs work on its own goroutine and waits at most timeout for it.
//
// On timeout the context passed to work is canceled and RunBounded returns
// immediately without waiting. The result channel is buffered, so the
// goroutine exits as soon as work returns; work that ignores its context
// and never returns leaks that one goroutine.
//
// If the parent ctx ends first the result is Canceled rather than TimedOut.
func RunBounded[T any](ctx context.Context, timeout time.Duration, work func(context.Context) (T, error)) BoundedResult[T] {
	type outcome struct {
		value T
		err   error
	}

	start := time.Now()
	workCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		v, err := work(workCtx)
		done <- outcome{value: v, err: err}
	}()

	select {
	case out := <-done:
		return finished(ctx, workCtx, out.value, out.err, start)
	case <-workCtx.Done():
		return expired[T](ctx, workCtx.Err(), start)
	}
}

// finished classifies work that returned. work may return the context error
// just as the deadline fires and win the select; that is still an expiry.
func finished[T any](ctx, workCtx context.Context, value T, err error, start time.Time) BoundedResult[T] {
	if werr := workCtx.Err(); werr != nil && errors.Is(err, werr) {
		return expired[T](ctx, werr, start)
	}
	return BoundedResult[T]{Completed: true, Value: value, Err: err, Elapsed: time.Since(start)}
}

func expired[T any](ctx context.Context, werr error, start time.Time) BoundedResult[T] {
	res := BoundedResult[T]{Elapsed: time.Since(start), Err: werr}
	if ctx.Err() != nil {
		res.Canceled = true
		res.Err = ctx.Err()
		return res
	}
	res.TimedOut = true
	return res
}
