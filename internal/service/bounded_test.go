package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBounded_Completes(t *testing.T) {
	const timeout = 400 * time.Millisecond

	res := RunBounded(context.Background(), timeout, func(ctx context.Context) (string, error) {
		time.Sleep(timeout / 2)
		return "out.mp4", nil
	})

	require.True(t, res.Completed)
	assert.False(t, res.TimedOut)
	assert.False(t, res.Canceled)
	assert.Equal(t, "out.mp4", res.Value)
	assert.NoError(t, res.Err)
	assert.GreaterOrEqual(t, res.Elapsed, timeout/2)
	assert.Less(t, res.Elapsed, timeout)
}

func TestRunBounded_WorkError(t *testing.T) {
	boom := errors.New("boom")
	res := RunBounded(context.Background(), time.Second, func(context.Context) (int, error) {
		return 0, boom
	})

	require.True(t, res.Completed)
	assert.ErrorIs(t, res.Err, boom)
}

func TestRunBounded_TimesOutOnHang(t *testing.T) {
	const timeout = 100 * time.Millisecond
	release := make(chan struct{})
	defer close(release)

	start := time.Now()
	res := RunBounded(context.Background(), timeout, func(context.Context) (struct{}, error) {
		// Ignores its context entirely.
		<-release
		return struct{}{}, nil
	})

	require.True(t, res.TimedOut)
	assert.False(t, res.Completed)
	assert.False(t, res.Canceled)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, time.Since(start), timeout)
	assert.Less(t, time.Since(start), timeout+time.Second)
}

func TestRunBounded_WorkSeesDeadline(t *testing.T) {
	seen := make(chan error, 1)
	res := RunBounded(context.Background(), 50*time.Millisecond, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		seen <- ctx.Err()
		return 0, ctx.Err()
	})

	require.True(t, res.TimedOut)
	select {
	case err := <-seen:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("work never observed its deadline")
	}
}

func TestRunBounded_ParentCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	res := RunBounded(ctx, time.Minute, func(wctx context.Context) (int, error) {
		<-wctx.Done()
		time.Sleep(10 * time.Millisecond)
		return 0, wctx.Err()
	})

	require.True(t, res.Canceled)
	assert.False(t, res.TimedOut)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestRunBounded_ContextErrorReturnedAtDeadlineIsTimeout(t *testing.T) {
	workCtx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-workCtx.Done()

	res := finished(context.Background(), workCtx, "", fmt.Errorf("render: %w", workCtx.Err()), time.Now())

	assert.True(t, res.TimedOut)
	assert.False(t, res.Completed)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
}

func TestRunBounded_ContextErrorAfterParentCancelIsCanceled(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	workCtx, cancel := context.WithTimeout(parent, time.Hour)
	defer cancel()
	cancelParent()

	res := finished(parent, workCtx, "", context.Canceled, time.Now())

	assert.True(t, res.Canceled)
	assert.False(t, res.Completed)
}

func TestRunBounded_UnrelatedErrorBeforeDeadlineCompletes(t *testing.T) {
	workCtx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	res := finished(context.Background(), workCtx, "", context.DeadlineExceeded, time.Now())

	assert.True(t, res.Completed, "a live deadline means the error came from the work itself")
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
}
