package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"codenerd/internal/tools"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSpawn_AwaitReturnsResult(t *testing.T) {
	s := New()
	runFn := func(ctx context.Context, prompt string, taskCtx any, toolsFilter []string) (any, error) {
		return "result-for-" + prompt, nil
	}

	id := s.Spawn(context.Background(), "do the thing", runFn, nil, tools.ProfileEditor)
	assert.Contains(t, id, "task-")

	result, err := s.Await(id)
	require.NoError(t, err)
	assert.Equal(t, "result-for-do the thing", result)
}

func TestSpawn_IDsAreUnique(t *testing.T) {
	s := New()
	runFn := func(ctx context.Context, prompt string, taskCtx any, toolsFilter []string) (any, error) {
		return nil, nil
	}
	id1 := s.Spawn(context.Background(), "a", runFn, nil, tools.ProfileAll)
	id2 := s.Spawn(context.Background(), "b", runFn, nil, tools.ProfileAll)
	assert.NotEqual(t, id1, id2)
}

func TestStatus_NonBlockingAndIdempotent(t *testing.T) {
	s := New()
	release := make(chan struct{})
	runFn := func(ctx context.Context, prompt string, taskCtx any, toolsFilter []string) (any, error) {
		<-release
		return "done", nil
	}

	id := s.Spawn(context.Background(), "p", runFn, nil, tools.ProfileAll)

	report, ok := s.Status(id)
	require.True(t, ok)
	assert.Equal(t, StatusRunning, report.Status)

	close(release)
	_, err := s.Await(id)
	require.NoError(t, err)

	report, ok = s.Status(id)
	require.True(t, ok)
	assert.Equal(t, StatusDone, report.Status)
	assert.Equal(t, "done", report.Result)

	// Idempotent repeat query.
	report2, ok := s.Status(id)
	require.True(t, ok)
	assert.Equal(t, report, report2)
}

func TestAwait_PropagatesWorkerError(t *testing.T) {
	s := New()
	runFn := func(ctx context.Context, prompt string, taskCtx any, toolsFilter []string) (any, error) {
		return nil, fmt.Errorf("boom")
	}
	id := s.Spawn(context.Background(), "p", runFn, nil, tools.ProfileAll)

	_, err := s.Await(id)
	assert.EqualError(t, err, "boom")

	report, _ := s.Status(id)
	assert.Equal(t, StatusError, report.Status)
}

func TestCancel_TransitionsToErrorCancelled(t *testing.T) {
	s := New()
	runFn := func(ctx context.Context, prompt string, taskCtx any, toolsFilter []string) (any, error) {
		<-ctx.Done()
		return nil, nil
	}
	id := s.Spawn(context.Background(), "p", runFn, nil, tools.ProfileAll)

	time.Sleep(10 * time.Millisecond)
	s.Cancel(id)

	_, err := s.Await(id)
	assert.EqualError(t, err, "cancelled")
}

func TestSpawn_WorkerPanicConvertsToError(t *testing.T) {
	s := New()
	runFn := func(ctx context.Context, prompt string, taskCtx any, toolsFilter []string) (any, error) {
		panic("worker exploded")
	}
	id := s.Spawn(context.Background(), "p", runFn, nil, tools.ProfileAll)

	_, err := s.Await(id)
	assert.Error(t, err)
	report, _ := s.Status(id)
	assert.Equal(t, StatusError, report.Status)
}

func TestSpawn_ToolsFilterMatchesProfile(t *testing.T) {
	s := New()
	var seenFilter []string
	runFn := func(ctx context.Context, prompt string, taskCtx any, toolsFilter []string) (any, error) {
		seenFilter = toolsFilter
		return nil, nil
	}
	id := s.Spawn(context.Background(), "p", runFn, nil, tools.ProfileEditor)
	_, err := s.Await(id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"read", "write", "patch", "preview-diff", "list-dir"}, seenFilter)
}
