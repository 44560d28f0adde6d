package job_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"coopq/internal/job"
	"coopq/internal/sched"
)

func TestParentKillsChild(t *testing.T) {
	defer goleak.VerifyNone(t)

	var out bytes.Buffer
	s := sched.New()
	defer s.Close()

	parent := s.NewTask(job.Parent(&out, 6, 3))
	s.Run()

	assert.Equal(t, sched.TaskID(1), parent)
	assert.Empty(t, s.Tasks())
	assert.Empty(t, s.Ready())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		"Parent task 1 iteration 1.",
		"Child task 2 still alive!",
		"Parent task 1 iteration 2.",
		"Child task 2 still alive!",
		"Parent task 1 iteration 3.",
		"Child task 2 still alive!",
		"Parent task 1 iteration 4.",
		"Parent task 1 iteration 5.",
		"Parent task 1 iteration 6.",
	}, lines)
	assert.Equal(t, 3, strings.Count(out.String(), "Child task"))
}

func TestParentWithoutKillIsCutOffByContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	var out bytes.Buffer
	s := sched.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	parent := s.NewTask(job.Parent(&out, 2, 0))
	s.Subscribe(func(ev sched.StatusEvent) {
		if ev.Kind == sched.StatusFinish && ev.TaskID == parent {
			cancel()
		}
	})

	// The child never ends, so the run only stops through ctx.
	err := s.RunContext(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []sched.TaskID{2}, s.Tasks())
	assert.Equal(t, []sched.TaskID{2}, s.Ready())

	require.NoError(t, s.Close())
	assert.Empty(t, s.Tasks())
}

func TestOutOfRangeKillAtStillDrains(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("demo:\n  iterations: 2\n  kill_at: 7\n"), 0o644))
	cfg, err := job.LoadDemo(path)
	require.NoError(t, err)

	var out bytes.Buffer
	s := sched.New()
	defer s.Close()

	s.NewTask(job.Parent(&out, cfg.Iterations, cfg.KillAt))
	s.Run()

	assert.Empty(t, s.Tasks())
	assert.Equal(t, 2, strings.Count(out.String(), "Child task"))
}

func TestTicker(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := sched.New()
	defer s.Close()

	var got []int
	id := s.NewTask(job.Ticker(3, func(_ sched.TaskID, i int) { got = append(got, i) }))
	s.NewTask(job.Spinner(2))
	s.Run()

	assert.Equal(t, sched.TaskID(1), id)
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Empty(t, s.Tasks())
}
