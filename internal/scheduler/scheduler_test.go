package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"logify/internal/pkg/config"
)

type stubCounter struct {
	fixed int
	err   error
	calls int
}

func (s *stubCounter) Reconcile(ctx context.Context) (int, error) {
	s.calls++
	_, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return 0, errors.New("missing deadline")
	}
	return s.fixed, s.err
}

func TestScheduler_StartRegistersReconcile(t *testing.T) {
	s := NewScheduler(&stubCounter{}, zap.NewNop())
	require.NoError(t, s.Start(&config.SchedulerConfig{}))
	defer s.Stop()

	entries := s.Entries()
	require.Contains(t, entries, jobReconcile)
	assert.NotZero(t, entries[jobReconcile])
}

func TestScheduler_InvalidCron(t *testing.T) {
	s := NewScheduler(&stubCounter{}, zap.NewNop())
	assert.Error(t, s.Start(&config.SchedulerConfig{ReconcileCron: "every day"}))
	assert.Empty(t, s.Entries())
}

func TestScheduler_TriggerReconcile(t *testing.T) {
	counter := &stubCounter{fixed: 2}
	s := NewScheduler(counter, zap.NewNop())

	fixed, err := s.TriggerReconcile()
	require.NoError(t, err)
	assert.Equal(t, 2, fixed)
	assert.Equal(t, 1, counter.calls)

	counter.err = errors.New("db down")
	_, err = s.TriggerReconcile()
	assert.EqualError(t, err, "db down")
}
