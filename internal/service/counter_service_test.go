package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logify/internal/model"
	"logify/pkg/constants"
)

func TestCounterService_Reconcile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "a@x.com")
	drifted := f.project(t, admin, "Drifted")
	healthy := f.project(t, admin, "Healthy")
	f.task(t, admin, drifted.ID, "A", constants.TaskStatusCompleted)
	f.task(t, admin, drifted.ID, "B", "")
	f.task(t, admin, drifted.ID, "C", "")
	f.task(t, admin, healthy.ID, "D", "")

	fixed, err := f.counters.Reconcile(ctx)
	require.NoError(t, err)
	assert.Zero(t, fixed)

	require.NoError(t, f.db.Model(&model.Project{}).Where("id = ?", drifted.ID).
		Updates(map[string]interface{}{"task_total": 9, "task_completed": 9, "progress": 100}).Error)

	fixed, err = f.counters.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)

	got, err := f.projects.Get(ctx, admin, drifted.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TaskTotal)
	assert.Equal(t, 1, got.TaskCompleted)
	assert.Equal(t, 33, got.Progress)

	fixed, err = f.counters.Reconcile(ctx)
	require.NoError(t, err)
	assert.Zero(t, fixed)
}
