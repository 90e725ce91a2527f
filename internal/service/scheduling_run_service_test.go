package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/match-scheduler-gateway/internal/models"
	"github.com/noah-isme/match-scheduler-gateway/pkg/jobs"
)

type fakeRunRepo struct {
	mu        sync.Mutex
	created   []models.SchedulingRun
	createErr error
	listed    []models.SchedulingRun
	total     int
	limit     int
	offset    int
}

func (f *fakeRunRepo) Create(ctx context.Context, run *models.SchedulingRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *run)
	return nil
}

func (f *fakeRunRepo) ListByStage(ctx context.Context, stageID string, limit, offset int) ([]models.SchedulingRun, int, error) {
	f.limit, f.offset = limit, offset
	return f.listed, f.total, nil
}

func (f *fakeRunRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

type rejectingQueue struct{}

func (rejectingQueue) TryEnqueue(jobs.Job) error { return jobs.ErrQueueFull }

func TestSchedulingRunServiceWritesInlineWithoutQueue(t *testing.T) {
	repo := &fakeRunRepo{}
	svc := NewSchedulingRunService(repo, nil, nil, nil)

	svc.Record(context.Background(), models.SchedulingRun{ID: "run-1", StageID: "stage-1"})

	require.Equal(t, 1, repo.count())
	assert.Equal(t, "run-1", repo.created[0].ID)
}

func TestSchedulingRunServiceWritesThroughQueue(t *testing.T) {
	repo := &fakeRunRepo{}
	svc := NewSchedulingRunService(repo, nil, nil, nil)
	queue := jobs.NewQueue("runs", svc.HandleJob, jobs.QueueConfig{Workers: 1})
	svc.AttachQueue(queue)
	queue.Start(context.Background())

	svc.Record(context.Background(), models.SchedulingRun{ID: "run-1", Outcome: models.SchedulingRunFailed})
	svc.Record(context.Background(), models.SchedulingRun{ID: "run-2", Outcome: models.SchedulingRunSucceeded})
	queue.Stop(context.Background())

	assert.Equal(t, 2, repo.count())
}

func TestSchedulingRunServiceDropsWhenQueueFull(t *testing.T) {
	repo := &fakeRunRepo{}
	svc := NewSchedulingRunService(repo, rejectingQueue{}, nil, nil)

	svc.Record(context.Background(), models.SchedulingRun{ID: "run-1"})

	assert.Equal(t, 0, repo.count())
}

func TestSchedulingRunServiceHandleJobRejectsForeignPayload(t *testing.T) {
	svc := NewSchedulingRunService(&fakeRunRepo{}, nil, nil, nil)

	err := svc.HandleJob(context.Background(), jobs.Job{ID: "job-1", Payload: "not a run"})
	require.Error(t, err)
}

func TestSchedulingRunServiceHandleJobSurfacesRepoError(t *testing.T) {
	repo := &fakeRunRepo{createErr: errors.New("db down")}
	svc := NewSchedulingRunService(repo, nil, nil, nil)

	err := svc.HandleJob(context.Background(), jobs.Job{ID: "run-1", Payload: models.SchedulingRun{ID: "run-1"}})
	require.EqualError(t, err, "db down")
}

func TestSchedulingRunServiceListByStagePaginates(t *testing.T) {
	repo := &fakeRunRepo{total: 45, listed: []models.SchedulingRun{{ID: "run-1", CreatedAt: time.Now()}}}
	svc := NewSchedulingRunService(repo, nil, nil, nil)

	runs, pagination, err := svc.ListByStage(context.Background(), "stage-1", 3, 20)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 20, repo.limit)
	assert.Equal(t, 40, repo.offset)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.Equal(t, 45, pagination.TotalCount)
}
