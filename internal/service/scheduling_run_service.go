package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/match-scheduler-gateway/internal/models"
	"github.com/noah-isme/match-scheduler-gateway/pkg/jobs"
)

const schedulingRunJobType = "scheduling_run"

type schedulingRunRepository interface {
	Create(ctx context.Context, run *models.SchedulingRun) error
	ListByStage(ctx context.Context, stageID string, limit, offset int) ([]models.SchedulingRun, int, error)
}

type runQueue interface {
	TryEnqueue(job jobs.Job) error
}

type dbObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// SchedulingRunService records submission attempts off the request path.
type SchedulingRunService struct {
	repo    schedulingRunRepository
	queue   runQueue
	metrics dbObserver
	logger  *zap.Logger
}

// NewSchedulingRunService constructs the service. Without a queue runs are written inline.
func NewSchedulingRunService(repo schedulingRunRepository, queue runQueue, metrics dbObserver, logger *zap.Logger) *SchedulingRunService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchedulingRunService{repo: repo, queue: queue, metrics: metrics, logger: logger}
}

// AttachQueue sets the queue once it has been built around HandleJob.
func (s *SchedulingRunService) AttachQueue(queue runQueue) {
	s.queue = queue
}

// Record schedules the run for persistence. Failures are logged, never returned.
func (s *SchedulingRunService) Record(ctx context.Context, run models.SchedulingRun) {
	if s.queue == nil {
		if err := s.persist(ctx, &run); err != nil {
			s.logger.Error("failed to store scheduling run", zap.String("run_id", run.ID), zap.Error(err))
		}
		return
	}
	if err := s.queue.TryEnqueue(jobs.Job{ID: run.ID, Type: schedulingRunJobType, Payload: run}); err != nil {
		s.logger.Warn("dropping scheduling run", zap.String("run_id", run.ID), zap.String("stage_id", run.StageID), zap.Error(err))
	}
}

// HandleJob is the queue handler.
func (s *SchedulingRunService) HandleJob(ctx context.Context, job jobs.Job) error {
	run, ok := job.Payload.(models.SchedulingRun)
	if !ok {
		return fmt.Errorf("unexpected payload %T for job %s", job.Payload, job.ID)
	}
	return s.persist(ctx, &run)
}

// ListByStage returns a page of runs for a stage, newest first.
func (s *SchedulingRunService) ListByStage(ctx context.Context, stageID string, page, pageSize int) ([]models.SchedulingRun, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	start := time.Now()
	runs, total, err := s.repo.ListByStage(ctx, stageID, pageSize, (page-1)*pageSize)
	s.observe("scheduling_runs.list", start)
	if err != nil {
		return nil, nil, err
	}
	if runs == nil {
		runs = []models.SchedulingRun{}
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return runs, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total, TotalPages: totalPages}, nil
}

func (s *SchedulingRunService) persist(ctx context.Context, run *models.SchedulingRun) error {
	start := time.Now()
	err := s.repo.Create(ctx, run)
	s.observe("scheduling_runs.create", start)
	return err
}

func (s *SchedulingRunService) observe(label string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveDBQuery(label, time.Since(start))
	}
}
