package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"alfredoptarigan/career-guide/internal/models"
)

type recordingAnalysisService struct {
	mu   sync.Mutex
	runs []uuid.UUID
}

func (r *recordingAnalysisService) Run(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, id)
	return nil
}

func (r *recordingAnalysisService) ran(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, got := range r.runs {
		if got == id {
			return true
		}
	}
	return false
}

type staticPending struct {
	jobs []models.Analysis
}

func (s staticPending) FindPendingJobs(int) ([]models.Analysis, error) { return s.jobs, nil }

func TestWorker_ProcessesEnqueuedAndPolledJobs(t *testing.T) {
	polled := uuid.New()
	svc := &recordingAnalysisService{}
	w := NewWorker(staticPending{jobs: []models.Analysis{{ID: polled}}}, svc, 2, 20*time.Millisecond, nil)

	w.Start(context.Background())
	defer w.Stop()

	enqueued := uuid.New()
	w.EnqueueJob(enqueued)

	assert.Eventually(t, func() bool { return svc.ran(enqueued) && svc.ran(polled) }, 2*time.Second, 10*time.Millisecond)
}

func TestWorker_StopIsIdempotent(t *testing.T) {
	w := NewWorker(staticPending{}, &recordingAnalysisService{}, 1, time.Hour, nil)
	w.Start(context.Background())

	w.Stop()
	w.Stop()

	w.EnqueueJob(uuid.New())
}
