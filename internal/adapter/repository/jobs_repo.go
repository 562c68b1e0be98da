package repository

import (
	"context"
	"sort"
	"sync"

	"cvcraft/internal/domain"

	"github.com/google/uuid"
)

// JobsRepo keeps export history in memory for the life of the process.
// Only the newest limit jobs are retained.
type JobsRepo struct {
	mu    sync.RWMutex
	jobs  map[uuid.UUID]domain.ExportJob
	limit int
}

const defaultJobLimit = 100

func NewJobsRepo(limit int) *JobsRepo {
	if limit <= 0 {
		limit = defaultJobLimit
	}
	return &JobsRepo{jobs: make(map[uuid.UUID]domain.ExportJob), limit: limit}
}

// Save inserts or updates a job by id.
func (r *JobsRepo) Save(ctx context.Context, j *domain.ExportJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := *j
	if j.Metadata != nil {
		cp.Metadata = make(map[string]interface{}, len(j.Metadata))
		for k, v := range j.Metadata {
			cp.Metadata[k] = v
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[j.ID] = cp
	if len(r.jobs) > r.limit {
		r.evictOldestLocked()
	}
	return nil
}

func (r *JobsRepo) Get(ctx context.Context, id uuid.UUID) (domain.ExportJob, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	return j, ok
}

// List returns jobs newest first.
func (r *JobsRepo) List(ctx context.Context) []domain.ExportJob {
	r.mu.RLock()
	out := make([]domain.ExportJob, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].ID.String() > out[b].ID.String()
		}
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out
}

func (r *JobsRepo) evictOldestLocked() {
	var oldest *domain.ExportJob
	for id := range r.jobs {
		j := r.jobs[id]
		if oldest == nil || j.CreatedAt.Before(oldest.CreatedAt) {
			oldest = &j
		}
	}
	if oldest != nil {
		delete(r.jobs, oldest.ID)
	}
}
