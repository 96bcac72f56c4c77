package memory

import (
	"context"
	"sync"

	curtailment "github.com/Saske77/eco-env-curtailment-analysis/internal/curtailment/domain"
)

// RunRepository is an in-memory store for analysis runs, used in tests
// and for runs without a database.
type RunRepository struct {
	mu   sync.RWMutex
	runs map[string][]*curtailment.RunRecord
}

// NewRunRepository constructs a repository.
func NewRunRepository() *RunRepository {
	return &RunRepository{runs: make(map[string][]*curtailment.RunRecord)}
}

// Save appends a run record for its plant.
func (r *RunRepository) Save(ctx context.Context, run *curtailment.RunRecord) error {
	_ = ctx
	if run == nil {
		return curtailment.ErrNilRun
	}
	if run.PlantID == "" {
		return curtailment.ErrEmptyPlantID
	}

	copied := *run
	r.mu.Lock()
	r.runs[run.PlantID] = append(r.runs[run.PlantID], &copied)
	r.mu.Unlock()
	return nil
}

// Latest returns the most recently saved run for a plant.
func (r *RunRepository) Latest(ctx context.Context, plantID string) (*curtailment.RunRecord, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	runs := r.runs[plantID]
	if len(runs) == 0 {
		return nil, curtailment.ErrRunNotFound
	}
	copied := *runs[len(runs)-1]
	return &copied, nil
}
