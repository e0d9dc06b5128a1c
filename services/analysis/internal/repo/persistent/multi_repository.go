package persistent

import (
	"context"
	"fmt"

	"event-swipe/services/analysis/internal/entity"

	"github.com/sourcegraph/conc/pool"
)

type namedRepository struct {
	name string
	repo AnalysisRepository
}

// MultiRepository writes every record to all configured backends at once.
// It fails if any backend fails; the error names each failing backend.
type MultiRepository struct {
	backends []namedRepository
}

func NewMultiRepository() *MultiRepository {
	return &MultiRepository{}
}

func (m *MultiRepository) Add(name string, repo AnalysisRepository) *MultiRepository {
	m.backends = append(m.backends, namedRepository{name: name, repo: repo})
	return m
}

func (m *MultiRepository) Len() int {
	return len(m.backends)
}

func (m *MultiRepository) SaveImageAnalysis(ctx context.Context, record *entity.ImageAnalysisRecord) error {
	return m.each(ctx, func(ctx context.Context, repo AnalysisRepository) error {
		return repo.SaveImageAnalysis(ctx, record)
	})
}

func (m *MultiRepository) SaveURLAnalysis(ctx context.Context, record *entity.URLAnalysisRecord) error {
	return m.each(ctx, func(ctx context.Context, repo AnalysisRepository) error {
		return repo.SaveURLAnalysis(ctx, record)
	})
}

func (m *MultiRepository) each(ctx context.Context, save func(context.Context, AnalysisRepository) error) error {
	p := pool.New().WithErrors().WithContext(ctx)
	for _, backend := range m.backends {
		backend := backend
		p.Go(func(ctx context.Context) error {
			if err := save(ctx, backend.repo); err != nil {
				return fmt.Errorf("%s: %w", backend.name, err)
			}
			return nil
		})
	}
	return p.Wait()
}
