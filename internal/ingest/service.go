package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nurcatalog/internal/book"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Config struct {
	// BooksMax caps the number of books enriched per run; <= 0 means all.
	BooksMax int
	// Pause between books keeps the external APIs below their quotas.
	Pause time.Duration
}

type Service struct {
	catalog Catalog
	repo    Repository
	cfg     Config
	log     *zap.Logger
}

func NewService(catalog Catalog, repo Repository, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{catalog: catalog, repo: repo, cfg: cfg, log: log}
}

// Run enriches every book that still carries defaults or gaps and records
// the outcome. One failing book does not stop the run; an unconfigured
// enricher or a cancelled context does.
func (s *Service) Run(ctx context.Context) (run Run, err error) {
	run = Run{
		ID:        uuid.NewString(),
		Status:    StatusRunning,
		ConfigMax: s.cfg.BooksMax,
		StartedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateRun(ctx, &run); err != nil {
		return Run{}, fmt.Errorf("create run: %w", err)
	}

	defer func() {
		now := time.Now().UTC()
		run.FinishedAt = &now
		if err != nil && run.Error == "" {
			run.Error = err.Error()
		}
		if run.Error != "" {
			run.Status = StatusFailed
		} else {
			run.Status = StatusCompleted
		}
		// The caller's context may already be done.
		if updateErr := s.repo.UpdateRun(context.WithoutCancel(ctx), &run); updateErr != nil {
			s.log.Error("failed to update enrichment run", zap.String("run_id", run.ID), zap.Error(updateErr))
		}
	}()

	books, err := s.catalog.List(ctx)
	if err != nil {
		return run, err
	}

	for _, b := range books {
		if !book.NeedsEnrichment(b) {
			continue
		}
		if s.cfg.BooksMax > 0 && run.BooksScanned >= s.cfg.BooksMax {
			break
		}
		if err := ctx.Err(); err != nil {
			return run, err
		}
		run.BooksScanned++

		if _, err := s.catalog.Enrich(ctx, b.ID); err != nil {
			if errors.Is(err, book.ErrEnrichmentUnavailable) {
				return run, err
			}
			run.BooksFailed++
			s.log.Warn("book enrichment failed", zap.String("run_id", run.ID), zap.String("book_id", b.ID), zap.Error(err))
			continue
		}
		run.BooksEnriched++
		if err := s.repo.LinkBookToRun(ctx, run.ID, b.ID); err != nil {
			s.log.Warn("failed to link book to run", zap.String("run_id", run.ID), zap.String("book_id", b.ID), zap.Error(err))
		}

		if s.cfg.Pause > 0 {
			select {
			case <-ctx.Done():
				return run, ctx.Err()
			case <-time.After(s.cfg.Pause):
			}
		}
	}

	s.log.Info("enrichment run finished",
		zap.String("run_id", run.ID),
		zap.Int("scanned", run.BooksScanned),
		zap.Int("enriched", run.BooksEnriched),
		zap.Int("failed", run.BooksFailed),
	)
	return run, nil
}

func (s *Service) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListRuns(ctx, limit)
}
