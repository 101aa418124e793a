package reconciler

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/studyhub/studyhub/internal/config"
	"github.com/studyhub/studyhub/internal/domain"
)

// ReviewRepo surfaces items whose review sets changed recently.
type ReviewRepo interface {
	ItemsReviewedSince(ctx context.Context, since time.Time, limit uint32) ([]domain.ReviewableRef, error)
}

// Aggregator re-derives one item's rating pair from its review set.
type Aggregator interface {
	Recompute(ctx context.Context, ref domain.ReviewableRef) error
}

var processingItems sync.Map

// Service periodically re-derives rating aggregates for items with recent
// review activity. The per-row aggregate writes are last-writer-wins, so a
// lost update is only stale until this sweep (or the next review write)
// recomputes it.
type Service struct {
	reviewRepo     ReviewRepo
	aggregator     Aggregator
	limit          uint32
	workerPool     WorkerPoolI
	updateInterval time.Duration
	lookback       time.Duration
}

func New(cfg *config.Config, reviewRepo ReviewRepo, aggregator Aggregator) *Service {
	interval := time.Duration(cfg.ReconcileInterval) * time.Second
	return &Service{
		reviewRepo:     reviewRepo,
		aggregator:     aggregator,
		limit:          uint32(cfg.ReconcileBatchSize),
		workerPool:     NewWorkerPool(10),
		updateInterval: interval,
		// overlap sweeps so a write landing mid-sweep is never skipped
		lookback: 2 * interval,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Aggregate reconciler started")
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping reconciler")
			return
		case <-ticker.C:
			s.processSweep(ctx)
		}
	}
}

func (s *Service) processSweep(ctx context.Context) {
	since := time.Now().Add(-s.lookback)
	refs, err := s.reviewRepo.ItemsReviewedSince(ctx, since, s.limit)
	if err != nil {
		zap.L().Error("Failed to fetch items for reconciliation", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, ref := range refs {
		ref := ref

		key := itemKey(ref)
		if _, loaded := processingItems.LoadOrStore(key, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer processingItems.Delete(key)
				return s.aggregator.Recompute(ctx, ref)
			})
			if err != nil {
				processingItems.Delete(key)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error reconciling aggregates", zap.Error(err))
	}
}

func itemKey(ref domain.ReviewableRef) string {
	return string(ref.Kind) + ":" + strconv.Itoa(ref.ID)
}
