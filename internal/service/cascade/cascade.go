package cascade

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/studyhub/studyhub/internal/domain"
	"github.com/studyhub/studyhub/internal/pg"
)

type ReviewRepo interface {
	DeleteByUser(ctx context.Context, userID int) error
	DeleteByItem(ctx context.Context, ref domain.ReviewableRef) error
	ItemsReviewedByUser(ctx context.Context, userID int) ([]domain.ReviewableRef, error)
}

type EnrollmentRepo interface {
	DeleteByUser(ctx context.Context, userID int) error
	DeleteByCourse(ctx context.Context, courseID int) error
}

type OrderRepo interface {
	DeleteByUser(ctx context.Context, userID int) error
}

type UserRepo interface {
	DeleteUser(ctx context.Context, userID int) (bool, error)
}

type CatalogRepo interface {
	DeleteItem(ctx context.Context, ref domain.ReviewableRef) (bool, error)
}

// Aggregator re-derives an item's rating pair. Satisfied by the review
// service.
type Aggregator interface {
	Recompute(ctx context.Context, ref domain.ReviewableRef) error
}

// Coordinator removes dependent records synchronously and transactionally
// when their owning entity is deleted. A partial cascade rolls back, so a
// parent delete is never reported committed over a half-finished cascade.
type Coordinator struct {
	txManager      pg.TXManager
	reviewRepo     ReviewRepo
	enrollmentRepo EnrollmentRepo
	orderRepo      OrderRepo
	userRepo       UserRepo
	catalogRepo    CatalogRepo
	aggregator     Aggregator
}

func New(txManager pg.TXManager, reviewRepo ReviewRepo, enrollmentRepo EnrollmentRepo,
	orderRepo OrderRepo, userRepo UserRepo, catalogRepo CatalogRepo, aggregator Aggregator) *Coordinator {
	return &Coordinator{
		txManager:      txManager,
		reviewRepo:     reviewRepo,
		enrollmentRepo: enrollmentRepo,
		orderRepo:      orderRepo,
		userRepo:       userRepo,
		catalogRepo:    catalogRepo,
		aggregator:     aggregator,
	}
}

var (
	ErrUserNotFound = errors.New("user not found")
	ErrItemNotFound = errors.New("item not found")
)

// DeleteUser removes the user's reviews, enrollments and orders together with
// the user record in one transaction, then re-aggregates every item the user
// had reviewed so no item keeps an average over ghosts.
func (c *Coordinator) DeleteUser(ctx context.Context, userID int) error {
	affected, err := c.reviewRepo.ItemsReviewedByUser(ctx, userID)
	if err != nil {
		return err
	}

	err = c.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := c.reviewRepo.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := c.enrollmentRepo.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := c.orderRepo.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		deleted, err := c.userRepo.DeleteUser(ctx, userID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		zap.L().Error("user cascade failed", zap.Int("user_id", userID), zap.Error(err))
		return err
	}

	for _, ref := range affected {
		if err := c.aggregator.Recompute(ctx, ref); err != nil {
			// the aggregate self-heals on the next review write
			zap.L().Error("post-cascade recompute failed",
				zap.String("kind", string(ref.Kind)), zap.Int("item_id", ref.ID), zap.Error(err))
		}
	}

	zap.L().Info("user cascade completed", zap.Int("user_id", userID))
	return nil
}

// DeleteItem removes an item's reviews (and, for a course, its enrollments)
// together with the item record in one transaction. No re-aggregation: the
// aggregate's home row is gone with it.
func (c *Coordinator) DeleteItem(ctx context.Context, ref domain.ReviewableRef) error {
	err := c.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := c.reviewRepo.DeleteByItem(ctx, ref); err != nil {
			return err
		}

		switch ref.Kind {
		case domain.KindCourse:
			if err := c.enrollmentRepo.DeleteByCourse(ctx, ref.ID); err != nil {
				return err
			}
		case domain.KindProduct:
			// products have no enrollments
		default:
			return domain.ErrUnknownReviewableKind
		}

		deleted, err := c.catalogRepo.DeleteItem(ctx, ref)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrItemNotFound
		}
		return nil
	})
	if err != nil {
		zap.L().Error("item cascade failed",
			zap.String("kind", string(ref.Kind)), zap.Int("item_id", ref.ID), zap.Error(err))
		return err
	}

	zap.L().Info("item cascade completed",
		zap.String("kind", string(ref.Kind)), zap.Int("item_id", ref.ID))
	return nil
}
