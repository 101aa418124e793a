package reviewservice

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/studyhub/studyhub/internal/domain"
	"github.com/studyhub/studyhub/internal/pg"
)

type Repo interface {
	Save(ctx context.Context, review *domain.Review) error
	FindByID(ctx context.Context, id int) (*domain.Review, error)
	FindByUserAndItem(ctx context.Context, userID int, ref domain.ReviewableRef) (*domain.Review, error)
	FindByItem(ctx context.Context, ref domain.ReviewableRef) ([]domain.Review, error)
	FindByUser(ctx context.Context, userID int) ([]domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id int) error
	AggregateForItem(ctx context.Context, ref domain.ReviewableRef) (domain.RatingSummary, error)
}

type CatalogRepo interface {
	ItemExists(ctx context.Context, ref domain.ReviewableRef) (bool, error)
	UpdateRating(ctx context.Context, ref domain.ReviewableRef, summary domain.RatingSummary) (bool, error)
}

type UserRepo interface {
	AddToReviewsCount(ctx context.Context, userID int, delta int) error
}

type Service struct {
	repo        Repo
	catalogRepo CatalogRepo
	userRepo    UserRepo
	txManager   pg.TXManager
}

func New(repo Repo, catalogRepo CatalogRepo, userRepo UserRepo, txManager pg.TXManager) *Service {
	return &Service{
		repo:        repo,
		catalogRepo: catalogRepo,
		userRepo:    userRepo,
		txManager:   txManager,
	}
}

var (
	ErrItemNotFound   = errors.New("reviewable item not found")
	ErrReviewExists   = errors.New("review already exists for this item")
	ErrReviewNotFound = errors.New("review not found")
	ErrNotReviewOwner = errors.New("review belongs to another user")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrEmptyComment   = errors.New("comment must not be empty")
)

func validRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// Create persists a new review, bumps the author's reviews counter and
// refreshes the target item's aggregate. The review row and the counter commit
// in one transaction, and that transaction commits before the aggregate is
// recomputed, so the aggregate always sees the new review.
func (s *Service) Create(ctx context.Context, userID int, ref domain.ReviewableRef, rating int, comment string) (*domain.Review, error) {
	if !validRating(rating) {
		return nil, ErrInvalidRating
	}
	if strings.TrimSpace(comment) == "" {
		return nil, ErrEmptyComment
	}

	exists, err := s.catalogRepo.ItemExists(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !exists {
		zap.L().Info("review target does not exist",
			zap.String("kind", string(ref.Kind)), zap.Int("item_id", ref.ID))
		return nil, ErrItemNotFound
	}

	existing, err := s.repo.FindByUserAndItem(ctx, userID, ref)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		zap.L().Info("review already exists",
			zap.Int("user_id", userID), zap.Int("item_id", ref.ID))
		return nil, ErrReviewExists
	}

	review := &domain.Review{
		UserID:     userID,
		Reviewable: ref,
		Rating:     rating,
		Comment:    comment,
	}
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := s.repo.Save(ctx, review); err != nil {
			return err
		}
		return s.userRepo.AddToReviewsCount(ctx, userID, 1)
	})
	if err != nil {
		// the pre-check above races with concurrent creates; the unique index
		// on (user_id, reviewable_id, reviewable_kind) is the backstop
		if pg.IsUniqueViolation(err) {
			zap.L().Info("review already exists",
				zap.Int("user_id", userID), zap.Int("item_id", ref.ID))
			return nil, ErrReviewExists
		}
		zap.L().Error("can't save review: ", zap.Error(err))
		return nil, err
	}

	s.recompute(ctx, ref)
	return review, nil
}

// Update applies only the supplied fields; omitted fields keep their values.
func (s *Service) Update(ctx context.Context, reviewID, requesterID int, rating *int, comment *string) (*domain.Review, error) {
	if rating != nil && !validRating(*rating) {
		return nil, ErrInvalidRating
	}
	if comment != nil && strings.TrimSpace(*comment) == "" {
		return nil, ErrEmptyComment
	}

	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	if review.UserID != requesterID {
		return nil, ErrNotReviewOwner
	}

	if rating != nil {
		review.Rating = *rating
	}
	if comment != nil {
		review.Comment = *comment
	}

	if err := s.repo.Update(ctx, review); err != nil {
		zap.L().Error("can't update review: ", zap.Error(err))
		return nil, err
	}

	s.recompute(ctx, review.Reviewable)
	return review, nil
}

// Delete removes a review for its author, or for an admin requester.
func (s *Service) Delete(ctx context.Context, reviewID, requesterID int, requesterRole string) error {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}
	if review.UserID != requesterID && requesterRole != domain.RoleAdmin {
		return ErrNotReviewOwner
	}

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, reviewID); err != nil {
			return err
		}
		return s.userRepo.AddToReviewsCount(ctx, review.UserID, -1)
	})
	if err != nil {
		zap.L().Error("can't delete review: ", zap.Error(err))
		return err
	}

	s.recompute(ctx, review.Reviewable)
	return nil
}

func (s *Service) ListForItem(ctx context.Context, ref domain.ReviewableRef) ([]domain.Review, error) {
	reviews, err := s.repo.FindByItem(ctx, ref)
	if err != nil {
		zap.L().Error("failed to get reviews for item", zap.Error(err))
		return nil, err
	}
	return reviews, nil
}

func (s *Service) ListForUser(ctx context.Context, userID int) ([]domain.Review, error) {
	reviews, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get reviews for user", zap.Error(err))
		return nil, err
	}
	return reviews, nil
}

// Recompute re-derives {averageRating, reviewCount} from the live review set
// and writes it onto the item. A vanished item is a no-op: the aggregate of a
// cascaded-away record has nowhere to live.
func (s *Service) Recompute(ctx context.Context, ref domain.ReviewableRef) error {
	summary, err := s.repo.AggregateForItem(ctx, ref)
	if err != nil {
		return err
	}

	updated, err := s.catalogRepo.UpdateRating(ctx, ref, summary)
	if err != nil {
		return err
	}
	if !updated {
		zap.L().Debug("aggregate target vanished, skipping rating write",
			zap.String("kind", string(ref.Kind)), zap.Int("item_id", ref.ID))
	}
	return nil
}

// recompute is the fire-and-forget form used after lifecycle writes. The
// aggregate is re-derivable, so a failed write self-heals on the next one.
func (s *Service) recompute(ctx context.Context, ref domain.ReviewableRef) {
	if err := s.Recompute(ctx, ref); err != nil {
		zap.L().Error("failed to recompute item rating",
			zap.String("kind", string(ref.Kind)), zap.Int("item_id", ref.ID), zap.Error(err))
	}
}
