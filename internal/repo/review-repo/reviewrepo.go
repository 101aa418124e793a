package reviewrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/studyhub/studyhub/internal/domain"
	"github.com/studyhub/studyhub/internal/pg"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) Save(ctx context.Context, review *domain.Review) error {
	query := `
        INSERT INTO reviews (user_id, reviewable_id, reviewable_kind, rating, comment)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at
    `
	row := r.db.QueryRow(ctx, query, review.UserID, review.Reviewable.ID,
		string(review.Reviewable.Kind), review.Rating, review.Comment)
	if err := row.Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt); err != nil {
		zap.L().Error("can't save review", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Review, error) {
	query := `
        SELECT id, user_id, reviewable_id, reviewable_kind, rating, comment, created_at, updated_at
        FROM reviews
        WHERE id = $1
    `
	return r.scanReview(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) FindByUserAndItem(ctx context.Context, userID int, ref domain.ReviewableRef) (*domain.Review, error) {
	query := `
        SELECT id, user_id, reviewable_id, reviewable_kind, rating, comment, created_at, updated_at
        FROM reviews
        WHERE user_id = $1 AND reviewable_id = $2 AND reviewable_kind = $3
    `
	return r.scanReview(r.db.QueryRow(ctx, query, userID, ref.ID, string(ref.Kind)))
}

func (r *Repository) scanReview(row pgx.Row) (*domain.Review, error) {
	var review domain.Review
	var kind string
	err := row.Scan(&review.ID, &review.UserID, &review.Reviewable.ID, &kind,
		&review.Rating, &review.Comment, &review.CreatedAt, &review.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find review", zap.Error(err))
		return nil, err
	}
	review.Reviewable.Kind = domain.ReviewableKind(kind)
	return &review, nil
}

func (r *Repository) FindByItem(ctx context.Context, ref domain.ReviewableRef) ([]domain.Review, error) {
	query := `
        SELECT id, user_id, reviewable_id, reviewable_kind, rating, comment, created_at, updated_at
        FROM reviews
        WHERE reviewable_id = $1 AND reviewable_kind = $2
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, ref.ID, string(ref.Kind))
	if err != nil {
		zap.L().Error("can't get reviews for item", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return r.collectReviews(rows)
}

func (r *Repository) FindByUser(ctx context.Context, userID int) ([]domain.Review, error) {
	query := `
        SELECT id, user_id, reviewable_id, reviewable_kind, rating, comment, created_at, updated_at
        FROM reviews
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get reviews for user", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return r.collectReviews(rows)
}

func (r *Repository) collectReviews(rows pgx.Rows) ([]domain.Review, error) {
	var reviews []domain.Review
	for rows.Next() {
		var review domain.Review
		var kind string
		err := rows.Scan(&review.ID, &review.UserID, &review.Reviewable.ID, &kind,
			&review.Rating, &review.Comment, &review.CreatedAt, &review.UpdatedAt)
		if err != nil {
			zap.L().Error("can't scan review row", zap.Error(err))
			return nil, err
		}
		review.Reviewable.Kind = domain.ReviewableKind(kind)
		reviews = append(reviews, review)
	}
	return reviews, nil
}

func (r *Repository) Update(ctx context.Context, review *domain.Review) error {
	query := `
        UPDATE reviews
        SET rating = $1, comment = $2, updated_at = $3
        WHERE id = $4
        RETURNING updated_at
    `
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		row := r.db.QueryRow(ctx, query, review.Rating, review.Comment, time.Now(), review.ID)
		if err := row.Scan(&review.UpdatedAt); err != nil {
			zap.L().Error("can't update review", zap.Error(err))
			return err
		}
		return nil
	})
	return err
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	query := `
        DELETE FROM reviews
        WHERE id = $1
    `
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		zap.L().Error("can't delete review", zap.Error(err))
		return err
	}
	return nil
}

// AggregateForItem computes the live {average, count} pair for an item's
// review set. An empty set yields {0, 0}, never NULL.
func (r *Repository) AggregateForItem(ctx context.Context, ref domain.ReviewableRef) (domain.RatingSummary, error) {
	query := `
        SELECT COALESCE(AVG(rating), 0), COUNT(*)
        FROM reviews
        WHERE reviewable_id = $1 AND reviewable_kind = $2
    `
	var summary domain.RatingSummary
	row := r.db.QueryRow(ctx, query, ref.ID, string(ref.Kind))
	if err := row.Scan(&summary.AverageRating, &summary.ReviewCount); err != nil {
		zap.L().Error("can't aggregate reviews", zap.Error(err))
		return domain.RatingSummary{}, err
	}
	return summary, nil
}

func (r *Repository) DeleteByUser(ctx context.Context, userID int) error {
	query := `
        DELETE FROM reviews
        WHERE user_id = $1
    `
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		zap.L().Error("can't delete reviews by user", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) DeleteByItem(ctx context.Context, ref domain.ReviewableRef) error {
	query := `
        DELETE FROM reviews
        WHERE reviewable_id = $1 AND reviewable_kind = $2
    `
	if _, err := r.db.Exec(ctx, query, ref.ID, string(ref.Kind)); err != nil {
		zap.L().Error("can't delete reviews by item", zap.Error(err))
		return err
	}
	return nil
}

// ItemsReviewedByUser lists the distinct items a user has reviewed. Used to
// re-aggregate affected items after a user cascade.
func (r *Repository) ItemsReviewedByUser(ctx context.Context, userID int) ([]domain.ReviewableRef, error) {
	query := `
        SELECT DISTINCT reviewable_id, reviewable_kind
        FROM reviews
        WHERE user_id = $1
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get items reviewed by user", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return r.collectRefs(rows)
}

// ItemsReviewedSince lists the distinct items with review activity after the
// cutoff, bounded by limit. Feeds the aggregate reconciler sweep.
func (r *Repository) ItemsReviewedSince(ctx context.Context, since time.Time, limit uint32) ([]domain.ReviewableRef, error) {
	query := `
        SELECT DISTINCT reviewable_id, reviewable_kind
        FROM reviews
        WHERE updated_at > $1
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, since, int(limit))
	if err != nil {
		zap.L().Error("can't get recently reviewed items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return r.collectRefs(rows)
}

func (r *Repository) collectRefs(rows pgx.Rows) ([]domain.ReviewableRef, error) {
	var refs []domain.ReviewableRef
	for rows.Next() {
		var ref domain.ReviewableRef
		var kind string
		if err := rows.Scan(&ref.ID, &kind); err != nil {
			zap.L().Error("can't scan reviewable ref row", zap.Error(err))
			return nil, err
		}
		ref.Kind = domain.ReviewableKind(kind)
		refs = append(refs, ref)
	}
	return refs, nil
}
