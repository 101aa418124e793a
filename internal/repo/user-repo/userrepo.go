package userrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/studyhub/studyhub/internal/domain"
	"github.com/studyhub/studyhub/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
        INSERT INTO users (login, password_hash, role)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	row := r.db.QueryRow(ctx, query, user.Login, user.PasswordHash, user.Role)
	if err := row.Scan(&user.ID, &user.CreatedAt); err != nil {
		zap.L().Error("can't create user", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := `
        SELECT id, login, password_hash, role, purchases_count, reviews_count, created_at
        FROM users
        WHERE login = $1
    `
	return r.scanUser(r.db.QueryRow(ctx, query, login))
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.User, error) {
	query := `
        SELECT id, login, password_hash, role, purchases_count, reviews_count, created_at
        FROM users
        WHERE id = $1
    `
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Login, &user.PasswordHash, &user.Role,
		&user.PurchasesCount, &user.ReviewsCount, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// AddToReviewsCount shifts the reviews counter by delta, floored at zero.
func (r *Repository) AddToReviewsCount(ctx context.Context, userID int, delta int) error {
	query := `
        UPDATE users
        SET reviews_count = GREATEST(reviews_count + $1, 0)
        WHERE id = $2
    `
	if _, err := r.db.Exec(ctx, query, delta, userID); err != nil {
		zap.L().Error("can't update reviews count", zap.Error(err))
		return err
	}
	return nil
}

// AddToPurchasesCount shifts the purchases counter by delta, floored at zero.
func (r *Repository) AddToPurchasesCount(ctx context.Context, userID int, delta int) error {
	query := `
        UPDATE users
        SET purchases_count = GREATEST(purchases_count + $1, 0)
        WHERE id = $2
    `
	if _, err := r.db.Exec(ctx, query, delta, userID); err != nil {
		zap.L().Error("can't update purchases count", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) DeleteUser(ctx context.Context, userID int) (bool, error) {
	query := `
        DELETE FROM users
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't delete user", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
