package orderrepo

import (
	"context"

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

func (r *Repository) Save(ctx context.Context, order *domain.Order) error {
	query := `
        INSERT INTO orders (user_id, item_id, item_kind, payment_number, amount, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `
	row := r.db.QueryRow(ctx, query, order.UserID, order.Item.ID, string(order.Item.Kind),
		order.PaymentNumber, order.Amount, order.Status)
	if err := row.Scan(&order.ID, &order.CreatedAt); err != nil {
		zap.L().Error("can't save order", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.Order, error) {
	query := `
        SELECT id, user_id, item_id, item_kind, payment_number, amount, status, created_at
        FROM orders
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return r.collectOrders(rows)
}

func (r *Repository) collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		var kind string
		err := rows.Scan(&order.ID, &order.UserID, &order.Item.ID, &kind,
			&order.PaymentNumber, &order.Amount, &order.Status, &order.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan order row", zap.Error(err))
			return nil, err
		}
		order.Item.Kind = domain.ReviewableKind(kind)
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *Repository) DeleteByUser(ctx context.Context, userID int) error {
	query := `
        DELETE FROM orders
        WHERE user_id = $1
    `
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		zap.L().Error("can't delete orders by user", zap.Error(err))
		return err
	}
	return nil
}
