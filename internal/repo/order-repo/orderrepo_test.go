package orderrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/studyhub/studyhub/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_Save(t *testing.T) {
	repo, mock := NewMock(t)
	timeNow := time.Now()

	tests := []struct {
		name      string
		order     *domain.Order
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Save order successfully",
			order: &domain.Order{
				UserID:        1,
				Item:          domain.ReviewableRef{Kind: domain.KindCourse, ID: 10},
				PaymentNumber: "2404815702",
				Amount:        decimal.NewFromInt(100),
				Status:        domain.OrderStatusNew,
			},
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "created_at"}).AddRow(1, timeNow)
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders (user_id, item_id, item_kind, payment_number, amount, status)`)).
					WithArgs(1, 10, "course", "2404815702", decimal.NewFromInt(100), domain.OrderStatusNew).
					WillReturnRows(rows)
			},
			expectErr: false,
		},
		{
			name: "Database error",
			order: &domain.Order{
				UserID:        1,
				Item:          domain.ReviewableRef{Kind: domain.KindCourse, ID: 10},
				PaymentNumber: "2404815702",
				Amount:        decimal.NewFromInt(100),
				Status:        domain.OrderStatusNew,
			},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders (user_id, item_id, item_kind, payment_number, amount, status)`)).
					WithArgs(1, 10, "course", "2404815702", decimal.NewFromInt(100), domain.OrderStatusNew).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.Save(context.Background(), tt.order)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 1, tt.order.ID)
			}
		})
	}
}

func TestRepository_FindByUserID(t *testing.T) {
	repo, mock := NewMock(t)
	timeNow := time.Now()

	query := `
        SELECT id, user_id, item_id, item_kind, payment_number, amount, status, created_at
        FROM orders
        WHERE user_id = $1
        ORDER BY created_at DESC
    `

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		result    []domain.Order
	}{
		{
			name: "Orders found",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "user_id", "item_id", "item_kind", "payment_number", "amount", "status", "created_at"}).
					AddRow(1, 1, 10, "course", "2404815702", decimal.NewFromInt(100), domain.OrderStatusNew, timeNow).
					AddRow(2, 1, 3, "product", "4561261212345467", decimal.NewFromInt(30), domain.OrderStatusPaid, timeNow)
				mock.ExpectQuery(regexp.QuoteMeta(query)).
					WithArgs(1).
					WillReturnRows(rows)
			},
			expectErr: false,
			result: []domain.Order{
				{ID: 1, UserID: 1, Item: domain.ReviewableRef{Kind: domain.KindCourse, ID: 10}, PaymentNumber: "2404815702", Amount: decimal.NewFromInt(100), Status: domain.OrderStatusNew, CreatedAt: timeNow},
				{ID: 2, UserID: 1, Item: domain.ReviewableRef{Kind: domain.KindProduct, ID: 3}, PaymentNumber: "4561261212345467", Amount: decimal.NewFromInt(30), Status: domain.OrderStatusPaid, CreatedAt: timeNow},
			},
		},
		{
			name: "Scan row error",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "user_id", "item_id", "item_kind", "payment_number", "amount", "status", "created_at"}).
					AddRow(1, 1, 10, "course", "2404815702", "invalid_value", domain.OrderStatusNew, timeNow)
				mock.ExpectQuery(regexp.QuoteMeta(query)).
					WithArgs(1).
					WillReturnRows(rows)
			},
			expectErr: true,
			result:    nil,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(query)).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByUserID(context.Background(), 1)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
		})
	}
}

func TestRepository_DeleteByUser(t *testing.T) {
	repo, mock := NewMock(t)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Delete orders for user",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM orders`)).
					WithArgs(1).
					WillReturnResult(pgxmock.NewResult("DELETE", 2))
			},
			expectErr: false,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM orders`)).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.DeleteByUser(context.Background(), 1)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
