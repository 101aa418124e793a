package orderservice

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/studyhub/studyhub/internal/domain"
	"github.com/studyhub/studyhub/internal/pg"
)

type Repo interface {
	Save(ctx context.Context, order *domain.Order) error
	FindByUserID(ctx context.Context, userID int) ([]domain.Order, error)
}

type CatalogRepo interface {
	ItemExists(ctx context.Context, ref domain.ReviewableRef) (bool, error)
}

type UserRepo interface {
	AddToPurchasesCount(ctx context.Context, userID int, delta int) error
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
	ErrItemNotFound  = errors.New("purchased item not found")
	ErrInvalidAmount = errors.New("amount must not be negative")
)

// CreateOrder records a purchase and bumps the buyer's purchases counter in a
// single transaction. The payment number is Luhn-checked at the transport
// boundary.
func (s *Service) CreateOrder(ctx context.Context, userID int, item domain.ReviewableRef, paymentNumber string, amount decimal.Decimal) (*domain.Order, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	exists, err := s.catalogRepo.ItemExists(ctx, item)
	if err != nil {
		return nil, err
	}
	if !exists {
		zap.L().Info("order target does not exist",
			zap.String("kind", string(item.Kind)), zap.Int("item_id", item.ID))
		return nil, ErrItemNotFound
	}

	order := &domain.Order{
		UserID:        userID,
		Item:          item,
		PaymentNumber: paymentNumber,
		Amount:        amount,
		Status:        domain.OrderStatusNew,
	}
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := s.repo.Save(ctx, order); err != nil {
			return err
		}
		return s.userRepo.AddToPurchasesCount(ctx, userID, 1)
	})
	if err != nil {
		zap.L().Error("can't save order: ", zap.Error(err))
		return nil, err
	}
	return order, nil
}

func (s *Service) GetOrders(ctx context.Context, userID int) ([]domain.Order, error) {
	orders, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get orders", zap.Error(err))
		return nil, err
	}
	return orders, nil
}
