package cascade

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/studyhub/studyhub/internal/domain"
	"github.com/studyhub/studyhub/internal/pg"
)

type mocks struct {
	tx          *pg.MockTXManager
	reviews     *MockReviewRepo
	enrollments *MockEnrollmentRepo
	orders      *MockOrderRepo
	users       *MockUserRepo
	catalog     *MockCatalogRepo
	aggregator  *MockAggregator
}

func NewMock(t *testing.T) (*Coordinator, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		tx:          pg.NewMockTXManager(ctrl),
		reviews:     NewMockReviewRepo(ctrl),
		enrollments: NewMockEnrollmentRepo(ctrl),
		orders:      NewMockOrderRepo(ctrl),
		users:       NewMockUserRepo(ctrl),
		catalog:     NewMockCatalogRepo(ctrl),
		aggregator:  NewMockAggregator(ctrl),
	}
	coordinator := New(m.tx, m.reviews, m.enrollments, m.orders, m.users, m.catalog, m.aggregator)
	defer ctrl.Finish()
	return coordinator, m
}

func passthroughTx(m *mocks) {
	m.tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
		return fn(ctx)
	})
}

func TestDeleteUser(t *testing.T) {
	courseRef := domain.ReviewableRef{Kind: domain.KindCourse, ID: 10}
	productRef := domain.ReviewableRef{Kind: domain.KindProduct, ID: 3}

	tests := []struct {
		name          string
		userID        int
		prepareMock   func(m *mocks)
		expectedError error
	}{
		{
			name:   "Full cascade with post-commit re-aggregation",
			userID: 1,
			prepareMock: func(m *mocks) {
				m.reviews.EXPECT().ItemsReviewedByUser(gomock.Any(), 1).
					Return([]domain.ReviewableRef{courseRef, productRef}, nil)
				passthroughTx(m)
				m.reviews.EXPECT().DeleteByUser(gomock.Any(), 1).Return(nil)
				m.enrollments.EXPECT().DeleteByUser(gomock.Any(), 1).Return(nil)
				m.orders.EXPECT().DeleteByUser(gomock.Any(), 1).Return(nil)
				m.users.EXPECT().DeleteUser(gomock.Any(), 1).Return(true, nil)
				m.aggregator.EXPECT().Recompute(gomock.Any(), courseRef).Return(nil)
				m.aggregator.EXPECT().Recompute(gomock.Any(), productRef).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:   "User does not exist",
			userID: 99,
			prepareMock: func(m *mocks) {
				m.reviews.EXPECT().ItemsReviewedByUser(gomock.Any(), 99).Return(nil, nil)
				passthroughTx(m)
				m.reviews.EXPECT().DeleteByUser(gomock.Any(), 99).Return(nil)
				m.enrollments.EXPECT().DeleteByUser(gomock.Any(), 99).Return(nil)
				m.orders.EXPECT().DeleteByUser(gomock.Any(), 99).Return(nil)
				m.users.EXPECT().DeleteUser(gomock.Any(), 99).Return(false, nil)
			},
			expectedError: ErrUserNotFound,
		},
		{
			name:   "Failed dependent delete surfaces and stops the cascade",
			userID: 1,
			prepareMock: func(m *mocks) {
				m.reviews.EXPECT().ItemsReviewedByUser(gomock.Any(), 1).
					Return([]domain.ReviewableRef{courseRef}, nil)
				passthroughTx(m)
				m.reviews.EXPECT().DeleteByUser(gomock.Any(), 1).Return(nil)
				m.enrollments.EXPECT().DeleteByUser(gomock.Any(), 1).Return(errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
		{
			name:   "Recompute failure after commit does not fail the delete",
			userID: 1,
			prepareMock: func(m *mocks) {
				m.reviews.EXPECT().ItemsReviewedByUser(gomock.Any(), 1).
					Return([]domain.ReviewableRef{courseRef}, nil)
				passthroughTx(m)
				m.reviews.EXPECT().DeleteByUser(gomock.Any(), 1).Return(nil)
				m.enrollments.EXPECT().DeleteByUser(gomock.Any(), 1).Return(nil)
				m.orders.EXPECT().DeleteByUser(gomock.Any(), 1).Return(nil)
				m.users.EXPECT().DeleteUser(gomock.Any(), 1).Return(true, nil)
				m.aggregator.EXPECT().Recompute(gomock.Any(), courseRef).Return(errors.New("db error"))
			},
			expectedError: nil,
		},
		{
			name:   "Affected item lookup failure",
			userID: 1,
			prepareMock: func(m *mocks) {
				m.reviews.EXPECT().ItemsReviewedByUser(gomock.Any(), 1).Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coordinator, m := NewMock(t)
			tt.prepareMock(m)

			err := coordinator.DeleteUser(context.Background(), tt.userID)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDeleteItem(t *testing.T) {
	courseRef := domain.ReviewableRef{Kind: domain.KindCourse, ID: 10}
	productRef := domain.ReviewableRef{Kind: domain.KindProduct, ID: 3}

	tests := []struct {
		name          string
		ref           domain.ReviewableRef
		prepareMock   func(m *mocks)
		expectedError error
	}{
		{
			name: "Course delete cascades reviews and enrollments",
			ref:  courseRef,
			prepareMock: func(m *mocks) {
				passthroughTx(m)
				m.reviews.EXPECT().DeleteByItem(gomock.Any(), courseRef).Return(nil)
				m.enrollments.EXPECT().DeleteByCourse(gomock.Any(), 10).Return(nil)
				m.catalog.EXPECT().DeleteItem(gomock.Any(), courseRef).Return(true, nil)
			},
			expectedError: nil,
		},
		{
			name: "Product delete skips enrollments",
			ref:  productRef,
			prepareMock: func(m *mocks) {
				passthroughTx(m)
				m.reviews.EXPECT().DeleteByItem(gomock.Any(), productRef).Return(nil)
				m.catalog.EXPECT().DeleteItem(gomock.Any(), productRef).Return(true, nil)
			},
			expectedError: nil,
		},
		{
			name: "Unknown kind is rejected",
			ref:  domain.ReviewableRef{Kind: "webinar", ID: 1},
			prepareMock: func(m *mocks) {
				passthroughTx(m)
				m.reviews.EXPECT().DeleteByItem(gomock.Any(), gomock.Any()).Return(nil)
			},
			expectedError: domain.ErrUnknownReviewableKind,
		},
		{
			name: "Item does not exist",
			ref:  productRef,
			prepareMock: func(m *mocks) {
				passthroughTx(m)
				m.reviews.EXPECT().DeleteByItem(gomock.Any(), productRef).Return(nil)
				m.catalog.EXPECT().DeleteItem(gomock.Any(), productRef).Return(false, nil)
			},
			expectedError: ErrItemNotFound,
		},
		{
			name: "Failed review delete rolls the cascade back",
			ref:  courseRef,
			prepareMock: func(m *mocks) {
				passthroughTx(m)
				m.reviews.EXPECT().DeleteByItem(gomock.Any(), courseRef).Return(errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coordinator, m := NewMock(t)
			tt.prepareMock(m)

			err := coordinator.DeleteItem(context.Background(), tt.ref)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
