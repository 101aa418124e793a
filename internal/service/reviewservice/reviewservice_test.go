package reviewservice

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/studyhub/studyhub/internal/domain"
	"github.com/studyhub/studyhub/internal/pg"
)

func NewMock(t *testing.T) (*Service, *MockRepo, *MockCatalogRepo, *MockUserRepo, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	catalogRepo := NewMockCatalogRepo(ctrl)
	userRepo := NewMockUserRepo(ctrl)
	tx := pg.NewMockTXManager(ctrl)
	service := New(repo, catalogRepo, userRepo, tx)
	defer ctrl.Finish()
	return service, repo, catalogRepo, userRepo, tx
}

func passthroughTx(tx *pg.MockTXManager) {
	tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
		return fn(ctx)
	})
}

func TestCreate(t *testing.T) {
	service, repo, catalogRepo, userRepo, tx := NewMock(t)
	courseRef := domain.ReviewableRef{Kind: domain.KindCourse, ID: 10}

	tests := []struct {
		name          string
		userID        int
		ref           domain.ReviewableRef
		rating        int
		comment       string
		prepareMock   func()
		expectedError error
	}{
		{
			name:          "Rating below range",
			userID:        1,
			ref:           courseRef,
			rating:        0,
			comment:       "fine",
			prepareMock:   func() {},
			expectedError: ErrInvalidRating,
		},
		{
			name:          "Rating above range",
			userID:        1,
			ref:           courseRef,
			rating:        6,
			comment:       "fine",
			prepareMock:   func() {},
			expectedError: ErrInvalidRating,
		},
		{
			name:          "Blank comment",
			userID:        1,
			ref:           courseRef,
			rating:        4,
			comment:       "   ",
			prepareMock:   func() {},
			expectedError: ErrEmptyComment,
		},
		{
			name:    "Target item does not exist",
			userID:  1,
			ref:     courseRef,
			rating:  4,
			comment: "fine",
			prepareMock: func() {
				catalogRepo.EXPECT().ItemExists(gomock.Any(), courseRef).Return(false, nil)
			},
			expectedError: ErrItemNotFound,
		},
		{
			name:    "Review already exists for this user and item",
			userID:  1,
			ref:     courseRef,
			rating:  4,
			comment: "fine",
			prepareMock: func() {
				catalogRepo.EXPECT().ItemExists(gomock.Any(), courseRef).Return(true, nil)
				repo.EXPECT().FindByUserAndItem(gomock.Any(), 1, courseRef).Return(&domain.Review{ID: 7, UserID: 1}, nil)
			},
			expectedError: ErrReviewExists,
		},
		{
			name:    "Review is created and aggregate refreshed",
			userID:  1,
			ref:     courseRef,
			rating:  5,
			comment: "great course",
			prepareMock: func() {
				catalogRepo.EXPECT().ItemExists(gomock.Any(), courseRef).Return(true, nil)
				repo.EXPECT().FindByUserAndItem(gomock.Any(), 1, courseRef).Return(nil, nil)
				passthroughTx(tx)
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
				userRepo.EXPECT().AddToReviewsCount(gomock.Any(), 1, 1).Return(nil)
				repo.EXPECT().AggregateForItem(gomock.Any(), courseRef).
					Return(domain.RatingSummary{AverageRating: 5.0, ReviewCount: 1}, nil)
				catalogRepo.EXPECT().UpdateRating(gomock.Any(), courseRef,
					domain.RatingSummary{AverageRating: 5.0, ReviewCount: 1}).Return(true, nil)
			},
			expectedError: nil,
		},
		{
			name:    "Aggregate write failure does not fail the create",
			userID:  1,
			ref:     courseRef,
			rating:  5,
			comment: "great course",
			prepareMock: func() {
				catalogRepo.EXPECT().ItemExists(gomock.Any(), courseRef).Return(true, nil)
				repo.EXPECT().FindByUserAndItem(gomock.Any(), 1, courseRef).Return(nil, nil)
				passthroughTx(tx)
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
				userRepo.EXPECT().AddToReviewsCount(gomock.Any(), 1, 1).Return(nil)
				repo.EXPECT().AggregateForItem(gomock.Any(), courseRef).
					Return(domain.RatingSummary{}, errors.New("db error"))
			},
			expectedError: nil,
		},
		{
			name:    "Save failure",
			userID:  1,
			ref:     courseRef,
			rating:  4,
			comment: "fine",
			prepareMock: func() {
				catalogRepo.EXPECT().ItemExists(gomock.Any(), courseRef).Return(true, nil)
				repo.EXPECT().FindByUserAndItem(gomock.Any(), 1, courseRef).Return(nil, nil)
				passthroughTx(tx)
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
		{
			name:    "Counter failure aborts the transaction",
			userID:  1,
			ref:     courseRef,
			rating:  5,
			comment: "great course",
			prepareMock: func() {
				catalogRepo.EXPECT().ItemExists(gomock.Any(), courseRef).Return(true, nil)
				repo.EXPECT().FindByUserAndItem(gomock.Any(), 1, courseRef).Return(nil, nil)
				tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
					err := fn(ctx)
					assert.Error(t, err, "a failed counter write must roll the review write back")
					return err
				})
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
				userRepo.EXPECT().AddToReviewsCount(gomock.Any(), 1, 1).Return(errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
		{
			name:    "Concurrent duplicate caught by the unique index",
			userID:  1,
			ref:     courseRef,
			rating:  5,
			comment: "great course",
			prepareMock: func() {
				catalogRepo.EXPECT().ItemExists(gomock.Any(), courseRef).Return(true, nil)
				repo.EXPECT().FindByUserAndItem(gomock.Any(), 1, courseRef).Return(nil, nil)
				passthroughTx(tx)
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(&pgconn.PgError{Code: "23505"})
			},
			expectedError: ErrReviewExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			review, err := service.Create(context.Background(), tt.userID, tt.ref, tt.rating, tt.comment)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, review)
				assert.Equal(t, tt.userID, review.UserID)
				assert.Equal(t, tt.ref, review.Reviewable)
				assert.Equal(t, tt.rating, review.Rating)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	service, repo, catalogRepo, _, _ := NewMock(t)
	productRef := domain.ReviewableRef{Kind: domain.KindProduct, ID: 3}

	newRating := 2
	badRating := 9
	blankComment := " "
	newComment := "changed my mind"

	tests := []struct {
		name          string
		reviewID      int
		requesterID   int
		rating        *int
		comment       *string
		prepareMock   func()
		expectedError error
	}{
		{
			name:          "Invalid rating rejected before lookup",
			reviewID:      1,
			requesterID:   1,
			rating:        &badRating,
			prepareMock:   func() {},
			expectedError: ErrInvalidRating,
		},
		{
			name:          "Blank comment rejected before lookup",
			reviewID:      1,
			requesterID:   1,
			comment:       &blankComment,
			prepareMock:   func() {},
			expectedError: ErrEmptyComment,
		},
		{
			name:        "Review not found",
			reviewID:    1,
			requesterID: 1,
			rating:      &newRating,
			prepareMock: func() {
				repo.EXPECT().FindByID(gomock.Any(), 1).Return(nil, nil)
			},
			expectedError: ErrReviewNotFound,
		},
		{
			name:        "Requester is not the author",
			reviewID:    1,
			requesterID: 2,
			rating:      &newRating,
			prepareMock: func() {
				repo.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.Review{ID: 1, UserID: 1, Reviewable: productRef}, nil)
			},
			expectedError: ErrNotReviewOwner,
		},
		{
			name:        "Partial update keeps the omitted field",
			reviewID:    1,
			requesterID: 1,
			rating:      &newRating,
			prepareMock: func() {
				repo.EXPECT().FindByID(gomock.Any(), 1).
					Return(&domain.Review{ID: 1, UserID: 1, Reviewable: productRef, Rating: 5, Comment: "original"}, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
				repo.EXPECT().AggregateForItem(gomock.Any(), productRef).
					Return(domain.RatingSummary{AverageRating: 2.0, ReviewCount: 1}, nil)
				catalogRepo.EXPECT().UpdateRating(gomock.Any(), productRef, gomock.Any()).Return(true, nil)
			},
			expectedError: nil,
		},
		{
			name:        "Comment-only update",
			reviewID:    1,
			requesterID: 1,
			comment:     &newComment,
			prepareMock: func() {
				repo.EXPECT().FindByID(gomock.Any(), 1).
					Return(&domain.Review{ID: 1, UserID: 1, Reviewable: productRef, Rating: 5, Comment: "original"}, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
				repo.EXPECT().AggregateForItem(gomock.Any(), productRef).
					Return(domain.RatingSummary{AverageRating: 5.0, ReviewCount: 1}, nil)
				catalogRepo.EXPECT().UpdateRating(gomock.Any(), productRef, gomock.Any()).Return(true, nil)
			},
			expectedError: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			review, err := service.Update(context.Background(), tt.reviewID, tt.requesterID, tt.rating, tt.comment)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, review)
				if tt.rating != nil {
					assert.Equal(t, *tt.rating, review.Rating)
					assert.Equal(t, "original", review.Comment)
				}
				if tt.comment != nil {
					assert.Equal(t, *tt.comment, review.Comment)
					assert.Equal(t, 5, review.Rating)
				}
			}
		})
	}
}

func TestDelete(t *testing.T) {
	service, repo, catalogRepo, userRepo, tx := NewMock(t)
	courseRef := domain.ReviewableRef{Kind: domain.KindCourse, ID: 10}

	tests := []struct {
		name          string
		reviewID      int
		requesterID   int
		requesterRole string
		prepareMock   func()
		expectedError error
	}{
		{
			name:          "Review not found",
			reviewID:      1,
			requesterID:   1,
			requesterRole: domain.RoleUser,
			prepareMock: func() {
				repo.EXPECT().FindByID(gomock.Any(), 1).Return(nil, nil)
			},
			expectedError: ErrReviewNotFound,
		},
		{
			name:          "Non-owner without admin role",
			reviewID:      1,
			requesterID:   2,
			requesterRole: domain.RoleUser,
			prepareMock: func() {
				repo.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.Review{ID: 1, UserID: 1, Reviewable: courseRef}, nil)
			},
			expectedError: ErrNotReviewOwner,
		},
		{
			name:          "Owner deletes and aggregate drops the rating",
			reviewID:      1,
			requesterID:   1,
			requesterRole: domain.RoleUser,
			prepareMock: func() {
				repo.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.Review{ID: 1, UserID: 1, Reviewable: courseRef, Rating: 3}, nil)
				passthroughTx(tx)
				repo.EXPECT().Delete(gomock.Any(), 1).Return(nil)
				userRepo.EXPECT().AddToReviewsCount(gomock.Any(), 1, -1).Return(nil)
				// {5,3,4} minus the 3 leaves {5,4}
				repo.EXPECT().AggregateForItem(gomock.Any(), courseRef).
					Return(domain.RatingSummary{AverageRating: 4.5, ReviewCount: 2}, nil)
				catalogRepo.EXPECT().UpdateRating(gomock.Any(), courseRef,
					domain.RatingSummary{AverageRating: 4.5, ReviewCount: 2}).Return(true, nil)
			},
			expectedError: nil,
		},
		{
			name:          "Admin deletes another user's review",
			reviewID:      1,
			requesterID:   42,
			requesterRole: domain.RoleAdmin,
			prepareMock: func() {
				repo.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.Review{ID: 1, UserID: 1, Reviewable: courseRef}, nil)
				passthroughTx(tx)
				repo.EXPECT().Delete(gomock.Any(), 1).Return(nil)
				userRepo.EXPECT().AddToReviewsCount(gomock.Any(), 1, -1).Return(nil)
				repo.EXPECT().AggregateForItem(gomock.Any(), courseRef).
					Return(domain.RatingSummary{}, nil)
				catalogRepo.EXPECT().UpdateRating(gomock.Any(), courseRef, domain.RatingSummary{}).Return(true, nil)
			},
			expectedError: nil,
		},
		{
			name:          "Delete failure",
			reviewID:      1,
			requesterID:   1,
			requesterRole: domain.RoleUser,
			prepareMock: func() {
				repo.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.Review{ID: 1, UserID: 1, Reviewable: courseRef}, nil)
				passthroughTx(tx)
				repo.EXPECT().Delete(gomock.Any(), 1).Return(errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
		{
			name:          "Counter failure aborts the delete",
			reviewID:      1,
			requesterID:   1,
			requesterRole: domain.RoleUser,
			prepareMock: func() {
				repo.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.Review{ID: 1, UserID: 1, Reviewable: courseRef}, nil)
				tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
					err := fn(ctx)
					assert.Error(t, err, "a failed counter write must roll the delete back")
					return err
				})
				repo.EXPECT().Delete(gomock.Any(), 1).Return(nil)
				userRepo.EXPECT().AddToReviewsCount(gomock.Any(), 1, -1).Return(errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			err := service.Delete(context.Background(), tt.reviewID, tt.requesterID, tt.requesterRole)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecompute(t *testing.T) {
	service, repo, catalogRepo, _, _ := NewMock(t)
	courseRef := domain.ReviewableRef{Kind: domain.KindCourse, ID: 10}

	tests := []struct {
		name          string
		prepareMock   func()
		expectedError error
	}{
		{
			name: "Aggregate written onto the item",
			prepareMock: func() {
				repo.EXPECT().AggregateForItem(gomock.Any(), courseRef).
					Return(domain.RatingSummary{AverageRating: 4.0, ReviewCount: 3}, nil)
				catalogRepo.EXPECT().UpdateRating(gomock.Any(), courseRef,
					domain.RatingSummary{AverageRating: 4.0, ReviewCount: 3}).Return(true, nil)
			},
			expectedError: nil,
		},
		{
			name: "Vanished target is a no-op",
			prepareMock: func() {
				repo.EXPECT().AggregateForItem(gomock.Any(), courseRef).
					Return(domain.RatingSummary{AverageRating: 4.0, ReviewCount: 3}, nil)
				catalogRepo.EXPECT().UpdateRating(gomock.Any(), courseRef, gomock.Any()).Return(false, nil)
			},
			expectedError: nil,
		},
		{
			name: "Aggregation failure",
			prepareMock: func() {
				repo.EXPECT().AggregateForItem(gomock.Any(), courseRef).
					Return(domain.RatingSummary{}, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			err := service.Recompute(context.Background(), courseRef)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestListForItem(t *testing.T) {
	service, repo, _, _, _ := NewMock(t)
	productRef := domain.ReviewableRef{Kind: domain.KindProduct, ID: 3}

	tests := []struct {
		name          string
		prepareMock   func()
		expected      []domain.Review
		expectedError error
	}{
		{
			name: "Reviews found",
			prepareMock: func() {
				repo.EXPECT().FindByItem(gomock.Any(), productRef).Return([]domain.Review{
					{ID: 1, UserID: 1, Reviewable: productRef, Rating: 5},
					{ID: 2, UserID: 2, Reviewable: productRef, Rating: 3},
				}, nil)
			},
			expected: []domain.Review{
				{ID: 1, UserID: 1, Reviewable: productRef, Rating: 5},
				{ID: 2, UserID: 2, Reviewable: productRef, Rating: 3},
			},
		},
		{
			name: "Database error",
			prepareMock: func() {
				repo.EXPECT().FindByItem(gomock.Any(), productRef).Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			reviews, err := service.ListForItem(context.Background(), productRef)
			if tt.expectedError != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, reviews)
			}
		})
	}
}
