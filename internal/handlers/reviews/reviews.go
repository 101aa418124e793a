package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/studyhub/studyhub/internal/domain"
	"github.com/studyhub/studyhub/internal/dto"
	"github.com/studyhub/studyhub/internal/service/reviewservice"
	"github.com/studyhub/studyhub/pkg/auth"
	"github.com/studyhub/studyhub/pkg/utils"
)

type Service interface {
	Create(ctx context.Context, userID int, ref domain.ReviewableRef, rating int, comment string) (*domain.Review, error)
	Update(ctx context.Context, reviewID, requesterID int, rating *int, comment *string) (*domain.Review, error)
	Delete(ctx context.Context, reviewID, requesterID int, requesterRole string) error
	ListForItem(ctx context.Context, ref domain.ReviewableRef) ([]domain.Review, error)
	ListForUser(ctx context.Context, userID int) ([]domain.Review, error)
}

type ReviewHandler struct {
	reviewService Service
}

func New(reviewService Service) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// CreateReview godoc
//
//	@Summary		Create a review
//	@Description	Leave a review for a product or course; one review per user per item
//	@Tags			Reviews
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.CreateReviewRequestDTO	true	"Review to create"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.ReviewResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid body, kind, rating or comment"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"Reviewable item not found"
//	@Failure		409	{object}	utils.Response	"Review already exists"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/reviews [post]
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.CreateReviewRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	kind, err := domain.ParseReviewableKind(req.ReviewableKind)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown reviewable kind")
		return
	}
	ref := domain.ReviewableRef{Kind: kind, ID: req.ReviewableID}

	review, err := h.reviewService.Create(r.Context(), userID, ref, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, reviewservice.ErrInvalidRating), errors.Is(err, reviewservice.ErrEmptyComment):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, reviewservice.ErrItemNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, reviewservice.ErrReviewExists):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toReviewDTO(review))
}

// UpdateReview godoc
//
//	@Summary		Update a review
//	@Description	Apply a partial update to an own review; omitted fields keep their values
//	@Tags			Reviews
//	@Accept			json
//	@Produce		json
//	@Param			id		path	int							true	"Review id"
//	@Param			request	body	dto.UpdateReviewRequestDTO	true	"Fields to update"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.ReviewResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid body, rating or comment"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Review belongs to another user"
//	@Failure		404	{object}	utils.Response	"Review not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/reviews/{id} [patch]
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	reviewID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid review id")
		return
	}

	var req dto.UpdateReviewRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	review, err := h.reviewService.Update(r.Context(), reviewID, userID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, reviewservice.ErrInvalidRating), errors.Is(err, reviewservice.ErrEmptyComment):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, reviewservice.ErrReviewNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, reviewservice.ErrNotReviewOwner):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toReviewDTO(review))
}

// DeleteReview godoc
//
//	@Summary		Delete a review
//	@Description	Remove an own review; admins may remove any review
//	@Tags			Reviews
//	@Produce		json
//	@Param			id	path	int	true	"Review id"
//	@Security		BearerAuth
//	@Success		204	"Review deleted"
//	@Failure		400	{object}	utils.Response	"Invalid review id"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Review belongs to another user"
//	@Failure		404	{object}	utils.Response	"Review not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	role, _ := r.Context().Value(auth.RoleKey).(string)

	reviewID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid review id")
		return
	}

	if err := h.reviewService.Delete(r.Context(), reviewID, userID, role); err != nil {
		switch {
		case errors.Is(err, reviewservice.ErrReviewNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, reviewservice.ErrNotReviewOwner):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusNoContent, nil)
}

// GetItemReviews godoc
//
//	@Summary		List reviews for an item
//	@Description	Retrieve all reviews for a product or course
//	@Tags			Reviews
//	@Produce		json
//	@Param			kind	path	string	true	"Reviewable kind (product or course)"
//	@Param			id		path	int		true	"Item id"
//	@Success		200	{array}		dto.ReviewResponseDTO
//	@Failure		400	{object}	utils.Response	"Unknown reviewable kind"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/reviews/{kind}/{id} [get]
func (h *ReviewHandler) GetItemReviews(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseReviewableKind(chi.URLParam(r, "kind"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown reviewable kind")
		return
	}
	itemID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	reviews, err := h.reviewService.ListForItem(r.Context(), domain.ReviewableRef{Kind: kind, ID: itemID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.ReviewResponseDTO, 0, len(reviews))
	for i := range reviews {
		response = append(response, toReviewDTO(&reviews[i]))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetUserReviews godoc
//
//	@Summary		List own reviews
//	@Description	Retrieve all reviews left by the authenticated user
//	@Tags			Reviews
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.ReviewResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/reviews/my [get]
func (h *ReviewHandler) GetUserReviews(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	reviews, err := h.reviewService.ListForUser(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.ReviewResponseDTO, 0, len(reviews))
	for i := range reviews {
		response = append(response, toReviewDTO(&reviews[i]))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func toReviewDTO(review *domain.Review) dto.ReviewResponseDTO {
	return dto.ReviewResponseDTO{
		ID:             review.ID,
		UserID:         review.UserID,
		ReviewableID:   review.Reviewable.ID,
		ReviewableKind: string(review.Reviewable.Kind),
		Rating:         review.Rating,
		Comment:        review.Comment,
		CreatedAt:      review.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      review.UpdatedAt.Format(time.RFC3339),
	}
}
