package enrollments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/studyhub/studyhub/internal/domain"
	"github.com/studyhub/studyhub/internal/dto"
	"github.com/studyhub/studyhub/internal/service/enrollmentservice"
	"github.com/studyhub/studyhub/pkg/auth"
	"github.com/studyhub/studyhub/pkg/utils"
)

type Service interface {
	Enroll(ctx context.Context, userID, courseID int, paymentStatus string, pricePaid decimal.Decimal) (*domain.Enrollment, error)
	Unenroll(ctx context.Context, userID, courseID int) error
	Get(ctx context.Context, userID, courseID int) (*domain.Enrollment, error)
	ListForUser(ctx context.Context, userID int) ([]domain.Enrollment, error)
	RecordLessonProgress(ctx context.Context, userID, courseID int, lessonID string, watchedDuration *int, completed *bool) (*domain.Enrollment, error)
	Update(ctx context.Context, enrollmentID, requesterID int, requesterRole string, params enrollmentservice.UpdateParams) (*domain.Enrollment, error)
}

type EnrollmentHandler struct {
	enrollmentService Service
}

func New(enrollmentService Service) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
	}
}

// Enroll godoc
//
//	@Summary		Enroll in a course
//	@Description	Create an enrollment for the authenticated user; a user enrolls in a course at most once
//	@Tags			Enrollments
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.EnrollRequestDTO	true	"Enrollment request"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.EnrollmentResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid request body"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"Course not found"
//	@Failure		409	{object}	utils.Response	"Already enrolled"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/enrollments [post]
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.EnrollRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	pricePaid := decimal.Zero
	if req.PricePaid != "" {
		var err error
		pricePaid, err = decimal.NewFromString(req.PricePaid)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid price")
			return
		}
	}

	enrollment, err := h.enrollmentService.Enroll(r.Context(), userID, req.CourseID, req.PaymentStatus, pricePaid)
	if err != nil {
		switch {
		case errors.Is(err, enrollmentservice.ErrInvalidPaymentStatus):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, enrollmentservice.ErrCourseNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, enrollmentservice.ErrAlreadyEnrolled):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toEnrollmentDTO(enrollment))
}

// Unenroll godoc
//
//	@Summary		Unenroll from a course
//	@Description	Delete the authenticated user's enrollment for a course
//	@Tags			Enrollments
//	@Produce		json
//	@Param			courseId	path	int	true	"Course id"
//	@Security		BearerAuth
//	@Success		204	"Enrollment deleted"
//	@Failure		400	{object}	utils.Response	"Invalid course id"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"Enrollment not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/enrollments/{courseId} [delete]
func (h *EnrollmentHandler) Unenroll(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	courseID, err := strconv.Atoi(chi.URLParam(r, "courseId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid course id")
		return
	}

	if err := h.enrollmentService.Unenroll(r.Context(), userID, courseID); err != nil {
		if errors.Is(err, enrollmentservice.ErrEnrollmentNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusNoContent, nil)
}

// GetEnrollments godoc
//
//	@Summary		List own enrollments
//	@Description	Retrieve the authenticated user's enrollments with their lesson ledgers
//	@Tags			Enrollments
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.EnrollmentResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/enrollments [get]
func (h *EnrollmentHandler) GetEnrollments(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	enrollments, err := h.enrollmentService.ListForUser(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.EnrollmentResponseDTO, 0, len(enrollments))
	for i := range enrollments {
		response = append(response, toEnrollmentDTO(&enrollments[i]))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// RecordLessonProgress godoc
//
//	@Summary		Record lesson progress
//	@Description	Upsert one lesson ledger entry and re-derive the overall completion percentage
//	@Tags			Enrollments
//	@Accept			json
//	@Produce		json
//	@Param			courseId	path	int								true	"Course id"
//	@Param			request		body	dto.LessonProgressRequestDTO	true	"Lesson progress event"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.EnrollmentResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid body or missing lesson id"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"Enrollment not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/enrollments/{courseId}/progress [post]
func (h *EnrollmentHandler) RecordLessonProgress(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	courseID, err := strconv.Atoi(chi.URLParam(r, "courseId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid course id")
		return
	}

	var req dto.LessonProgressRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	enrollment, err := h.enrollmentService.RecordLessonProgress(r.Context(), userID, courseID,
		req.LessonID, req.WatchedDuration, req.Completed)
	if err != nil {
		switch {
		case errors.Is(err, enrollmentservice.ErrLessonIDRequired):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, enrollmentservice.ErrEnrollmentNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toEnrollmentDTO(enrollment))
}

// UpdateEnrollment godoc
//
//	@Summary		Update an enrollment
//	@Description	Apply a partial update; an explicitly supplied progress overrides the derived value
//	@Tags			Enrollments
//	@Accept			json
//	@Produce		json
//	@Param			id		path	int								true	"Enrollment id"
//	@Param			request	body	dto.UpdateEnrollmentRequestDTO	true	"Fields to update"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.EnrollmentResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid body or status"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Enrollment belongs to another user"
//	@Failure		404	{object}	utils.Response	"Enrollment not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/enrollments/{id} [patch]
func (h *EnrollmentHandler) UpdateEnrollment(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	role, _ := r.Context().Value(auth.RoleKey).(string)

	enrollmentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid enrollment id")
		return
	}

	var req dto.UpdateEnrollmentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	params, err := toUpdateParams(req)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	enrollment, err := h.enrollmentService.Update(r.Context(), enrollmentID, userID, role, params)
	if err != nil {
		switch {
		case errors.Is(err, enrollmentservice.ErrInvalidStatus),
			errors.Is(err, enrollmentservice.ErrInvalidPaymentStatus):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, enrollmentservice.ErrEnrollmentNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, enrollmentservice.ErrNotEnrollmentOwner):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toEnrollmentDTO(enrollment))
}

func toUpdateParams(req dto.UpdateEnrollmentRequestDTO) (enrollmentservice.UpdateParams, error) {
	params := enrollmentservice.UpdateParams{
		PaymentStatus:  req.PaymentStatus,
		Progress:       req.Progress,
		Status:         req.Status,
		CertificateURL: req.CertificateURL,
		Notes:          req.Notes,
	}

	if req.LastAccessed != nil {
		t, err := time.Parse(time.RFC3339, *req.LastAccessed)
		if err != nil {
			return params, errors.New("invalid last_accessed timestamp")
		}
		params.LastAccessed = &t
	}
	if req.CompletionDate != nil {
		t, err := time.Parse(time.RFC3339, *req.CompletionDate)
		if err != nil {
			return params, errors.New("invalid completion_date timestamp")
		}
		params.CompletionDate = &t
	}
	if req.LessonsProgress != nil {
		ledger := make(map[string]domain.LessonProgress, len(req.LessonsProgress))
		for lessonID, entry := range req.LessonsProgress {
			ledger[lessonID] = domain.LessonProgress{
				WatchedDuration: entry.WatchedDuration,
				Completed:       entry.Completed,
			}
		}
		params.LessonsProgress = ledger
	}
	return params, nil
}

func toEnrollmentDTO(enrollment *domain.Enrollment) dto.EnrollmentResponseDTO {
	ledger := make(map[string]dto.LessonProgressDTO, len(enrollment.LessonsProgress))
	for lessonID, entry := range enrollment.LessonsProgress {
		ledger[lessonID] = dto.LessonProgressDTO{
			WatchedDuration: entry.WatchedDuration,
			Completed:       entry.Completed,
		}
	}

	response := dto.EnrollmentResponseDTO{
		ID:              enrollment.ID,
		UserID:          enrollment.UserID,
		CourseID:        enrollment.CourseID,
		PaymentStatus:   enrollment.PaymentStatus,
		PricePaid:       enrollment.PricePaid.String(),
		Progress:        enrollment.Progress,
		Status:          enrollment.Status,
		LastAccessed:    enrollment.LastAccessed.Format(time.RFC3339),
		CertificateURL:  enrollment.CertificateURL,
		LessonsProgress: ledger,
		Notes:           enrollment.Notes,
		EnrolledAt:      enrollment.EnrolledAt.Format(time.RFC3339),
	}
	if enrollment.CompletionDate != nil {
		response.CompletionDate = enrollment.CompletionDate.Format(time.RFC3339)
	}
	return response
}
