package enrollmentservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/studyhub/studyhub/internal/domain"
)

type Repo interface {
	Save(ctx context.Context, enrollment *domain.Enrollment) error
	FindByID(ctx context.Context, id int) (*domain.Enrollment, error)
	FindByUserAndCourse(ctx context.Context, userID, courseID int) (*domain.Enrollment, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.Enrollment, error)
	Update(ctx context.Context, enrollment *domain.Enrollment) error
	Delete(ctx context.Context, id int) error
}

type CatalogRepo interface {
	FindCourseByID(ctx context.Context, id int) (*domain.Course, error)
	CountLessons(ctx context.Context, courseID int) (int, error)
}

type Service struct {
	repo        Repo
	catalogRepo CatalogRepo
}

func New(repo Repo, catalogRepo CatalogRepo) *Service {
	return &Service{
		repo:        repo,
		catalogRepo: catalogRepo,
	}
}

var (
	ErrCourseNotFound       = errors.New("course not found")
	ErrAlreadyEnrolled      = errors.New("user already enrolled in this course")
	ErrEnrollmentNotFound   = errors.New("enrollment not found")
	ErrLessonIDRequired     = errors.New("lesson id is required")
	ErrNotEnrollmentOwner   = errors.New("enrollment belongs to another user")
	ErrInvalidStatus        = errors.New("invalid enrollment status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// UpdateParams carries a partial enrollment update. Nil fields are left
// untouched. An explicit Progress wins over ledger derivation.
type UpdateParams struct {
	PaymentStatus   *string
	Progress        *float64
	Status          *string
	LastAccessed    *time.Time
	CompletionDate  *time.Time
	CertificateURL  *string
	LessonsProgress map[string]domain.LessonProgress
	Notes           *string
}

func (s *Service) Enroll(ctx context.Context, userID, courseID int, paymentStatus string, pricePaid decimal.Decimal) (*domain.Enrollment, error) {
	if paymentStatus == "" {
		paymentStatus = domain.PaymentNotRequired
	}
	if !validPaymentStatus(paymentStatus) {
		return nil, ErrInvalidPaymentStatus
	}

	course, err := s.catalogRepo.FindCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		zap.L().Info("enrollment target course does not exist", zap.Int("course_id", courseID))
		return nil, ErrCourseNotFound
	}

	existing, err := s.repo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		zap.L().Info("user already enrolled",
			zap.Int("user_id", userID), zap.Int("course_id", courseID))
		return nil, ErrAlreadyEnrolled
	}

	enrollment := &domain.Enrollment{
		UserID:          userID,
		CourseID:        courseID,
		PaymentStatus:   paymentStatus,
		PricePaid:       pricePaid,
		Status:          domain.EnrollmentActive,
		LessonsProgress: map[string]domain.LessonProgress{},
	}
	if err := s.repo.Save(ctx, enrollment); err != nil {
		zap.L().Error("can't save enrollment: ", zap.Error(err))
		return nil, err
	}
	return enrollment, nil
}

func (s *Service) Unenroll(ctx context.Context, userID, courseID int) error {
	enrollment, err := s.repo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if enrollment == nil {
		return ErrEnrollmentNotFound
	}

	if err := s.repo.Delete(ctx, enrollment.ID); err != nil {
		zap.L().Error("can't delete enrollment: ", zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) Get(ctx context.Context, userID, courseID int) (*domain.Enrollment, error) {
	enrollment, err := s.repo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, ErrEnrollmentNotFound
	}
	return enrollment, nil
}

func (s *Service) ListForUser(ctx context.Context, userID int) ([]domain.Enrollment, error) {
	enrollments, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get enrollments", zap.Error(err))
		return nil, err
	}
	return enrollments, nil
}

// RecordLessonProgress upserts one ledger entry and re-derives the overall
// progress from the full ledger, so missed or repeated events cannot make
// the percentage drift.
func (s *Service) RecordLessonProgress(ctx context.Context, userID, courseID int, lessonID string, watchedDuration *int, completed *bool) (*domain.Enrollment, error) {
	if lessonID == "" {
		return nil, ErrLessonIDRequired
	}

	enrollment, err := s.repo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, ErrEnrollmentNotFound
	}

	if enrollment.LessonsProgress == nil {
		enrollment.LessonsProgress = map[string]domain.LessonProgress{}
	}

	entry := enrollment.LessonsProgress[lessonID]
	if watchedDuration != nil {
		entry.WatchedDuration = *watchedDuration
	}
	if completed != nil {
		entry.Completed = *completed
	}
	enrollment.LessonsProgress[lessonID] = entry

	totalLessons, err := s.catalogRepo.CountLessons(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrollment.Progress = deriveProgress(enrollment.LessonsProgress, totalLessons)
	enrollment.LastAccessed = time.Now()
	s.applyCompletion(enrollment)

	if err := s.repo.Update(ctx, enrollment); err != nil {
		zap.L().Error("can't update enrollment progress: ", zap.Error(err))
		return nil, err
	}
	return enrollment, nil
}

// deriveProgress recomputes the completion percentage over the current
// ledger. When the course has no known lesson list the ledger's own size is
// the denominator; an empty ledger then yields 0, not a division error.
func deriveProgress(ledger map[string]domain.LessonProgress, totalLessons int) float64 {
	if totalLessons == 0 {
		totalLessons = len(ledger)
	}
	if totalLessons == 0 {
		return 0
	}

	completed := 0
	for _, entry := range ledger {
		if entry.Completed {
			completed++
		}
	}
	return 100 * float64(completed) / float64(totalLessons)
}

// applyCompletion moves an active enrollment to completed once progress
// reaches 100. This is the only path into the completed state.
func (s *Service) applyCompletion(enrollment *domain.Enrollment) {
	if enrollment.Status != domain.EnrollmentActive || enrollment.Progress < 100 {
		return
	}
	now := time.Now()
	enrollment.Status = domain.EnrollmentCompleted
	enrollment.CompletionDate = &now
	if enrollment.CertificateURL == "" {
		enrollment.CertificateURL = fmt.Sprintf("/certificates/%s.pdf", uuid.NewString())
	}
	zap.L().Info("enrollment completed",
		zap.Int("user_id", enrollment.UserID), zap.Int("course_id", enrollment.CourseID))
}

// Update applies a partial update. Owners and admins only. Explicitly
// supplied progress is taken as-is; the next lesson-progress event re-derives
// it from the ledger again.
func (s *Service) Update(ctx context.Context, enrollmentID, requesterID int, requesterRole string, params UpdateParams) (*domain.Enrollment, error) {
	if params.Status != nil && !validUpdateStatus(*params.Status) {
		return nil, ErrInvalidStatus
	}
	if params.PaymentStatus != nil && !validPaymentStatus(*params.PaymentStatus) {
		return nil, ErrInvalidPaymentStatus
	}

	enrollment, err := s.repo.FindByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, ErrEnrollmentNotFound
	}
	if enrollment.UserID != requesterID && requesterRole != domain.RoleAdmin {
		return nil, ErrNotEnrollmentOwner
	}

	if params.PaymentStatus != nil {
		enrollment.PaymentStatus = *params.PaymentStatus
	}
	if params.Progress != nil {
		enrollment.Progress = *params.Progress
	}
	if params.Status != nil {
		enrollment.Status = *params.Status
	}
	if params.LastAccessed != nil {
		enrollment.LastAccessed = *params.LastAccessed
	}
	if params.CompletionDate != nil {
		enrollment.CompletionDate = params.CompletionDate
	}
	if params.CertificateURL != nil {
		enrollment.CertificateURL = *params.CertificateURL
	}
	if params.LessonsProgress != nil {
		enrollment.LessonsProgress = params.LessonsProgress
	}
	if params.Notes != nil {
		enrollment.Notes = *params.Notes
	}

	if err := s.repo.Update(ctx, enrollment); err != nil {
		zap.L().Error("can't update enrollment: ", zap.Error(err))
		return nil, err
	}
	return enrollment, nil
}

// completed is only ever reached through progress derivation, never set
// directly by request input.
func validUpdateStatus(status string) bool {
	switch status {
	case domain.EnrollmentActive, domain.EnrollmentPaused, domain.EnrollmentCancelled:
		return true
	default:
		return false
	}
}

func validPaymentStatus(status string) bool {
	switch status {
	case domain.PaymentNotRequired, domain.PaymentPaid, domain.PaymentPending, domain.PaymentRefunded:
		return true
	default:
		return false
	}
}
