package enrollments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/studyhub/studyhub/internal/domain"
	"github.com/studyhub/studyhub/internal/dto"
	"github.com/studyhub/studyhub/internal/service/enrollmentservice"
	"github.com/studyhub/studyhub/pkg/auth"
)

func NewMock(t *testing.T) (*EnrollmentHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func authedRequest(method, target string, body []byte, params map[string]string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewBuffer(body))
	ctx := context.WithValue(r.Context(), auth.UserIDKey, 1)
	ctx = context.WithValue(ctx, auth.RoleKey, domain.RoleUser)

	if params != nil {
		routeCtx := chi.NewRouteContext()
		for k, v := range params {
			routeCtx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	}
	return r.WithContext(ctx)
}

func TestEnrollHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful enrollment",
			body: `{"course_id":10,"payment_status":"paid","price_paid":"49.99"}`,
			prepareMock: func() {
				price, _ := decimal.NewFromString("49.99")
				service.EXPECT().
					Enroll(gomock.Any(), 1, 10, "paid", price).
					Return(&domain.Enrollment{
						ID:              4,
						UserID:          1,
						CourseID:        10,
						PaymentStatus:   domain.PaymentPaid,
						PricePaid:       price,
						Status:          domain.EnrollmentActive,
						LessonsProgress: map[string]domain.LessonProgress{},
					}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:          "Invalid request body",
			body:          `{invalid`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name:          "Invalid price",
			body:          `{"course_id":10,"price_paid":"abc"}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid price",
		},
		{
			name: "Course not found",
			body: `{"course_id":99}`,
			prepareMock: func() {
				service.EXPECT().
					Enroll(gomock.Any(), 1, 99, "", decimal.Zero).
					Return(nil, enrollmentservice.ErrCourseNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "course not found",
		},
		{
			name: "Unknown payment status",
			body: `{"course_id":10,"payment_status":"comped"}`,
			prepareMock: func() {
				service.EXPECT().
					Enroll(gomock.Any(), 1, 10, "comped", decimal.Zero).
					Return(nil, enrollmentservice.ErrInvalidPaymentStatus)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid payment status",
		},
		{
			name: "Already enrolled",
			body: `{"course_id":10}`,
			prepareMock: func() {
				service.EXPECT().
					Enroll(gomock.Any(), 1, 10, "", decimal.Zero).
					Return(nil, enrollmentservice.ErrAlreadyEnrolled)
			},
			expectedCode:  http.StatusConflict,
			expectedError: "already enrolled",
		},
		{
			name: "Internal server error",
			body: `{"course_id":10}`,
			prepareMock: func() {
				service.EXPECT().
					Enroll(gomock.Any(), 1, 10, "", decimal.Zero).
					Return(nil, errors.New("error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := authedRequest(http.MethodPost, "/api/enrollments", []byte(tt.body), nil)
			w := httptest.NewRecorder()

			handler.Enroll(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusCreated {
				var body dto.EnrollmentResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, 4, body.ID)
				assert.Equal(t, domain.EnrollmentActive, body.Status)
				assert.Equal(t, "49.99", body.PricePaid)
			}
		})
	}
}

func TestRecordLessonProgressHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		courseID      string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name:     "Progress recorded",
			courseID: "10",
			body:     `{"lesson_id":"l1","completed":true}`,
			prepareMock: func() {
				service.EXPECT().
					RecordLessonProgress(gomock.Any(), 1, 10, "l1", gomock.Any(), gomock.Any()).
					Return(&domain.Enrollment{
						ID:       4,
						UserID:   1,
						CourseID: 10,
						Progress: 25.0,
						Status:   domain.EnrollmentActive,
						LessonsProgress: map[string]domain.LessonProgress{
							"l1": {Completed: true},
						},
					}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:          "Invalid course id",
			courseID:      "abc",
			body:          `{"lesson_id":"l1"}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid course id",
		},
		{
			name:     "Missing lesson id",
			courseID: "10",
			body:     `{"completed":true}`,
			prepareMock: func() {
				service.EXPECT().
					RecordLessonProgress(gomock.Any(), 1, 10, "", gomock.Any(), gomock.Any()).
					Return(nil, enrollmentservice.ErrLessonIDRequired)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "lesson id is required",
		},
		{
			name:     "Enrollment not found",
			courseID: "10",
			body:     `{"lesson_id":"l1","completed":true}`,
			prepareMock: func() {
				service.EXPECT().
					RecordLessonProgress(gomock.Any(), 1, 10, "l1", gomock.Any(), gomock.Any()).
					Return(nil, enrollmentservice.ErrEnrollmentNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "enrollment not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := authedRequest(http.MethodPost, "/api/enrollments/"+tt.courseID+"/progress", []byte(tt.body),
				map[string]string{"courseId": tt.courseID})
			w := httptest.NewRecorder()

			handler.RecordLessonProgress(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusOK {
				var body dto.EnrollmentResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, 25.0, body.Progress)
				assert.True(t, body.LessonsProgress["l1"].Completed)
			}
		})
	}
}

func TestUnenrollHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		courseID      string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name:     "Enrollment deleted",
			courseID: "10",
			prepareMock: func() {
				service.EXPECT().Unenroll(gomock.Any(), 1, 10).Return(nil)
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name:          "Invalid course id",
			courseID:      "abc",
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid course id",
		},
		{
			name:     "Enrollment not found",
			courseID: "10",
			prepareMock: func() {
				service.EXPECT().Unenroll(gomock.Any(), 1, 10).Return(enrollmentservice.ErrEnrollmentNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "enrollment not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := authedRequest(http.MethodDelete, "/api/enrollments/"+tt.courseID, nil,
				map[string]string{"courseId": tt.courseID})
			w := httptest.NewRecorder()

			handler.Unenroll(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
		})
	}
}

func TestUpdateEnrollmentHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		enrollmentID  string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name:         "Status update",
			enrollmentID: "4",
			body:         `{"status":"paused"}`,
			prepareMock: func() {
				service.EXPECT().
					Update(gomock.Any(), 4, 1, domain.RoleUser, gomock.Any()).
					Return(&domain.Enrollment{ID: 4, UserID: 1, Status: domain.EnrollmentPaused}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:          "Invalid enrollment id",
			enrollmentID:  "abc",
			body:          `{"status":"paused"}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid enrollment id",
		},
		{
			name:          "Invalid last_accessed timestamp",
			enrollmentID:  "4",
			body:          `{"last_accessed":"not-a-timestamp"}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid last_accessed timestamp",
		},
		{
			name:         "Completed status rejected",
			enrollmentID: "4",
			body:         `{"status":"completed"}`,
			prepareMock: func() {
				service.EXPECT().
					Update(gomock.Any(), 4, 1, domain.RoleUser, gomock.Any()).
					Return(nil, enrollmentservice.ErrInvalidStatus)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid enrollment status",
		},
		{
			name:         "Unknown payment status rejected",
			enrollmentID: "4",
			body:         `{"payment_status":"comped"}`,
			prepareMock: func() {
				service.EXPECT().
					Update(gomock.Any(), 4, 1, domain.RoleUser, gomock.Any()).
					Return(nil, enrollmentservice.ErrInvalidPaymentStatus)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid payment status",
		},
		{
			name:         "Enrollment belongs to another user",
			enrollmentID: "4",
			body:         `{"status":"paused"}`,
			prepareMock: func() {
				service.EXPECT().
					Update(gomock.Any(), 4, 1, domain.RoleUser, gomock.Any()).
					Return(nil, enrollmentservice.ErrNotEnrollmentOwner)
			},
			expectedCode:  http.StatusForbidden,
			expectedError: "enrollment belongs to another user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := authedRequest(http.MethodPatch, "/api/enrollments/"+tt.enrollmentID, []byte(tt.body),
				map[string]string{"id": tt.enrollmentID})
			w := httptest.NewRecorder()

			handler.UpdateEnrollment(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
		})
	}
}

func TestGetEnrollmentsHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		prepareMock   func()
		expectedCode  int
		expectedLen   int
		expectedError string
	}{
		{
			name: "Enrollments listed",
			prepareMock: func() {
				service.EXPECT().ListForUser(gomock.Any(), 1).Return([]domain.Enrollment{
					{ID: 4, UserID: 1, CourseID: 10, Status: domain.EnrollmentActive},
					{ID: 5, UserID: 1, CourseID: 11, Status: domain.EnrollmentCompleted},
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedLen:  2,
		},
		{
			name: "Internal server error",
			prepareMock: func() {
				service.EXPECT().ListForUser(gomock.Any(), 1).Return(nil, errors.New("error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := authedRequest(http.MethodGet, "/api/enrollments", nil, nil)
			w := httptest.NewRecorder()

			handler.GetEnrollments(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusOK {
				var body []dto.EnrollmentResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Len(t, body, tt.expectedLen)
			}
		})
	}
}
