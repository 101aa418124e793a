package enrollmentrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/studyhub/studyhub/internal/domain"
	"github.com/studyhub/studyhub/internal/pg"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	mockTxManager := pg.NewMockTXManager(ctrl)

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)
	defer mockDB.Close()
	defer ctrl.Finish()

	return repo, mockDB, mockTxManager
}

var enrollmentRows = []string{"id", "user_id", "course_id", "payment_status", "price_paid", "progress", "status",
	"last_accessed", "completion_date", "certificate_url", "lessons_progress", "notes", "enrolled_at"}

func TestRepository_Save(t *testing.T) {
	repo, mock, _ := NewMock(t)
	timeNow := time.Now()

	tests := []struct {
		name       string
		enrollment *domain.Enrollment
		mockSetup  func()
		expectErr  bool
	}{
		{
			name: "Save enrollment successfully",
			enrollment: &domain.Enrollment{
				UserID:        1,
				CourseID:      10,
				PaymentStatus: domain.PaymentPaid,
				PricePaid:     decimal.NewFromInt(50),
				Status:        domain.EnrollmentActive,
			},
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "progress", "last_accessed", "enrolled_at"}).
					AddRow(1, 0.0, timeNow, timeNow)
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO enrollments (user_id, course_id, payment_status, price_paid, status, lessons_progress, notes)`)).
					WithArgs(1, 10, domain.PaymentPaid, decimal.NewFromInt(50), domain.EnrollmentActive, []byte(`{}`), "").
					WillReturnRows(rows)
			},
			expectErr: false,
		},
		{
			name: "Database error",
			enrollment: &domain.Enrollment{
				UserID:   1,
				CourseID: 10,
				Status:   domain.EnrollmentActive,
			},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO enrollments`)).
					WithArgs(1, 10, "", decimal.Decimal{}, domain.EnrollmentActive, []byte(`{}`), "").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.Save(context.Background(), tt.enrollment)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 1, tt.enrollment.ID)
			}
		})
	}
}

func TestRepository_FindByUserAndCourse(t *testing.T) {
	repo, mock, _ := NewMock(t)
	timeNow := time.Now()

	query := `
        SELECT ` + enrollmentColumns + `
        FROM enrollments
        WHERE user_id = $1 AND course_id = $2
    `

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		check     func(t *testing.T, result *domain.Enrollment)
	}{
		{
			name: "Enrollment with a populated ledger",
			mockSetup: func() {
				rows := pgxmock.NewRows(enrollmentRows).
					AddRow(1, 1, 10, domain.PaymentPaid, decimal.NewFromInt(50), 50.0, domain.EnrollmentActive,
						timeNow, nil, "", []byte(`{"l1":{"watched_duration":300,"completed":true}}`), "", timeNow)
				mock.ExpectQuery(regexp.QuoteMeta(query)).
					WithArgs(1, 10).
					WillReturnRows(rows)
			},
			expectErr: false,
			check: func(t *testing.T, result *domain.Enrollment) {
				assert.NotNil(t, result)
				assert.Equal(t, 50.0, result.Progress)
				assert.Equal(t, domain.LessonProgress{WatchedDuration: 300, Completed: true}, result.LessonsProgress["l1"])
			},
		},
		{
			name: "Empty ledger column yields an empty map",
			mockSetup: func() {
				rows := pgxmock.NewRows(enrollmentRows).
					AddRow(1, 1, 10, domain.PaymentNotRequired, decimal.Decimal{}, 0.0, domain.EnrollmentActive,
						timeNow, nil, "", []byte(nil), "", timeNow)
				mock.ExpectQuery(regexp.QuoteMeta(query)).
					WithArgs(1, 10).
					WillReturnRows(rows)
			},
			expectErr: false,
			check: func(t *testing.T, result *domain.Enrollment) {
				assert.NotNil(t, result)
				assert.NotNil(t, result.LessonsProgress)
				assert.Empty(t, result.LessonsProgress)
			},
		},
		{
			name: "Enrollment does not exist",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(query)).
					WithArgs(1, 10).
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: false,
			check: func(t *testing.T, result *domain.Enrollment) {
				assert.Nil(t, result)
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(query)).
					WithArgs(1, 10).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByUserAndCourse(context.Background(), 1, 10)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.check != nil {
					tt.check(t, result)
				}
			}
		})
	}
}

func TestRepository_Update(t *testing.T) {
	repo, mock, tx := NewMock(t)
	timeNow := time.Now()

	tests := []struct {
		name       string
		enrollment *domain.Enrollment
		mockSetup  func()
		expectErr  bool
	}{
		{
			name: "Update enrollment with serialized ledger",
			enrollment: &domain.Enrollment{
				ID:            1,
				PaymentStatus: domain.PaymentPaid,
				PricePaid:     decimal.NewFromInt(50),
				Progress:      50.0,
				Status:        domain.EnrollmentActive,
				LastAccessed:  timeNow,
				LessonsProgress: map[string]domain.LessonProgress{
					"l1": {WatchedDuration: 300, Completed: true},
				},
			},
			mockSetup: func() {
				tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
					mock.ExpectExec(regexp.QuoteMeta(`UPDATE enrollments`)).
						WithArgs(domain.PaymentPaid, decimal.NewFromInt(50), 50.0, domain.EnrollmentActive,
							timeNow, nil, "", []byte(`{"l1":{"watched_duration":300,"completed":true}}`), "", 1).
						WillReturnResult(pgxmock.NewResult("UPDATE", 1))
					return fn(ctx)
				})
			},
			expectErr: false,
		},
		{
			name: "Database error",
			enrollment: &domain.Enrollment{
				ID:     1,
				Status: domain.EnrollmentActive,
			},
			mockSetup: func() {
				tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
					mock.ExpectExec(regexp.QuoteMeta(`UPDATE enrollments`)).
						WithArgs("", decimal.Decimal{}, 0.0, domain.EnrollmentActive,
							time.Time{}, nil, "", []byte(`{}`), "", 1).
						WillReturnError(errors.New("database error"))
					return fn(ctx)
				})
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.Update(context.Background(), tt.enrollment)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRepository_DeleteByCourse(t *testing.T) {
	repo, mock, _ := NewMock(t)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Delete enrollments for course",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM enrollments`)).
					WithArgs(10).
					WillReturnResult(pgxmock.NewResult("DELETE", 2))
			},
			expectErr: false,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM enrollments`)).
					WithArgs(10).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.DeleteByCourse(context.Background(), 10)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLedgerRoundTrip(t *testing.T) {
	ledger := map[string]domain.LessonProgress{
		"l1": {WatchedDuration: 300, Completed: true},
		"l2": {WatchedDuration: 120, Completed: false},
	}

	data, err := marshalLedger(ledger)
	assert.NoError(t, err)

	var decoded map[string]domain.LessonProgress
	assert.NoError(t, unmarshalLedger(data, &decoded))
	assert.Equal(t, ledger, decoded)

	// nil ledger persists as an empty object, not null
	data, err = marshalLedger(nil)
	assert.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}
