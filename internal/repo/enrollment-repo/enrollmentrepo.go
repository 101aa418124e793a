package enrollmentrepo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/studyhub/studyhub/internal/domain"
	"github.com/studyhub/studyhub/internal/pg"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

const enrollmentColumns = `id, user_id, course_id, payment_status, price_paid, progress, status,
        last_accessed, completion_date, certificate_url, lessons_progress, notes, enrolled_at`

func (r *Repository) Save(ctx context.Context, enrollment *domain.Enrollment) error {
	query := `
        INSERT INTO enrollments (user_id, course_id, payment_status, price_paid, status, lessons_progress, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, progress, last_accessed, enrolled_at
    `
	ledger, err := marshalLedger(enrollment.LessonsProgress)
	if err != nil {
		return err
	}

	row := r.db.QueryRow(ctx, query, enrollment.UserID, enrollment.CourseID,
		enrollment.PaymentStatus, enrollment.PricePaid, enrollment.Status, ledger, enrollment.Notes)
	if err := row.Scan(&enrollment.ID, &enrollment.Progress, &enrollment.LastAccessed, &enrollment.EnrolledAt); err != nil {
		zap.L().Error("can't save enrollment", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Enrollment, error) {
	query := `
        SELECT ` + enrollmentColumns + `
        FROM enrollments
        WHERE id = $1
    `
	return r.scanEnrollment(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) FindByUserAndCourse(ctx context.Context, userID, courseID int) (*domain.Enrollment, error) {
	query := `
        SELECT ` + enrollmentColumns + `
        FROM enrollments
        WHERE user_id = $1 AND course_id = $2
    `
	return r.scanEnrollment(r.db.QueryRow(ctx, query, userID, courseID))
}

func (r *Repository) scanEnrollment(row pgx.Row) (*domain.Enrollment, error) {
	var enrollment domain.Enrollment
	var ledger []byte
	err := row.Scan(&enrollment.ID, &enrollment.UserID, &enrollment.CourseID,
		&enrollment.PaymentStatus, &enrollment.PricePaid, &enrollment.Progress,
		&enrollment.Status, &enrollment.LastAccessed, &enrollment.CompletionDate,
		&enrollment.CertificateURL, &ledger, &enrollment.Notes, &enrollment.EnrolledAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find enrollment", zap.Error(err))
		return nil, err
	}
	if err := unmarshalLedger(ledger, &enrollment.LessonsProgress); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.Enrollment, error) {
	query := `
        SELECT ` + enrollmentColumns + `
        FROM enrollments
        WHERE user_id = $1
        ORDER BY enrolled_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get enrollments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var enrollments []domain.Enrollment
	for rows.Next() {
		var enrollment domain.Enrollment
		var ledger []byte
		err := rows.Scan(&enrollment.ID, &enrollment.UserID, &enrollment.CourseID,
			&enrollment.PaymentStatus, &enrollment.PricePaid, &enrollment.Progress,
			&enrollment.Status, &enrollment.LastAccessed, &enrollment.CompletionDate,
			&enrollment.CertificateURL, &ledger, &enrollment.Notes, &enrollment.EnrolledAt)
		if err != nil {
			zap.L().Error("can't scan enrollment row", zap.Error(err))
			return nil, err
		}
		if err := unmarshalLedger(ledger, &enrollment.LessonsProgress); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, enrollment)
	}
	return enrollments, nil
}

func (r *Repository) Update(ctx context.Context, enrollment *domain.Enrollment) error {
	query := `
        UPDATE enrollments
        SET payment_status = $1, price_paid = $2, progress = $3, status = $4,
            last_accessed = $5, completion_date = $6, certificate_url = $7,
            lessons_progress = $8, notes = $9
        WHERE id = $10
    `
	ledger, err := marshalLedger(enrollment.LessonsProgress)
	if err != nil {
		return err
	}

	err = r.txManager.Begin(ctx, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query, enrollment.PaymentStatus, enrollment.PricePaid,
			enrollment.Progress, enrollment.Status, enrollment.LastAccessed,
			enrollment.CompletionDate, enrollment.CertificateURL, ledger,
			enrollment.Notes, enrollment.ID)
		if err != nil {
			zap.L().Error("can't update enrollment", zap.Error(err))
			return err
		}
		return nil
	})
	return err
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	query := `
        DELETE FROM enrollments
        WHERE id = $1
    `
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		zap.L().Error("can't delete enrollment", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) DeleteByUser(ctx context.Context, userID int) error {
	query := `
        DELETE FROM enrollments
        WHERE user_id = $1
    `
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		zap.L().Error("can't delete enrollments by user", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) DeleteByCourse(ctx context.Context, courseID int) error {
	query := `
        DELETE FROM enrollments
        WHERE course_id = $1
    `
	if _, err := r.db.Exec(ctx, query, courseID); err != nil {
		zap.L().Error("can't delete enrollments by course", zap.Error(err))
		return err
	}
	return nil
}

func marshalLedger(ledger map[string]domain.LessonProgress) ([]byte, error) {
	if ledger == nil {
		ledger = map[string]domain.LessonProgress{}
	}
	data, err := json.Marshal(ledger)
	if err != nil {
		zap.L().Error("can't marshal lessons progress", zap.Error(err))
		return nil, err
	}
	return data, nil
}

func unmarshalLedger(data []byte, ledger *map[string]domain.LessonProgress) error {
	if len(data) == 0 {
		*ledger = map[string]domain.LessonProgress{}
		return nil
	}
	if err := json.Unmarshal(data, ledger); err != nil {
		zap.L().Error("can't unmarshal lessons progress", zap.Error(err))
		return err
	}
	return nil
}
