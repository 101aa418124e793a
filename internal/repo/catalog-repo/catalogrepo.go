package catalogrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/studyhub/studyhub/internal/domain"
	"github.com/studyhub/studyhub/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) CreateProduct(ctx context.Context, product *domain.Product) error {
	query := `
        INSERT INTO products (name, description, price)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	row := r.db.QueryRow(ctx, query, product.Name, product.Description, product.Price)
	if err := row.Scan(&product.ID, &product.CreatedAt); err != nil {
		zap.L().Error("can't create product", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) CreateCourse(ctx context.Context, course *domain.Course) error {
	query := `
        INSERT INTO courses (title, description, price)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	row := r.db.QueryRow(ctx, query, course.Title, course.Description, course.Price)
	if err := row.Scan(&course.ID, &course.CreatedAt); err != nil {
		zap.L().Error("can't create course", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindProductByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `
        SELECT id, name, description, price, average_rating, review_count, created_at
        FROM products
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, id)

	var product domain.Product
	err := row.Scan(&product.ID, &product.Name, &product.Description, &product.Price,
		&product.AverageRating, &product.ReviewCount, &product.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find product", zap.Error(err))
		return nil, err
	}
	return &product, nil
}

func (r *Repository) FindCourseByID(ctx context.Context, id int) (*domain.Course, error) {
	query := `
        SELECT id, title, description, price, average_rating, review_count, created_at
        FROM courses
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, id)

	var course domain.Course
	err := row.Scan(&course.ID, &course.Title, &course.Description, &course.Price,
		&course.AverageRating, &course.ReviewCount, &course.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find course", zap.Error(err))
		return nil, err
	}
	return &course, nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
        SELECT id, name, description, price, average_rating, review_count, created_at
        FROM products
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("can't list products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var product domain.Product
		err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Price,
			&product.AverageRating, &product.ReviewCount, &product.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan product row", zap.Error(err))
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

func (r *Repository) ListCourses(ctx context.Context) ([]domain.Course, error) {
	query := `
        SELECT id, title, description, price, average_rating, review_count, created_at
        FROM courses
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("can't list courses", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		var course domain.Course
		err := rows.Scan(&course.ID, &course.Title, &course.Description, &course.Price,
			&course.AverageRating, &course.ReviewCount, &course.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan course row", zap.Error(err))
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func (r *Repository) AddLesson(ctx context.Context, lesson *domain.Lesson) error {
	query := `
        INSERT INTO lessons (course_id, title, position, duration)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	row := r.db.QueryRow(ctx, query, lesson.CourseID, lesson.Title, lesson.Position, lesson.Duration)
	if err := row.Scan(&lesson.ID); err != nil {
		zap.L().Error("can't add lesson", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindLessonsByCourseID(ctx context.Context, courseID int) ([]domain.Lesson, error) {
	query := `
        SELECT id, course_id, title, position, duration
        FROM lessons
        WHERE course_id = $1
        ORDER BY position ASC
    `
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		zap.L().Error("can't get lessons", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var lessons []domain.Lesson
	for rows.Next() {
		var lesson domain.Lesson
		if err := rows.Scan(&lesson.ID, &lesson.CourseID, &lesson.Title, &lesson.Position, &lesson.Duration); err != nil {
			zap.L().Error("can't scan lesson row", zap.Error(err))
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	return lessons, nil
}

func (r *Repository) CountLessons(ctx context.Context, courseID int) (int, error) {
	query := `
        SELECT COUNT(*)
        FROM lessons
        WHERE course_id = $1
    `
	var count int
	if err := r.db.QueryRow(ctx, query, courseID).Scan(&count); err != nil {
		zap.L().Error("can't count lessons", zap.Error(err))
		return 0, err
	}
	return count, nil
}

// ItemExists reports whether the referenced product or course is present.
func (r *Repository) ItemExists(ctx context.Context, ref domain.ReviewableRef) (bool, error) {
	var query string
	switch ref.Kind {
	case domain.KindProduct:
		query = `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`
	case domain.KindCourse:
		query = `SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1)`
	default:
		return false, domain.ErrUnknownReviewableKind
	}

	var exists bool
	if err := r.db.QueryRow(ctx, query, ref.ID).Scan(&exists); err != nil {
		zap.L().Error("can't check item existence", zap.Error(err))
		return false, err
	}
	return exists, nil
}

// UpdateRating writes the derived aggregate pair onto the item row. Returns
// false when the item no longer exists.
func (r *Repository) UpdateRating(ctx context.Context, ref domain.ReviewableRef, summary domain.RatingSummary) (bool, error) {
	var query string
	switch ref.Kind {
	case domain.KindProduct:
		query = `UPDATE products SET average_rating = $1, review_count = $2 WHERE id = $3`
	case domain.KindCourse:
		query = `UPDATE courses SET average_rating = $1, review_count = $2 WHERE id = $3`
	default:
		return false, domain.ErrUnknownReviewableKind
	}

	tag, err := r.db.Exec(ctx, query, summary.AverageRating, summary.ReviewCount, ref.ID)
	if err != nil {
		zap.L().Error("can't update item rating", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteItem removes the item row itself. Dependent records are the cascade
// coordinator's responsibility.
func (r *Repository) DeleteItem(ctx context.Context, ref domain.ReviewableRef) (bool, error) {
	var query string
	switch ref.Kind {
	case domain.KindProduct:
		query = `DELETE FROM products WHERE id = $1`
	case domain.KindCourse:
		query = `DELETE FROM courses WHERE id = $1`
	default:
		return false, domain.ErrUnknownReviewableKind
	}

	tag, err := r.db.Exec(ctx, query, ref.ID)
	if err != nil {
		zap.L().Error("can't delete item", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
