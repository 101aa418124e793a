package catalogservice

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/studyhub/studyhub/internal/domain"
)

type Repo interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	CreateCourse(ctx context.Context, course *domain.Course) error
	FindProductByID(ctx context.Context, id int) (*domain.Product, error)
	FindCourseByID(ctx context.Context, id int) (*domain.Course, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCourses(ctx context.Context) ([]domain.Course, error)
	AddLesson(ctx context.Context, lesson *domain.Lesson) error
	FindLessonsByCourseID(ctx context.Context, courseID int) ([]domain.Lesson, error)
}

type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{
		repo: repo,
	}
}

var (
	ErrEmptyName      = errors.New("name must not be empty")
	ErrItemNotFound   = errors.New("item not found")
	ErrCourseNotFound = errors.New("course not found")
)

// CreateProduct starts the item with a zeroed aggregate; only the rating
// aggregator writes averageRating/reviewCount afterwards.
func (s *Service) CreateProduct(ctx context.Context, name, description string, price decimal.Decimal) (*domain.Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}

	product := &domain.Product{
		Name:        name,
		Description: description,
		Price:       price,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		zap.L().Error("can't create product: ", zap.Error(err))
		return nil, err
	}
	return product, nil
}

func (s *Service) CreateCourse(ctx context.Context, title, description string, price decimal.Decimal) (*domain.Course, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyName
	}

	course := &domain.Course{
		Title:       title,
		Description: description,
		Price:       price,
	}
	if err := s.repo.CreateCourse(ctx, course); err != nil {
		zap.L().Error("can't create course: ", zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (s *Service) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrItemNotFound
	}
	return product, nil
}

func (s *Service) GetCourse(ctx context.Context, id int) (*domain.Course, []domain.Lesson, error) {
	course, err := s.repo.FindCourseByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if course == nil {
		return nil, nil, ErrCourseNotFound
	}

	lessons, err := s.repo.FindLessonsByCourseID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return course, lessons, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		zap.L().Error("failed to list products", zap.Error(err))
		return nil, err
	}
	return products, nil
}

func (s *Service) ListCourses(ctx context.Context) ([]domain.Course, error) {
	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		zap.L().Error("failed to list courses", zap.Error(err))
		return nil, err
	}
	return courses, nil
}

func (s *Service) AddLesson(ctx context.Context, courseID int, title string, position, duration int) (*domain.Lesson, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyName
	}

	course, err := s.repo.FindCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	lesson := &domain.Lesson{
		CourseID: courseID,
		Title:    title,
		Position: position,
		Duration: duration,
	}
	if err := s.repo.AddLesson(ctx, lesson); err != nil {
		zap.L().Error("can't add lesson: ", zap.Error(err))
		return nil, err
	}
	return lesson, nil
}
