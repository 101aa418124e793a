package service

import (
	authhandlers "github.com/studyhub/studyhub/internal/handlers/auth"
	cataloghandlers "github.com/studyhub/studyhub/internal/handlers/catalog"
	enrollmenthandlers "github.com/studyhub/studyhub/internal/handlers/enrollments"
	ordershandlers "github.com/studyhub/studyhub/internal/handlers/orders"
	reviewhandlers "github.com/studyhub/studyhub/internal/handlers/reviews"

	"github.com/studyhub/studyhub/internal/pg"
	"github.com/studyhub/studyhub/internal/repo"
	"github.com/studyhub/studyhub/internal/service/authservice"
	"github.com/studyhub/studyhub/internal/service/cascade"
	"github.com/studyhub/studyhub/internal/service/catalogservice"
	"github.com/studyhub/studyhub/internal/service/enrollmentservice"
	"github.com/studyhub/studyhub/internal/service/orderservice"
	"github.com/studyhub/studyhub/internal/service/reviewservice"
	pkgauth "github.com/studyhub/studyhub/pkg/auth"
)

type Services struct {
	AuthService       authhandlers.Service
	CatalogService    cataloghandlers.Service
	ReviewService     reviewhandlers.Service
	EnrollmentService enrollmenthandlers.Service
	OrderService      ordershandlers.Service
	Cascade           *cascade.Coordinator
	Aggregator        *reviewservice.Service
}

func New(repo *repo.Repositories, txManager pg.TXManager) *Services {
	reviewService := reviewservice.New(repo.ReviewRepo, repo.CatalogRepo, repo.UserRepo, txManager)
	enrollmentService := enrollmentservice.New(repo.EnrollmentRepo, repo.CatalogRepo)
	catalogService := catalogservice.New(repo.CatalogRepo)
	orderService := orderservice.New(repo.OrderRepo, repo.CatalogRepo, repo.UserRepo, txManager)
	authService := authservice.New(repo.UserRepo, &pkgauth.HashService{}, &pkgauth.JWTService{})
	cascadeCoordinator := cascade.New(txManager, repo.ReviewRepo, repo.EnrollmentRepo,
		repo.OrderRepo, repo.UserRepo, repo.CatalogRepo, reviewService)

	return &Services{
		AuthService:       authService,
		CatalogService:    catalogService,
		ReviewService:     reviewService,
		EnrollmentService: enrollmentService,
		OrderService:      orderService,
		Cascade:           cascadeCoordinator,
		Aggregator:        reviewService,
	}
}
