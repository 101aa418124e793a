package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/studyhub/studyhub/docs"
	authhandlers "github.com/studyhub/studyhub/internal/handlers/auth"
	cataloghandlers "github.com/studyhub/studyhub/internal/handlers/catalog"
	enrollmenthandlers "github.com/studyhub/studyhub/internal/handlers/enrollments"
	ordershandlers "github.com/studyhub/studyhub/internal/handlers/orders"
	reviewhandlers "github.com/studyhub/studyhub/internal/handlers/reviews"
	"github.com/studyhub/studyhub/internal/service"
	"github.com/studyhub/studyhub/pkg/auth"
	"github.com/studyhub/studyhub/pkg/metrics"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	GetProfile(w http.ResponseWriter, r *http.Request)
	DeleteAccount(w http.ResponseWriter, r *http.Request)
}

type CatalogHandler interface {
	CreateProduct(w http.ResponseWriter, r *http.Request)
	CreateCourse(w http.ResponseWriter, r *http.Request)
	GetProduct(w http.ResponseWriter, r *http.Request)
	GetCourse(w http.ResponseWriter, r *http.Request)
	ListProducts(w http.ResponseWriter, r *http.Request)
	ListCourses(w http.ResponseWriter, r *http.Request)
	AddLesson(w http.ResponseWriter, r *http.Request)
	DeleteItem(w http.ResponseWriter, r *http.Request)
}

type ReviewHandler interface {
	CreateReview(w http.ResponseWriter, r *http.Request)
	UpdateReview(w http.ResponseWriter, r *http.Request)
	DeleteReview(w http.ResponseWriter, r *http.Request)
	GetItemReviews(w http.ResponseWriter, r *http.Request)
	GetUserReviews(w http.ResponseWriter, r *http.Request)
}

type EnrollmentHandler interface {
	Enroll(w http.ResponseWriter, r *http.Request)
	Unenroll(w http.ResponseWriter, r *http.Request)
	GetEnrollments(w http.ResponseWriter, r *http.Request)
	RecordLessonProgress(w http.ResponseWriter, r *http.Request)
	UpdateEnrollment(w http.ResponseWriter, r *http.Request)
}

type OrderHandler interface {
	CreateOrder(w http.ResponseWriter, r *http.Request)
	GetOrders(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler       AuthHandler
	CatalogHandler    CatalogHandler
	ReviewHandler     ReviewHandler
	EnrollmentHandler EnrollmentHandler
	OrderHandler      OrderHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:       authhandlers.New(s.AuthService, s.Cascade),
		CatalogHandler:    cataloghandlers.New(s.CatalogService, s.Cascade),
		ReviewHandler:     reviewhandlers.New(s.ReviewService),
		EnrollmentHandler: enrollmenthandlers.New(s.EnrollmentService),
		OrderHandler:      ordershandlers.New(s.OrderService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		metrics.Middleware,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Post("/user/register", h.AuthHandler.Register)
		r.Post("/user/login", h.AuthHandler.Login)

		r.Get("/products", h.CatalogHandler.ListProducts)
		r.Get("/products/{id}", h.CatalogHandler.GetProduct)
		r.Get("/courses", h.CatalogHandler.ListCourses)
		r.Get("/courses/{id}", h.CatalogHandler.GetCourse)
		r.Get("/reviews/{kind}/{id}", h.ReviewHandler.GetItemReviews)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)

			r.Get("/user/profile", h.AuthHandler.GetProfile)
			r.Delete("/user", h.AuthHandler.DeleteAccount)

			r.Route("/reviews", func(r chi.Router) {
				r.Post("/", h.ReviewHandler.CreateReview)
				r.Get("/my", h.ReviewHandler.GetUserReviews)
				r.Patch("/{id}", h.ReviewHandler.UpdateReview)
				r.Delete("/{id}", h.ReviewHandler.DeleteReview)
			})

			r.Route("/enrollments", func(r chi.Router) {
				r.Post("/", h.EnrollmentHandler.Enroll)
				r.Get("/", h.EnrollmentHandler.GetEnrollments)
				r.Post("/{courseId}/progress", h.EnrollmentHandler.RecordLessonProgress)
				r.Patch("/{id}", h.EnrollmentHandler.UpdateEnrollment)
				r.Delete("/{courseId}", h.EnrollmentHandler.Unenroll)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", h.OrderHandler.CreateOrder)
				r.Get("/", h.OrderHandler.GetOrders)
			})

			r.Group(func(r chi.Router) {
				r.Use(auth.AdminOnly)
				r.Post("/products", h.CatalogHandler.CreateProduct)
				r.Post("/courses", h.CatalogHandler.CreateCourse)
				r.Post("/courses/{id}/lessons", h.CatalogHandler.AddLesson)
				r.Delete("/catalog/{kind}/{id}", h.CatalogHandler.DeleteItem)
			})
		})
	})

	return r
}
