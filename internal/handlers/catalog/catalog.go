package catalog

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
	"github.com/studyhub/studyhub/internal/service/cascade"
	"github.com/studyhub/studyhub/internal/service/catalogservice"
	"github.com/studyhub/studyhub/pkg/utils"
)

type Service interface {
	CreateProduct(ctx context.Context, name, description string, price decimal.Decimal) (*domain.Product, error)
	CreateCourse(ctx context.Context, title, description string, price decimal.Decimal) (*domain.Course, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
	GetCourse(ctx context.Context, id int) (*domain.Course, []domain.Lesson, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCourses(ctx context.Context) ([]domain.Course, error)
	AddLesson(ctx context.Context, courseID int, title string, position, duration int) (*domain.Lesson, error)
}

// Cascade removes an item together with its dependent reviews and
// enrollments.
type Cascade interface {
	DeleteItem(ctx context.Context, ref domain.ReviewableRef) error
}

type CatalogHandler struct {
	catalogService Service
	cascade        Cascade
}

func New(catalogService Service, cascade Cascade) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		cascade:        cascade,
	}
}

// CreateProduct godoc
//
//	@Summary		Create a product
//	@Description	Add a catalog product; its rating aggregate starts at zero
//	@Tags			Catalog
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.CreateProductRequestDTO	true	"Product to create"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.ProductResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid request body"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Admin only"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/products [post]
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid price")
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), req.Name, req.Description, price)
	if err != nil {
		if errors.Is(err, catalogservice.ErrEmptyName) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toProductDTO(product))
}

// CreateCourse godoc
//
//	@Summary		Create a course
//	@Description	Add a catalog course; its rating aggregate starts at zero
//	@Tags			Catalog
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.CreateCourseRequestDTO	true	"Course to create"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.CourseResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid request body"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Admin only"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/courses [post]
func (h *CatalogHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCourseRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid price")
		return
	}

	course, err := h.catalogService.CreateCourse(r.Context(), req.Title, req.Description, price)
	if err != nil {
		if errors.Is(err, catalogservice.ErrEmptyName) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toCourseDTO(course, nil))
}

// GetProduct godoc
//
//	@Summary		Get a product
//	@Tags			Catalog
//	@Produce		json
//	@Param			id	path	int	true	"Product id"
//	@Success		200	{object}	dto.ProductResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid product id"
//	@Failure		404	{object}	utils.Response	"Product not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/products/{id} [get]
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalogservice.ErrItemNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toProductDTO(product))
}

// GetCourse godoc
//
//	@Summary		Get a course with its lessons
//	@Tags			Catalog
//	@Produce		json
//	@Param			id	path	int	true	"Course id"
//	@Success		200	{object}	dto.CourseResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid course id"
//	@Failure		404	{object}	utils.Response	"Course not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/courses/{id} [get]
func (h *CatalogHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid course id")
		return
	}

	course, lessons, err := h.catalogService.GetCourse(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalogservice.ErrCourseNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toCourseDTO(course, lessons))
}

// ListProducts godoc
//
//	@Summary		List products
//	@Tags			Catalog
//	@Produce		json
//	@Success		200	{array}		dto.ProductResponseDTO
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/products [get]
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListProducts(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.ProductResponseDTO, 0, len(products))
	for i := range products {
		response = append(response, toProductDTO(&products[i]))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// ListCourses godoc
//
//	@Summary		List courses
//	@Tags			Catalog
//	@Produce		json
//	@Success		200	{array}		dto.CourseResponseDTO
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/courses [get]
func (h *CatalogHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.catalogService.ListCourses(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.CourseResponseDTO, 0, len(courses))
	for i := range courses {
		response = append(response, toCourseDTO(&courses[i], nil))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// AddLesson godoc
//
//	@Summary		Add a lesson to a course
//	@Tags			Catalog
//	@Accept			json
//	@Produce		json
//	@Param			id		path	int						true	"Course id"
//	@Param			request	body	dto.AddLessonRequestDTO	true	"Lesson to add"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.LessonResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid request body"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Admin only"
//	@Failure		404	{object}	utils.Response	"Course not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/courses/{id}/lessons [post]
func (h *CatalogHandler) AddLesson(w http.ResponseWriter, r *http.Request) {
	courseID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid course id")
		return
	}

	var req dto.AddLessonRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	lesson, err := h.catalogService.AddLesson(r.Context(), courseID, req.Title, req.Position, req.Duration)
	if err != nil {
		switch {
		case errors.Is(err, catalogservice.ErrEmptyName):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, catalogservice.ErrCourseNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.LessonResponseDTO{
		ID:       lesson.ID,
		CourseID: lesson.CourseID,
		Title:    lesson.Title,
		Position: lesson.Position,
		Duration: lesson.Duration,
	})
}

// DeleteItem godoc
//
//	@Summary		Delete a product or course
//	@Description	Remove the item and cascade its reviews (and enrollments for a course)
//	@Tags			Catalog
//	@Produce		json
//	@Param			kind	path	string	true	"Reviewable kind (product or course)"
//	@Param			id		path	int		true	"Item id"
//	@Security		BearerAuth
//	@Success		204	"Item deleted"
//	@Failure		400	{object}	utils.Response	"Unknown reviewable kind"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Admin only"
//	@Failure		404	{object}	utils.Response	"Item not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/catalog/{kind}/{id} [delete]
func (h *CatalogHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseReviewableKind(chi.URLParam(r, "kind"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown reviewable kind")
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	if err := h.cascade.DeleteItem(r.Context(), domain.ReviewableRef{Kind: kind, ID: id}); err != nil {
		if errors.Is(err, cascade.ErrItemNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusNoContent, nil)
}

func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func toProductDTO(product *domain.Product) dto.ProductResponseDTO {
	return dto.ProductResponseDTO{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price.String(),
		AverageRating: product.AverageRating,
		ReviewCount:   product.ReviewCount,
		CreatedAt:     product.CreatedAt.Format(time.RFC3339),
	}
}

func toCourseDTO(course *domain.Course, lessons []domain.Lesson) dto.CourseResponseDTO {
	response := dto.CourseResponseDTO{
		ID:            course.ID,
		Title:         course.Title,
		Description:   course.Description,
		Price:         course.Price.String(),
		AverageRating: course.AverageRating,
		ReviewCount:   course.ReviewCount,
		CreatedAt:     course.CreatedAt.Format(time.RFC3339),
	}
	for _, lesson := range lessons {
		response.Lessons = append(response.Lessons, dto.LessonResponseDTO{
			ID:       lesson.ID,
			CourseID: lesson.CourseID,
			Title:    lesson.Title,
			Position: lesson.Position,
			Duration: lesson.Duration,
		})
	}
	return response
}
