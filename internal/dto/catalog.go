package dto

type CreateProductRequestDTO struct {
	Name        string `json:"name" example:"Workbook bundle"`
	Description string `json:"description,omitempty" example:"Printable exercises"`
	Price       string `json:"price,omitempty" example:"19.99"`
}

type CreateCourseRequestDTO struct {
	Title       string `json:"title" example:"Go from scratch"`
	Description string `json:"description,omitempty" example:"A practical introduction"`
	Price       string `json:"price,omitempty" example:"49.99"`
}

type AddLessonRequestDTO struct {
	Title    string `json:"title" example:"Interfaces"`
	Position int    `json:"position" example:"3"`
	Duration int    `json:"duration,omitempty" example:"900"`
}

type ProductResponseDTO struct {
	ID            int     `json:"id" example:"12"`
	Name          string  `json:"name" example:"Workbook bundle"`
	Description   string  `json:"description" example:"Printable exercises"`
	Price         string  `json:"price" example:"19.99"`
	AverageRating float64 `json:"average_rating" example:"4.5"`
	ReviewCount   int     `json:"review_count" example:"2"`
	CreatedAt     string  `json:"created_at" example:"2024-10-01T09:00:00+03:00"`
}

type CourseResponseDTO struct {
	ID            int                 `json:"id" example:"7"`
	Title         string              `json:"title" example:"Go from scratch"`
	Description   string              `json:"description" example:"A practical introduction"`
	Price         string              `json:"price" example:"49.99"`
	AverageRating float64             `json:"average_rating" example:"4.5"`
	ReviewCount   int                 `json:"review_count" example:"2"`
	CreatedAt     string              `json:"created_at" example:"2024-10-01T09:00:00+03:00"`
	Lessons       []LessonResponseDTO `json:"lessons,omitempty"`
}

type LessonResponseDTO struct {
	ID       int    `json:"id" example:"15"`
	CourseID int    `json:"course_id" example:"7"`
	Title    string `json:"title" example:"Interfaces"`
	Position int    `json:"position" example:"3"`
	Duration int    `json:"duration" example:"900"`
}
