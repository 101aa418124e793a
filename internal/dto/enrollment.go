package dto

type EnrollRequestDTO struct {
	CourseID      int    `json:"course_id" example:"7"`
	PaymentStatus string `json:"payment_status,omitempty" example:"paid"`
	PricePaid     string `json:"price_paid,omitempty" example:"49.99"`
}

type LessonProgressRequestDTO struct {
	LessonID        string `json:"lesson_id" example:"15"`
	WatchedDuration *int   `json:"watched_duration,omitempty" example:"420"`
	Completed       *bool  `json:"completed,omitempty" example:"true"`
}

type LessonProgressDTO struct {
	WatchedDuration int  `json:"watched_duration" example:"420"`
	Completed       bool `json:"completed" example:"true"`
}

type UpdateEnrollmentRequestDTO struct {
	PaymentStatus   *string                      `json:"payment_status,omitempty" example:"refunded"`
	Progress        *float64                     `json:"progress,omitempty" example:"75"`
	Status          *string                      `json:"status,omitempty" example:"paused"`
	LastAccessed    *string                      `json:"last_accessed,omitempty" example:"2024-11-02T16:09:57+03:00"`
	CompletionDate  *string                      `json:"completion_date,omitempty" example:"2024-11-02T16:09:57+03:00"`
	CertificateURL  *string                      `json:"certificate_url,omitempty" example:"/certificates/abc.pdf"`
	LessonsProgress map[string]LessonProgressDTO `json:"lessons_progress,omitempty"`
	Notes           *string                      `json:"notes,omitempty" example:"rewatch module 3"`
}

type EnrollmentResponseDTO struct {
	ID              int                          `json:"id" example:"4"`
	UserID          int                          `json:"user_id" example:"1"`
	CourseID        int                          `json:"course_id" example:"7"`
	PaymentStatus   string                       `json:"payment_status" example:"paid"`
	PricePaid       string                       `json:"price_paid" example:"49.99"`
	Progress        float64                      `json:"progress" example:"50"`
	Status          string                       `json:"status" example:"active"`
	LastAccessed    string                       `json:"last_accessed" example:"2024-11-02T16:09:57+03:00"`
	CompletionDate  string                       `json:"completion_date,omitempty" example:"2024-11-05T10:00:00+03:00"`
	CertificateURL  string                       `json:"certificate_url,omitempty" example:"/certificates/abc.pdf"`
	LessonsProgress map[string]LessonProgressDTO `json:"lessons_progress"`
	Notes           string                       `json:"notes,omitempty" example:"rewatch module 3"`
	EnrolledAt      string                       `json:"enrolled_at" example:"2024-10-01T09:00:00+03:00"`
}
