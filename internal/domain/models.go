package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID             int       `db:"id"`
	Login          string    `db:"login"`
	PasswordHash   string    `db:"password_hash"`
	Role           string    `db:"role"`
	PurchasesCount int       `db:"purchases_count"`
	ReviewsCount   int       `db:"reviews_count"`
	CreatedAt      time.Time `db:"created_at"`
}

const (
	RoleUser  string = "user"
	RoleAdmin string = "admin"
)

// ReviewableKind discriminates the closed set of entities a review can
// target. Any other value must be rejected before touching the store.
type ReviewableKind string

const (
	KindProduct ReviewableKind = "product"
	KindCourse  ReviewableKind = "course"
)

var ErrUnknownReviewableKind = errors.New("unknown reviewable kind")

func ParseReviewableKind(s string) (ReviewableKind, error) {
	switch ReviewableKind(s) {
	case KindProduct:
		return KindProduct, nil
	case KindCourse:
		return KindCourse, nil
	default:
		return "", ErrUnknownReviewableKind
	}
}

// ReviewableRef is a tagged reference to a product or a course. Call sites
// that dispatch on Kind must handle both variants exhaustively.
type ReviewableRef struct {
	Kind ReviewableKind
	ID   int
}

type Product struct {
	ID            int             `db:"id"`
	Name          string          `db:"name"`
	Description   string          `db:"description"`
	Price         decimal.Decimal `db:"price"`
	AverageRating float64         `db:"average_rating"`
	ReviewCount   int             `db:"review_count"`
	CreatedAt     time.Time       `db:"created_at"`
}

type Course struct {
	ID            int             `db:"id"`
	Title         string          `db:"title"`
	Description   string          `db:"description"`
	Price         decimal.Decimal `db:"price"`
	AverageRating float64         `db:"average_rating"`
	ReviewCount   int             `db:"review_count"`
	CreatedAt     time.Time       `db:"created_at"`
}

type Lesson struct {
	ID       int    `db:"id"`
	CourseID int    `db:"course_id"`
	Title    string `db:"title"`
	Position int    `db:"position"`
	Duration int    `db:"duration"`
}

type Review struct {
	ID         int           `db:"id"`
	UserID     int           `db:"user_id"`
	Reviewable ReviewableRef `db:"-"`
	Rating     int           `db:"rating"`
	Comment    string        `db:"comment"`
	CreatedAt  time.Time     `db:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"`
}

// RatingSummary is the derived aggregate pair written back onto a
// reviewable item. Zero reviews yields {0, 0}.
type RatingSummary struct {
	AverageRating float64
	ReviewCount   int
}

const (
	PaymentNotRequired string = "not_required"
	PaymentPaid        string = "paid"
	PaymentPending     string = "pending"
	PaymentRefunded    string = "refunded"
)

const (
	EnrollmentActive    string = "active"
	EnrollmentCompleted string = "completed"
	EnrollmentCancelled string = "cancelled"
	EnrollmentPaused    string = "paused"
)

// LessonProgress is one ledger entry inside an enrollment. Entries have no
// identity of their own; the enrollment owns the whole ledger.
type LessonProgress struct {
	WatchedDuration int  `json:"watched_duration"`
	Completed       bool `json:"completed"`
}

type Enrollment struct {
	ID              int                       `db:"id"`
	UserID          int                       `db:"user_id"`
	CourseID        int                       `db:"course_id"`
	PaymentStatus   string                    `db:"payment_status"`
	PricePaid       decimal.Decimal           `db:"price_paid"`
	Progress        float64                   `db:"progress"`
	Status          string                    `db:"status"`
	LastAccessed    time.Time                 `db:"last_accessed"`
	CompletionDate  *time.Time                `db:"completion_date"`
	CertificateURL  string                    `db:"certificate_url"`
	LessonsProgress map[string]LessonProgress `db:"lessons_progress"`
	Notes           string                    `db:"notes"`
	EnrolledAt      time.Time                 `db:"enrolled_at"`
}

type Order struct {
	ID            int             `db:"id"`
	UserID        int             `db:"user_id"`
	Item          ReviewableRef   `db:"-"`
	PaymentNumber string          `db:"payment_number"`
	Amount        decimal.Decimal `db:"amount"`
	Status        string          `db:"status"`
	CreatedAt     time.Time       `db:"created_at"`
}

const (
	OrderStatusNew  string = "NEW"
	OrderStatusPaid string = "PAID"
)
