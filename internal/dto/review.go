package dto

type CreateReviewRequestDTO struct {
	ReviewableID   int    `json:"reviewable_id" example:"12"`
	ReviewableKind string `json:"reviewable_kind" example:"course"`
	Rating         int    `json:"rating" example:"5"`
	Comment        string `json:"comment" example:"Great course"`
}

type UpdateReviewRequestDTO struct {
	Rating  *int    `json:"rating,omitempty" example:"4"`
	Comment *string `json:"comment,omitempty" example:"Updated opinion"`
}

type ReviewResponseDTO struct {
	ID             int    `json:"id" example:"3"`
	UserID         int    `json:"user_id" example:"1"`
	ReviewableID   int    `json:"reviewable_id" example:"12"`
	ReviewableKind string `json:"reviewable_kind" example:"course"`
	Rating         int    `json:"rating" example:"5"`
	Comment        string `json:"comment" example:"Great course"`
	CreatedAt      string `json:"created_at" example:"2024-11-02T16:09:57+03:00"`
	UpdatedAt      string `json:"updated_at" example:"2024-11-02T16:09:57+03:00"`
}
