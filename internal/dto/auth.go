package dto

type RegisterRequestDTO struct {
	Login    string `json:"login" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

type RegisterResponseDTO struct {
	Message string `json:"message"`
}

type LoginRequestDTO struct {
	Login    string `json:"login" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginResponseDTO struct {
	Message string `json:"message"`
}

type ProfileResponseDTO struct {
	ID             int    `json:"id" example:"1"`
	Login          string `json:"login" example:"student42"`
	Role           string `json:"role" example:"user"`
	PurchasesCount int    `json:"purchases_count" example:"3"`
	ReviewsCount   int    `json:"reviews_count" example:"7"`
}
