package dto

type CreateOrderRequestDTO struct {
	ItemID        int    `json:"item_id" example:"7"`
	ItemKind      string `json:"item_kind" example:"course"`
	PaymentNumber string `json:"payment_number" example:"2377225624"`
	Amount        string `json:"amount" example:"49.99"`
}

type OrderResponseDTO struct {
	ID            int    `json:"id" example:"21"`
	ItemID        int    `json:"item_id" example:"7"`
	ItemKind      string `json:"item_kind" example:"course"`
	PaymentNumber string `json:"payment_number" example:"2377225624"`
	Amount        string `json:"amount" example:"49.99"`
	Status        string `json:"status" example:"NEW"`
	CreatedAt     string `json:"created_at" example:"2024-11-02T16:09:57+03:00"`
}
