package handler

import "time"

type orderItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity"   validate:"required,gt=0"`
}

type createOrderRequest struct {
	CustomerEmail string             `json:"customer_email" validate:"required,email"`
	Items         []orderItemRequest `json:"items"          validate:"required,min=1,dive"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Paid Shipped Completed"`
}

type orderItemResponse struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	CustomerEmail string              `json:"customer_email"`
	Items         []orderItemResponse `json:"items"`
	Status        string              `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
}
