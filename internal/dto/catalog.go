package dto

import (
	"time"

	"github.com/FatimaaAlzahraa/RouteX/internal/models"

	"github.com/google/uuid"
)

type WarehouseRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
}

type WarehousePatchRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
}

type WarehouseResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToWarehouseResponse(w *models.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID: w.ID, Name: w.Name, Location: w.Location,
		CreatedAt: w.CreatedAt, UpdatedAt: w.UpdatedAt,
	}
}

type CustomerRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Address  string `json:"address"`
	Address2 string `json:"address2"`
	Address3 string `json:"address3"`
}

type CustomerPatchRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Address2 *string `json:"address2"`
	Address3 *string `json:"address3"`
}

type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Address2  string    `json:"address2"`
	Address3  string    `json:"address3"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToCustomerResponse(c *models.Customer) CustomerResponse {
	return CustomerResponse{
		ID: c.ID, Name: c.Name, Phone: c.Phone,
		Address: c.Address, Address2: c.Address2, Address3: c.Address3,
		CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

type ProductRequest struct {
	Name       string `json:"name" binding:"required"`
	PriceCents int64  `json:"price_cents"`
	Unit       string `json:"unit"`
	StockQty   int32  `json:"stock_qty"`
	IsActive   *bool  `json:"is_active"`
}

type ProductPatchRequest struct {
	Name       *string `json:"name"`
	PriceCents *int64  `json:"price_cents"`
	Unit       *string `json:"unit"`
	IsActive   *bool   `json:"is_active"`
}

type RestockRequest struct {
	Quantity int32 `json:"quantity" binding:"required"`
}

type ProductResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Unit       string    `json:"unit"`
	StockQty   int32     `json:"stock_qty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ToProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID: p.ID, Name: p.Name, PriceCents: p.PriceCents, Unit: p.Unit,
		StockQty: p.StockQty, IsActive: p.IsActive,
		CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

type ListResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}
