package service

import (
	"context"
	"time"

	"github.com/FatimaaAlzahraa/RouteX/internal/models"

	"github.com/google/uuid"
)

// OptUUID / OptString — PATCH-семантика: Set=false — поле не трогаем,
// Set=true c Value=nil — очистить.
type OptUUID struct {
	Set   bool
	Value *uuid.UUID
}

type OptString struct {
	Set   bool
	Value *string
}

type ShipmentInput struct {
	WarehouseID uuid.UUID
	DriverID    *uuid.UUID
	// DriverName — альтернатива DriverID: водителя можно указать по
	// уникальному имени. Конфликт id и имени — ошибка валидации.
	DriverName      *string
	ProductID       *uuid.UUID
	CustomerID      *uuid.UUID
	CustomerAddress *string
	ShipmentDetails string
	Notes           string
}

type ShipmentPatch struct {
	WarehouseID     *uuid.UUID
	Driver          OptUUID
	DriverName      *string
	Product         OptUUID
	Customer        OptUUID
	CustomerAddress OptString
	ShipmentDetails *string
	Notes           *string
}

type ShipmentListFilter struct {
	UpdatedSince *time.Time
	Limit        int
}

type StatusUpdateInput struct {
	ShipmentID        uuid.UUID
	Status            models.ShipmentStatus
	Note              string
	PhotoURL          *string
	Latitude          *float64
	Longitude         *float64
	LocationAccuracyM *int32
}

type ShipmentService interface {
	CreateShipment(ctx context.Context, in ShipmentInput) (*models.Shipment, error)
	UpdateShipment(ctx context.Context, id uuid.UUID, patch ShipmentPatch) (*models.Shipment, error)
	GetShipment(ctx context.Context, id uuid.UUID) (*models.Shipment, error)
	ListShipments(ctx context.Context, f ShipmentListFilter) ([]models.Shipment, error)
	ListDriverShipments(ctx context.Context) ([]models.Shipment, error)
	DeleteShipment(ctx context.Context, id uuid.UUID) (bool, error)
}

type StatusService interface {
	AppendStatusUpdate(ctx context.Context, in StatusUpdateInput) (*models.StatusUpdate, error)
	ListStatusUpdates(ctx context.Context, shipmentID uuid.UUID) ([]models.StatusUpdate, error)
}
