package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/FatimaaAlzahraa/RouteX/internal/models"
	"github.com/FatimaaAlzahraa/RouteX/internal/service"

	"github.com/google/uuid"
)

// OptionalUUID различает "поле не прислали" и "прислали null":
// PATCH с null очищает значение, отсутствие поля оставляет как есть.
type OptionalUUID struct {
	Set   bool
	Value *uuid.UUID
}

func (o *OptionalUUID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(b, []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	o.Value = &id
	return nil
}

type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(b, []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

type CreateShipmentRequest struct {
	WarehouseID     uuid.UUID  `json:"warehouse" binding:"required"`
	DriverID        *uuid.UUID `json:"driver"`
	DriverName      *string    `json:"driver_name"`
	ProductID       *uuid.UUID `json:"product"`
	CustomerID      *uuid.UUID `json:"customer"`
	CustomerAddress *string    `json:"customer_address"`
	ShipmentDetails string     `json:"shipment_details"`
	Notes           string     `json:"notes"`
}

func (r *CreateShipmentRequest) ToInput() service.ShipmentInput {
	return service.ShipmentInput{
		WarehouseID:     r.WarehouseID,
		DriverID:        r.DriverID,
		DriverName:      r.DriverName,
		ProductID:       r.ProductID,
		CustomerID:      r.CustomerID,
		CustomerAddress: r.CustomerAddress,
		ShipmentDetails: r.ShipmentDetails,
		Notes:           r.Notes,
	}
}

type UpdateShipmentRequest struct {
	WarehouseID     *uuid.UUID     `json:"warehouse"`
	Driver          OptionalUUID   `json:"driver"`
	DriverName      *string        `json:"driver_name"`
	Product         OptionalUUID   `json:"product"`
	Customer        OptionalUUID   `json:"customer"`
	CustomerAddress OptionalString `json:"customer_address"`
	ShipmentDetails *string        `json:"shipment_details"`
	Notes           *string        `json:"notes"`
}

func (r *UpdateShipmentRequest) ToPatch() service.ShipmentPatch {
	return service.ShipmentPatch{
		WarehouseID:     r.WarehouseID,
		Driver:          service.OptUUID{Set: r.Driver.Set, Value: r.Driver.Value},
		DriverName:      r.DriverName,
		Product:         service.OptUUID{Set: r.Product.Set, Value: r.Product.Value},
		Customer:        service.OptUUID{Set: r.Customer.Set, Value: r.Customer.Value},
		CustomerAddress: service.OptString{Set: r.CustomerAddress.Set, Value: r.CustomerAddress.Value},
		ShipmentDetails: r.ShipmentDetails,
		Notes:           r.Notes,
	}
}

type ShipmentResponse struct {
	ID                  uuid.UUID             `json:"id"`
	WarehouseID         uuid.UUID             `json:"warehouse"`
	DriverID            *uuid.UUID            `json:"driver"`
	DriverDisplayName   string                `json:"driver_display_name,omitempty"`
	ProductID           *uuid.UUID            `json:"product"`
	ProductName         string                `json:"product_name,omitempty"`
	CustomerID          *uuid.UUID            `json:"customer"`
	CustomerDisplayName string                `json:"customer_display_name,omitempty"`
	CustomerAddress     *string               `json:"customer_address"`
	ShipmentDetails     string                `json:"shipment_details"`
	Notes               string                `json:"notes"`
	AssignedAt          time.Time             `json:"assigned_at"`
	CurrentStatus       models.ShipmentStatus `json:"current_status"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

func ToShipmentResponse(s *models.Shipment) ShipmentResponse {
	resp := ShipmentResponse{
		ID:              s.ID,
		WarehouseID:     s.WarehouseID,
		DriverID:        s.DriverID,
		ProductID:       s.ProductID,
		CustomerID:      s.CustomerID,
		CustomerAddress: s.CustomerAddress,
		ShipmentDetails: s.ShipmentDetails,
		Notes:           s.Notes,
		AssignedAt:      s.AssignedAt,
		CurrentStatus:   s.CurrentStatus,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	if s.Driver != nil && s.Driver.User != nil {
		resp.DriverDisplayName = s.Driver.User.Name
	}
	if s.Product != nil {
		resp.ProductName = s.Product.Name
	}
	if s.Customer != nil {
		resp.CustomerDisplayName = s.Customer.Name
	}
	return resp
}

func ToShipmentResponses(list []models.Shipment) []ShipmentResponse {
	out := make([]ShipmentResponse, 0, len(list))
	for i := range list {
		out = append(out, ToShipmentResponse(&list[i]))
	}
	return out
}

type CreateStatusUpdateRequest struct {
	ShipmentID        uuid.UUID             `json:"shipment" binding:"required"`
	Status            models.ShipmentStatus `json:"status" binding:"required"`
	Note              string                `json:"note"`
	PhotoURL          *string               `json:"photo_url"`
	Latitude          *float64              `json:"latitude"`
	Longitude         *float64              `json:"longitude"`
	LocationAccuracyM *int32                `json:"location_accuracy_m"`
}

func (r *CreateStatusUpdateRequest) ToInput() service.StatusUpdateInput {
	return service.StatusUpdateInput{
		ShipmentID:        r.ShipmentID,
		Status:            r.Status,
		Note:              r.Note,
		PhotoURL:          r.PhotoURL,
		Latitude:          r.Latitude,
		Longitude:         r.Longitude,
		LocationAccuracyM: r.LocationAccuracyM,
	}
}

type StatusUpdateResponse struct {
	ID                uuid.UUID             `json:"id"`
	ShipmentID        uuid.UUID             `json:"shipment"`
	Status            models.ShipmentStatus `json:"status"`
	Timestamp         time.Time             `json:"timestamp"`
	Note              string                `json:"note"`
	PhotoURL          *string               `json:"photo_url"`
	Latitude          *float64              `json:"latitude"`
	Longitude         *float64              `json:"longitude"`
	LocationAccuracyM *int32                `json:"location_accuracy_m"`
}

func ToStatusUpdateResponse(su *models.StatusUpdate) StatusUpdateResponse {
	return StatusUpdateResponse{
		ID:                su.ID,
		ShipmentID:        su.ShipmentID,
		Status:            su.Status,
		Timestamp:         su.Timestamp,
		Note:              su.Note,
		PhotoURL:          su.PhotoURL,
		Latitude:          su.Latitude,
		Longitude:         su.Longitude,
		LocationAccuracyM: su.LocationAccuracyM,
	}
}

func ToStatusUpdateResponses(list []models.StatusUpdate) []StatusUpdateResponse {
	out := make([]StatusUpdateResponse, 0, len(list))
	for i := range list {
		out = append(out, ToStatusUpdateResponse(&list[i]))
	}
	return out
}
