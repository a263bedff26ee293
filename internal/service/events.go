package service

import (
	"context"
	"time"

	"github.com/FatimaaAlzahraa/RouteX/internal/models"

	"github.com/google/uuid"
)

// StatusChangedEvent публикуется после коммита принятого StatusUpdate.
type StatusChangedEvent struct {
	ShipmentID uuid.UUID             `json:"shipment_id"`
	DriverID   uuid.UUID             `json:"driver_id"`
	Status     models.ShipmentStatus `json:"status"`
	Timestamp  time.Time             `json:"timestamp"`
	Note       string                `json:"note,omitempty"`
}

// EventBus — внешняя шина; может быть nil, публикация best-effort.
type EventBus interface {
	PublishStatusChanged(ctx context.Context, ev StatusChangedEvent) error
}
