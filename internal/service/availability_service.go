package service

import (
	"context"
	"time"

	"github.com/FatimaaAlzahraa/RouteX/internal/models"
	"github.com/FatimaaAlzahraa/RouteX/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Availability string

const (
	AvailabilityBusy        Availability = "busy"
	AvailabilityAvailable   Availability = "available"
	AvailabilityUnavailable Availability = "unavailable"
)

type DriverStatus struct {
	DriverID                uuid.UUID              `json:"driver_id"`
	Name                    string                 `json:"name"`
	Phone                   string                 `json:"phone"`
	IsActive                bool                   `json:"is_active"`
	LastStatus              *models.ShipmentStatus `json:"last_status"`
	LastSeenAt              *time.Time             `json:"last_seen_at"`
	CurrentActiveShipmentID *uuid.UUID             `json:"current_active_shipment_id"`
	EffectiveIsActive       bool                   `json:"effective_is_active"`
	Availability            Availability           `json:"availability"`
}

// DriverStatusCache хранит готовую проекцию без поискового фильтра.
type DriverStatusCache interface {
	InvalidatingCache
	Get(ctx context.Context) ([]DriverStatus, bool)
	Set(ctx context.Context, list []DriverStatus) error
}

type AvailabilityService interface {
	ListDriverStatuses(ctx context.Context, search string) ([]DriverStatus, error)
}

type availabilityService struct {
	repo  *repository.Repository
	cache DriverStatusCache
	log   *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, cache DriverStatusCache, log *zap.Logger) AvailabilityService {
	return &availabilityService{repo: repo, cache: cache, log: log}
}

// ListDriverStatuses — чистая read-модель, водители считаются на каждый
// запрос. Кэшируется только полный список (без фильтра), с инвалидацией
// при каждом принятом StatusUpdate.
func (s *availabilityService) ListDriverStatuses(ctx context.Context, search string) ([]DriverStatus, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, err
	}

	if s.cache != nil && search == "" {
		if list, ok := s.cache.Get(ctx); ok {
			return list, nil
		}
	}

	rows, err := s.repo.DriverStatus.Query(ctx, search)
	if err != nil {
		return nil, err
	}

	list := make([]DriverStatus, 0, len(rows))
	for _, r := range rows {
		list = append(list, projectDriverStatus(r))
	}

	if s.cache != nil && search == "" {
		if err := s.cache.Set(ctx, list); err != nil {
			s.log.Warn("driver status cache set failed", zap.Error(err))
		}
	}

	return list, nil
}

func projectDriverStatus(r repository.DriverStatusRow) DriverStatus {
	ds := DriverStatus{
		DriverID:                r.DriverID,
		Name:                    r.DriverName,
		Phone:                   r.DriverPhone,
		IsActive:                r.IsActive,
		LastStatus:              r.LastStatus,
		LastSeenAt:              r.LastSeenAt,
		CurrentActiveShipmentID: r.CurrentActiveShipmentID,
	}

	// DELIVERED в последнем статусе трактуется как "снова активен",
	// иначе верим хранимому флагу
	ds.EffectiveIsActive = r.IsActive
	if r.LastStatus != nil && *r.LastStatus == models.StatusDelivered {
		ds.EffectiveIsActive = true
	}

	switch {
	case ds.CurrentActiveShipmentID != nil:
		ds.Availability = AvailabilityBusy
	case ds.EffectiveIsActive:
		ds.Availability = AvailabilityAvailable
	default:
		ds.Availability = AvailabilityUnavailable
	}
	return ds
}
