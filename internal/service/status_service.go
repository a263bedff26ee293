package service

import (
	"context"
	"time"

	"github.com/FatimaaAlzahraa/RouteX/internal/models"
	"github.com/FatimaaAlzahraa/RouteX/internal/repository"

	"go.uber.org/zap"

	"github.com/google/uuid"
)

// InvalidatingCache сбрасывает прочитанные проекции после записи в журнал.
type InvalidatingCache interface {
	Invalidate(ctx context.Context) error
}

type statusService struct {
	repo   *repository.Repository
	events EventBus
	cache  InvalidatingCache
	log    *zap.Logger
	now    func() time.Time
}

func NewStatusService(repo *repository.Repository, events EventBus, cache InvalidatingCache, log *zap.Logger) StatusService {
	return &statusService{
		repo:   repo,
		events: events,
		cache:  cache,
		log:    log,
		now:    time.Now,
	}
}

// AppendStatusUpdate принимает событие от водителя и в той же транзакции
// перезаписывает current_status шипмента — явный вызов вместо сигнала,
// чтобы журнал и производное поле не разъезжались.
//
// Переходы назад (DELIVERED -> NEW) не запрещаются, терминальные статусы
// не блокируются: поведение исходной системы сохранено сознательно.
func (s *statusService) AppendStatusUpdate(ctx context.Context, in StatusUpdateInput) (*models.StatusUpdate, error) {
	a, err := requireDriver(ctx)
	if err != nil {
		return nil, err
	}

	if !models.ValidShipmentStatus(in.Status) {
		return nil, NewValidationError("status", "invalid status value")
	}

	sh, err := s.repo.Shipments.GetByID(ctx, in.ShipmentID)
	if err != nil {
		return nil, err
	}
	if sh == nil {
		return nil, ErrShipmentNotFound
	}

	// только назначенный водитель пишет в журнал своей отгрузки
	if sh.DriverID == nil || *sh.DriverID != a.ProfileID {
		return nil, ErrForbidden
	}

	if in.LocationAccuracyM != nil && (*in.LocationAccuracyM < 0 || *in.LocationAccuracyM > 30) {
		return nil, NewValidationError("location_accuracy_m", "GPS accuracy must be between 0 and 30 meters.")
	}
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return nil, NewValidationError("latitude", "Both latitude and longitude are required together.")
	}

	su := &models.StatusUpdate{
		ShipmentID:        in.ShipmentID,
		Status:            in.Status,
		Timestamp:         s.now(), // клиентский timestamp игнорируется
		Note:              in.Note,
		PhotoURL:          in.PhotoURL,
		Latitude:          in.Latitude,
		Longitude:         in.Longitude,
		LocationAccuracyM: in.LocationAccuracyM,
	}

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		if err := tx.StatusUpdates.Create(ctx, su); err != nil {
			return err
		}
		return tx.Shipments.SetCurrentStatus(ctx, in.ShipmentID, in.Status)
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warn("driver status cache invalidation failed", zap.Error(err))
		}
	}

	if s.events != nil {
		ev := StatusChangedEvent{
			ShipmentID: su.ShipmentID,
			DriverID:   a.ProfileID,
			Status:     su.Status,
			Timestamp:  su.Timestamp,
			Note:       su.Note,
		}
		if err := s.events.PublishStatusChanged(ctx, ev); err != nil {
			s.log.Warn("status event publish failed",
				zap.String("shipment_id", su.ShipmentID.String()), zap.Error(err))
		}
	}

	return su, nil
}

func (s *statusService) ListStatusUpdates(ctx context.Context, shipmentID uuid.UUID) ([]models.StatusUpdate, error) {
	a, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	sh, err := s.repo.Shipments.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if sh == nil {
		return nil, ErrShipmentNotFound
	}

	// журнал видят менеджеры и назначенный водитель
	if !a.IsManager() {
		if sh.DriverID == nil || *sh.DriverID != a.ProfileID {
			return nil, ErrForbidden
		}
	}

	return s.repo.StatusUpdates.ListByShipment(ctx, shipmentID)
}
