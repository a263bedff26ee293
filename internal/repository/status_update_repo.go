package repository

import (
	"context"
	"errors"

	"github.com/FatimaaAlzahraa/RouteX/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusUpdateRepo — append-only журнал: ни Update, ни Delete не существует.
type StatusUpdateRepo interface {
	Create(ctx context.Context, su *models.StatusUpdate) error
	ListByShipment(ctx context.Context, shipmentID uuid.UUID) ([]models.StatusUpdate, error)
	LatestByShipment(ctx context.Context, shipmentID uuid.UUID) (*models.StatusUpdate, error)
}

type statusUpdateRepo struct{ db *gorm.DB }

func NewStatusUpdateRepo(db *gorm.DB) StatusUpdateRepo { return &statusUpdateRepo{db: db} }

func (r *statusUpdateRepo) Create(ctx context.Context, su *models.StatusUpdate) error {
	return r.db.WithContext(ctx).Create(su).Error
}

func (r *statusUpdateRepo) ListByShipment(ctx context.Context, shipmentID uuid.UUID) ([]models.StatusUpdate, error) {
	var list []models.StatusUpdate
	err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order(`"timestamp" DESC`).
		Find(&list).Error
	return list, err
}

func (r *statusUpdateRepo) LatestByShipment(ctx context.Context, shipmentID uuid.UUID) (*models.StatusUpdate, error) {
	var su models.StatusUpdate
	err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order(`"timestamp" DESC`).
		First(&su).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &su, err
}
