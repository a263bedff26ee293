package repository

import (
	"context"
	"errors"
	"time"

	"github.com/FatimaaAlzahraa/RouteX/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShipmentListFilter struct {
	UpdatedSince *time.Time
	Limit        int
}

type ShipmentRepo interface {
	Create(ctx context.Context, s *models.Shipment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Shipment, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	// SetCurrentStatus синхронизирует производное поле с журналом статусов.
	// Вызывается только из транзакции, добавившей StatusUpdate.
	SetCurrentStatus(ctx context.Context, id uuid.UUID, status models.ShipmentStatus) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, f ShipmentListFilter) ([]models.Shipment, error)
	ListByDriver(ctx context.Context, driverID uuid.UUID) ([]models.Shipment, error)
}

type shipmentRepo struct{ db *gorm.DB }

func NewShipmentRepo(db *gorm.DB) ShipmentRepo { return &shipmentRepo{db: db} }

func (r *shipmentRepo) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Warehouse").
		Preload("Driver").
		Preload("Driver.User").
		Preload("Product").
		Preload("Customer")
}

func (r *shipmentRepo) Create(ctx context.Context, s *models.Shipment) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *shipmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Shipment, error) {
	var s models.Shipment
	err := r.preloaded(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &s, err
}

func (r *shipmentRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Shipment{}).Where("id = ?", id).Updates(fields).Error
}

func (r *shipmentRepo) SetCurrentStatus(ctx context.Context, id uuid.UUID, status models.ShipmentStatus) error {
	return r.db.WithContext(ctx).Model(&models.Shipment{}).Where("id = ?", id).
		Update("current_status", status).Error
}

func (r *shipmentRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Shipment{}, "id = ?", id)
	return tx.RowsAffected > 0, tx.Error
}

func (r *shipmentRepo) List(ctx context.Context, f ShipmentListFilter) ([]models.Shipment, error) {
	q := r.preloaded(ctx)
	if f.UpdatedSince != nil {
		q = q.Where("updated_at >= ?", *f.UpdatedSince)
	}

	// системный список ограничен 500 записями, как в исходном API
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	var list []models.Shipment
	err := q.Order("updated_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *shipmentRepo) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]models.Shipment, error) {
	var list []models.Shipment
	err := r.preloaded(ctx).
		Where("driver_id = ?", driverID).
		Order("assigned_at DESC").
		Find(&list).Error
	return list, err
}
