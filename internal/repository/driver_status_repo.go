package repository

import (
	"context"
	"time"

	"github.com/FatimaaAlzahraa/RouteX/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DriverStatusRow — сырой срез проекции доступности: по одному на водителя.
// last_status/last_seen_at берутся из последнего StatusUpdate по любой его
// отгрузке; current_active_shipment_id — последняя обновлённая отгрузка,
// чей свежий статус ASSIGNED или IN_TRANSIT.
type DriverStatusRow struct {
	DriverID                uuid.UUID              `gorm:"column:driver_id"`
	DriverName              string                 `gorm:"column:driver_name"`
	DriverPhone             string                 `gorm:"column:driver_phone"`
	IsActive                bool                   `gorm:"column:is_active"`
	LastStatus              *models.ShipmentStatus `gorm:"column:last_status"`
	LastSeenAt              *time.Time             `gorm:"column:last_seen_at"`
	CurrentActiveShipmentID *uuid.UUID             `gorm:"column:current_active_shipment_id"`
}

type DriverStatusRepo interface {
	// Query считается на каждый запрос коррелированными подзапросами,
	// без materialized-представлений: водителей немного.
	Query(ctx context.Context, search string) ([]DriverStatusRow, error)
}

type driverStatusRepo struct{ db *gorm.DB }

func NewDriverStatusRepo(db *gorm.DB) DriverStatusRepo { return &driverStatusRepo{db: db} }

func (r *driverStatusRepo) Query(ctx context.Context, search string) ([]DriverStatusRow, error) {
	var rows []DriverStatusRow
	like := "%" + search + "%"
	err := r.db.WithContext(ctx).Raw(`
SELECT
  d.id       AS driver_id,
  u.name     AS driver_name,
  u.phone    AS driver_phone,
  d.is_active,
  lu.status  AS last_status,
  lu.ts      AS last_seen_at,
  act.id     AS current_active_shipment_id
FROM drivers d
JOIN users u ON u.id = d.user_id
LEFT JOIN LATERAL (
  SELECT su.status, su."timestamp" AS ts
  FROM status_updates su
  JOIN shipments s ON s.id = su.shipment_id
  WHERE s.driver_id = d.id
  ORDER BY su."timestamp" DESC
  LIMIT 1
) lu ON true
LEFT JOIN LATERAL (
  SELECT s.id
  FROM shipments s
  WHERE s.driver_id = d.id
    AND (
      SELECT su2.status
      FROM status_updates su2
      WHERE su2.shipment_id = s.id
      ORDER BY su2."timestamp" DESC
      LIMIT 1
    ) IN ('ASSIGNED','IN_TRANSIT')
  ORDER BY s.updated_at DESC
  LIMIT 1
) act ON true
WHERE (@q = '' OR u.name ILIKE @like OR u.phone ILIKE @like)
ORDER BY u.name, d.id
`, map[string]any{
		"q":    search,
		"like": like,
	}).Scan(&rows).Error
	return rows, err
}
