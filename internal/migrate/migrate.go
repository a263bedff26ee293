package migrate

import (
	"context"

	"github.com/FatimaaAlzahraa/RouteX/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto
	CreateChecks           bool // CHECK-constraint'ы
	CreateIndexes          bool // индексы и UNIQUE
	CreateFKsViaSQL        bool // FK через Exec после AutoMigrate
	CreateUpdatedAtTrigger bool // триггеры updated_at
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateFKsViaSQL:        true,
		CreateUpdatedAtTrigger: true,
	}
}

func MigrateRouteXDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("Начало миграции базы логистики")

	if opt.CreateExtensions {
		if err := db.WithContext(ctx).Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("pgcrypto error", zap.Error(err))
			return err
		}
	}

	log.Info("Создание таблиц")
	if err := db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Driver{},
		&models.WarehouseManager{},
		&models.Warehouse{},
		&models.Product{},
		&models.Customer{},
		&models.Shipment{},
		&models.StatusUpdate{},
	); err != nil {
		log.Error("AutoMigrate error", zap.Error(err))
		return err
	}

	if opt.CreateUpdatedAtTrigger {
		log.Info("Создание триггеров updated_at")
		if err := db.WithContext(ctx).Exec(`
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_warehouses_updated ON warehouses;
CREATE TRIGGER trg_warehouses_updated BEFORE UPDATE ON warehouses
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_products_updated ON products;
CREATE TRIGGER trg_products_updated BEFORE UPDATE ON products
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_customers_updated ON customers;
CREATE TRIGGER trg_customers_updated BEFORE UPDATE ON customers
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_shipments_updated ON shipments;
CREATE TRIGGER trg_shipments_updated BEFORE UPDATE ON shipments
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`).Error; err != nil {
			log.Error("triggers error", zap.Error(err))
			return err
		}
	}

	if opt.CreateChecks {
		log.Info("Создание CHECK-ограничений")

		// Остаток не может уйти в минус — страхует резервирование на уровне БД
		if err := db.WithContext(ctx).Exec(`
ALTER TABLE products
	DROP CONSTRAINT IF EXISTS chk_products_stock_non_negative,
	ADD CONSTRAINT chk_products_stock_non_negative
	CHECK (stock_qty >= 0);
`).Error; err != nil {
			log.Error("chk products.stock_qty", zap.Error(err))
			return err
		}

		if err := db.WithContext(ctx).Exec(`
ALTER TABLE products
	DROP CONSTRAINT IF EXISTS chk_products_price_non_negative,
	ADD CONSTRAINT chk_products_price_non_negative
	CHECK (price_cents >= 0);
`).Error; err != nil {
			log.Error("chk products.price_cents", zap.Error(err))
			return err
		}

		// У клиента должен быть хотя бы один адрес
		if err := db.WithContext(ctx).Exec(`
ALTER TABLE customers
	DROP CONSTRAINT IF EXISTS chk_customers_has_address,
	ADD CONSTRAINT chk_customers_has_address
	CHECK (btrim(address) <> '' OR btrim(address2) <> '' OR btrim(address3) <> '');
`).Error; err != nil {
			log.Error("chk customers.address", zap.Error(err))
			return err
		}

		// Допустимые статусы
		if err := db.WithContext(ctx).Exec(`
ALTER TABLE shipments
	DROP CONSTRAINT IF EXISTS chk_shipments_status_allowed,
	ADD CONSTRAINT chk_shipments_status_allowed
	CHECK (current_status IN ('NEW','ASSIGNED','PICKED_UP','IN_TRANSIT','DELIVERED','CANCELLED'));
`).Error; err != nil {
			log.Error("chk shipments.current_status", zap.Error(err))
			return err
		}

		if err := db.WithContext(ctx).Exec(`
ALTER TABLE status_updates
	DROP CONSTRAINT IF EXISTS chk_status_updates_status_allowed,
	ADD CONSTRAINT chk_status_updates_status_allowed
	CHECK (status IN ('NEW','ASSIGNED','PICKED_UP','IN_TRANSIT','DELIVERED','CANCELLED'));
`).Error; err != nil {
			log.Error("chk status_updates.status", zap.Error(err))
			return err
		}

		// Точность GPS, если указана — в пределах 30 метров
		if err := db.WithContext(ctx).Exec(`
ALTER TABLE status_updates
	DROP CONSTRAINT IF EXISTS chk_status_updates_accuracy,
	ADD CONSTRAINT chk_status_updates_accuracy
	CHECK (location_accuracy_m IS NULL OR (location_accuracy_m >= 0 AND location_accuracy_m <= 30));
`).Error; err != nil {
			log.Error("chk status_updates.accuracy", zap.Error(err))
			return err
		}

		// Широта и долгота — только парой
		if err := db.WithContext(ctx).Exec(`
ALTER TABLE status_updates
	DROP CONSTRAINT IF EXISTS chk_status_updates_lat_lng_pair,
	ADD CONSTRAINT chk_status_updates_lat_lng_pair
	CHECK ((latitude IS NULL) = (longitude IS NULL));
`).Error; err != nil {
			log.Error("chk status_updates.lat_lng", zap.Error(err))
			return err
		}
	}

	if opt.CreateIndexes {
		log.Info("Создание индексов")

		if err := db.WithContext(ctx).Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_warehouses_name_location
ON warehouses (name, location);
`).Error; err != nil {
			log.Error("ux warehouses name_location", zap.Error(err))
			return err
		}

		if err := db.WithContext(ctx).Exec(`
CREATE INDEX IF NOT EXISTS ix_status_updates_shipment_ts
ON status_updates (shipment_id, "timestamp" DESC);
`).Error; err != nil {
			log.Error("ix status_updates shipment_ts", zap.Error(err))
			return err
		}

		if err := db.WithContext(ctx).Exec(`
CREATE INDEX IF NOT EXISTS ix_status_updates_status_ts
ON status_updates (status, "timestamp" DESC);
`).Error; err != nil {
			log.Error("ix status_updates status_ts", zap.Error(err))
			return err
		}

		if err := db.WithContext(ctx).Exec(`
CREATE INDEX IF NOT EXISTS ix_shipments_driver_updated
ON shipments (driver_id, updated_at DESC);
`).Error; err != nil {
			log.Error("ix shipments driver_updated", zap.Error(err))
			return err
		}
	}

	if opt.CreateFKsViaSQL {
		log.Info("Создание внешних ключей")

		// Профили каскадом за пользователем
		if err := db.WithContext(ctx).Exec(`
ALTER TABLE drivers
  DROP CONSTRAINT IF EXISTS fk_drivers_user,
  ADD CONSTRAINT fk_drivers_user
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;

ALTER TABLE warehouse_managers
  DROP CONSTRAINT IF EXISTS fk_warehouse_managers_user,
  ADD CONSTRAINT fk_warehouse_managers_user
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk profiles.user_id", zap.Error(err))
			return err
		}

		// Справочники под шипментами — RESTRICT, как PROTECT в исходной схеме
		if err := db.WithContext(ctx).Exec(`
ALTER TABLE shipments
  DROP CONSTRAINT IF EXISTS fk_shipments_warehouse,
  ADD CONSTRAINT fk_shipments_warehouse
    FOREIGN KEY (warehouse_id) REFERENCES warehouses(id) ON DELETE RESTRICT;

ALTER TABLE shipments
  DROP CONSTRAINT IF EXISTS fk_shipments_driver,
  ADD CONSTRAINT fk_shipments_driver
    FOREIGN KEY (driver_id) REFERENCES drivers(id) ON DELETE RESTRICT;

ALTER TABLE shipments
  DROP CONSTRAINT IF EXISTS fk_shipments_product,
  ADD CONSTRAINT fk_shipments_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT;

ALTER TABLE shipments
  DROP CONSTRAINT IF EXISTS fk_shipments_customer,
  ADD CONSTRAINT fk_shipments_customer
    FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE RESTRICT;
`).Error; err != nil {
			log.Error("fk shipments", zap.Error(err))
			return err
		}

		// Журнал статусов умирает вместе с шипментом
		if err := db.WithContext(ctx).Exec(`
ALTER TABLE status_updates
  DROP CONSTRAINT IF EXISTS fk_status_updates_shipment,
  ADD CONSTRAINT fk_status_updates_shipment
    FOREIGN KEY (shipment_id) REFERENCES shipments(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk status_updates.shipment_id", zap.Error(err))
			return err
		}
	}

	log.Info("Миграция базы логистики успешно завершена")
	return nil
}
