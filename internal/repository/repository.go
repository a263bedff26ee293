package repository

import "gorm.io/gorm"

type Repository struct {
	DB            *gorm.DB
	Users         UserRepo
	Drivers       DriverRepo
	Managers      ManagerRepo
	Warehouses    WarehouseRepo
	Products      ProductRepo
	Customers     CustomerRepo
	Shipments     ShipmentRepo
	StatusUpdates StatusUpdateRepo
	DriverStatus  DriverStatusRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:            db,
		Users:         NewUserRepo(db),
		Drivers:       NewDriverRepo(db),
		Managers:      NewManagerRepo(db),
		Warehouses:    NewWarehouseRepo(db),
		Products:      NewProductRepo(db),
		Customers:     NewCustomerRepo(db),
		Shipments:     NewShipmentRepo(db),
		StatusUpdates: NewStatusUpdateRepo(db),
		DriverStatus:  NewDriverStatusRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// Глобальная транзакция на весь набор репо
func (r *Repository) WithTx(fn func(tx *Repository) error) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}
