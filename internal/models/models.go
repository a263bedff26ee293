package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleDriver           UserRole = "DRIVER"
	RoleWarehouseManager UserRole = "WAREHOUSE_MANAGER"
)

// User — учётная запись. Выпуск токенов живёт в отдельном сервисе,
// здесь пользователь нужен только для привязки профилей.
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name  string    `gorm:"type:text;not null"`
	Phone string    `gorm:"type:text;not null;uniqueIndex"`
	Role  UserRole  `gorm:"type:text;not null;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (User) TableName() string { return "users" }

// Driver — профиль водителя. Один пользователь — максимум один профиль.
type Driver struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	User     *User     `gorm:"foreignKey:UserID"`
	IsActive bool      `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (Driver) TableName() string { return "drivers" }

type WarehouseManager struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	User   *User     `gorm:"foreignKey:UserID"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (WarehouseManager) TableName() string { return "warehouse_managers" }

// Warehouse не принадлежит конкретному менеджеру: колонка владельца
// была удалена в последней ревизии схемы.
type Warehouse struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name     string    `gorm:"type:text;not null;index;uniqueIndex:ux_warehouses_name_location"`
	Location string    `gorm:"type:text;not null;index;uniqueIndex:ux_warehouses_name_location"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Warehouse) TableName() string { return "warehouses" }

// Product: stock_qty меняется только через reserve/release в ProductRepo.
type Product struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string    `gorm:"type:text;not null;index"`
	PriceCents int64     `gorm:"not null;default:0"`
	Unit       string    `gorm:"type:text;not null;default:''"`
	StockQty   int32     `gorm:"not null;default:0"`
	IsActive   bool      `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Product) TableName() string { return "products" }

// Customer хранит до трёх адресов доставки. Адрес в отгрузке сверяется
// с этими строками по точному совпадению после trim.
type Customer struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name     string    `gorm:"type:text;not null;index"`
	Phone    string    `gorm:"type:text;not null;index"`
	Address  string    `gorm:"type:text;not null;default:''"`
	Address2 string    `gorm:"type:text;not null;default:''"`
	Address3 string    `gorm:"type:text;not null;default:''"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Customer) TableName() string { return "customers" }

// Addresses возвращает непустые адреса без дублей, с trim.
func (c *Customer) Addresses() []string {
	out := make([]string, 0, 3)
	for _, a := range []string{c.Address, c.Address2, c.Address3} {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		dup := false
		for _, seen := range out {
			if seen == a {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, a)
		}
	}
	return out
}

type ShipmentStatus string

const (
	StatusNew       ShipmentStatus = "NEW"
	StatusAssigned  ShipmentStatus = "ASSIGNED"
	StatusPickedUp  ShipmentStatus = "PICKED_UP"
	StatusInTransit ShipmentStatus = "IN_TRANSIT"
	StatusDelivered ShipmentStatus = "DELIVERED"
	StatusCancelled ShipmentStatus = "CANCELLED"
)

func ValidShipmentStatus(s ShipmentStatus) bool {
	switch s {
	case StatusNew, StatusAssigned, StatusPickedUp, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Shipment. current_status — производное поле: всегда равно статусу
// последнего принятого StatusUpdate (или NEW, если записей нет).
// Единица товара считается зарезервированной тогда и только тогда,
// когда заполнены одновременно driver_id и product_id.
type Shipment struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	WarehouseID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Warehouse   *Warehouse `gorm:"foreignKey:WarehouseID"`

	DriverID *uuid.UUID `gorm:"type:uuid;index"`
	Driver   *Driver    `gorm:"foreignKey:DriverID"`

	ProductID *uuid.UUID `gorm:"type:uuid;index"`
	Product   *Product   `gorm:"foreignKey:ProductID"`

	CustomerID      *uuid.UUID `gorm:"type:uuid;index"`
	Customer        *Customer  `gorm:"foreignKey:CustomerID"`
	CustomerAddress *string    `gorm:"type:text"`

	ShipmentDetails string `gorm:"type:text;not null;default:''"`
	Notes           string `gorm:"type:text;not null;default:''"`

	AssignedAt    time.Time      `gorm:"not null;default:now()"`
	CurrentStatus ShipmentStatus `gorm:"type:text;not null;default:'NEW';index"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now();index"`
}

func (Shipment) TableName() string { return "shipments" }

// StatusUpdate — append-only журнал. Timestamp назначается сервером,
// клиентские значения игнорируются.
type StatusUpdate struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ShipmentID uuid.UUID `gorm:"type:uuid;not null;index"`
	Shipment   *Shipment `gorm:"foreignKey:ShipmentID"`

	Status    ShipmentStatus `gorm:"type:text;not null;index"`
	Timestamp time.Time      `gorm:"not null;index"`
	Note      string         `gorm:"type:text;not null;default:''"`
	PhotoURL  *string        `gorm:"type:text"`

	Latitude          *float64 `gorm:"type:numeric(9,6)"`
	Longitude         *float64 `gorm:"type:numeric(9,6)"`
	LocationAccuracyM *int32   `gorm:""`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (StatusUpdate) TableName() string { return "status_updates" }
