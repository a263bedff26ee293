package service

import (
	"context"
	"strings"
	"time"

	"github.com/FatimaaAlzahraa/RouteX/internal/models"
	"github.com/FatimaaAlzahraa/RouteX/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type shipmentService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewShipmentService(repo *repository.Repository, log *zap.Logger) ShipmentService {
	return &shipmentService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// resolveDriver принимает id и/или имя. Имя должно указывать ровно на
// одного водителя; расхождение id и имени — ошибка валидации, как в
// исходном API.
func (s *shipmentService) resolveDriver(ctx context.Context, id *uuid.UUID, name *string) (*uuid.UUID, error) {
	var byName *models.Driver
	if name != nil && strings.TrimSpace(*name) != "" {
		list, err := s.repo.Drivers.FindByUserName(ctx, *name)
		if err != nil {
			return nil, err
		}
		switch len(list) {
		case 0:
			return nil, NewValidationError("driver_name", "No driver found with this name.")
		case 1:
			byName = &list[0]
		default:
			return nil, NewValidationError("driver_name", "Multiple drivers share this name. Please use driver (id).")
		}
	}

	if id != nil {
		d, err := s.repo.Drivers.GetByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		if d == nil {
			return nil, ErrDriverNotFound
		}
		if byName != nil && byName.ID != d.ID {
			return nil, NewValidationError("driver", "driver id conflicts with driver_name. Use one or make them match.")
		}
		out := d.ID
		return &out, nil
	}

	if byName != nil {
		out := byName.ID
		return &out, nil
	}
	return nil, nil
}

// validateCustomerAddress сверяет адрес с сохранёнными адресами клиента
// (точное совпадение после trim). Единственный адрес подставляется сам.
// В ошибку валидации кладётся список допустимых адресов.
func validateCustomerAddress(cust *models.Customer, addr *string) (string, error) {
	addrs := cust.Addresses()
	if len(addrs) == 0 {
		return "", NewValidationError("customer", "customer has no saved addresses")
	}

	var a string
	if addr != nil {
		a = strings.TrimSpace(*addr)
	}
	if a == "" {
		if len(addrs) == 1 {
			return addrs[0], nil
		}
		ve := NewValidationError("customer_address", "customer_address is required")
		ve.AllowedAddresses = addrs
		return "", ve
	}

	for _, known := range addrs {
		if known == a {
			return a, nil
		}
	}
	ve := NewValidationError("customer_address", "customer_address must be one of the customer's saved addresses")
	ve.AllowedAddresses = addrs
	return "", ve
}

// checkReservable — fail-fast перед транзакцией: товар существует,
// активен и остаток положительный. Финальное слово всё равно за
// условным UPDATE внутри транзакции.
func (s *shipmentService) checkReservable(ctx context.Context, productID uuid.UUID) error {
	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProductNotFound
	}
	if !p.IsActive {
		return NewValidationError("product", "product is inactive")
	}
	if p.StockQty <= 0 {
		return ErrOutOfStock
	}
	return nil
}

func (s *shipmentService) CreateShipment(ctx context.Context, in ShipmentInput) (*models.Shipment, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, err
	}

	wh, err := s.repo.Warehouses.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, ErrWarehouseNotFound
	}

	driverID, err := s.resolveDriver(ctx, in.DriverID, in.DriverName)
	if err != nil {
		return nil, err
	}

	var (
		customerID   *uuid.UUID
		customerAddr *string
	)
	if in.CustomerID != nil {
		cust, err := s.repo.Customers.GetByID(ctx, *in.CustomerID)
		if err != nil {
			return nil, err
		}
		if cust == nil {
			return nil, ErrCustomerNotFound
		}
		a, err := validateCustomerAddress(cust, in.CustomerAddress)
		if err != nil {
			return nil, err
		}
		customerID = in.CustomerID
		customerAddr = &a
	}
	// без клиента адрес принудительно NULL, что бы ни прислали

	if in.ProductID != nil {
		p, err := s.repo.Products.GetByID(ctx, *in.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, ErrProductNotFound
		}
	}

	needReserve := driverID != nil && in.ProductID != nil
	if needReserve {
		if err := s.checkReservable(ctx, *in.ProductID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	sh := &models.Shipment{
		WarehouseID:     in.WarehouseID,
		DriverID:        driverID,
		ProductID:       in.ProductID,
		CustomerID:      customerID,
		CustomerAddress: customerAddr,
		ShipmentDetails: in.ShipmentDetails,
		Notes:           in.Notes,
		AssignedAt:      now,
		CurrentStatus:   models.StatusNew,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// запись шипмента и резерв — одна all-or-nothing транзакция
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		if err := tx.Shipments.Create(ctx, sh); err != nil {
			return err
		}
		if needReserve {
			ok, err := tx.Products.TryReserve(ctx, *in.ProductID, 1)
			if err != nil {
				return err
			}
			if !ok {
				return ErrOutOfStock
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("shipment created",
		zap.String("shipment_id", sh.ID.String()),
		zap.Bool("reserved", needReserve))

	return s.repo.Shipments.GetByID(ctx, sh.ID)
}

func (s *shipmentService) UpdateShipment(ctx context.Context, id uuid.UUID, patch ShipmentPatch) (*models.Shipment, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, err
	}

	old, err := s.repo.Shipments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if old == nil {
		return nil, ErrShipmentNotFound
	}

	warehouseID := old.WarehouseID
	if patch.WarehouseID != nil {
		wh, err := s.repo.Warehouses.GetByID(ctx, *patch.WarehouseID)
		if err != nil {
			return nil, err
		}
		if wh == nil {
			return nil, ErrWarehouseNotFound
		}
		warehouseID = *patch.WarehouseID
	}

	// пустое имя — это отсутствие фильтра, а не снятие водителя;
	// снять водителя можно только явным driver: null
	nameGiven := patch.DriverName != nil && strings.TrimSpace(*patch.DriverName) != ""

	newDriver := old.DriverID
	if patch.Driver.Set || nameGiven {
		var idArg *uuid.UUID
		if patch.Driver.Set {
			idArg = patch.Driver.Value
		}
		newDriver, err = s.resolveDriver(ctx, idArg, patch.DriverName)
		if err != nil {
			return nil, err
		}
	}

	newProduct := old.ProductID
	if patch.Product.Set {
		if patch.Product.Value != nil {
			p, err := s.repo.Products.GetByID(ctx, *patch.Product.Value)
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, ErrProductNotFound
			}
		}
		newProduct = patch.Product.Value
	}

	newCustomer := old.CustomerID
	if patch.Customer.Set {
		newCustomer = patch.Customer.Value
	}
	var newAddr *string
	if newCustomer != nil {
		cust, err := s.repo.Customers.GetByID(ctx, *newCustomer)
		if err != nil {
			return nil, err
		}
		if cust == nil {
			return nil, ErrCustomerNotFound
		}
		addrArg := old.CustomerAddress
		if patch.CustomerAddress.Set {
			addrArg = patch.CustomerAddress.Value
		}
		a, err := validateCustomerAddress(cust, addrArg)
		if err != nil {
			return nil, err
		}
		newAddr = &a
	}

	// Резерв существует тогда и только тогда, когда заполнены и водитель,
	// и товар. Новый резерв нужен, если пара появилась или товар сменился.
	oldHeld := old.DriverID != nil && old.ProductID != nil
	newHeld := newDriver != nil && newProduct != nil
	needReserve := newHeld && (!oldHeld || *old.ProductID != *newProduct)
	releaseOld := oldHeld && (!newHeld || *old.ProductID != *newProduct)

	if needReserve {
		if err := s.checkReservable(ctx, *newProduct); err != nil {
			return nil, err
		}
	}

	now := s.now()
	fields := map[string]any{
		"warehouse_id":     warehouseID,
		"driver_id":        newDriver,
		"product_id":       newProduct,
		"customer_id":      newCustomer,
		"customer_address": newAddr,
		"updated_at":       now,
	}
	if patch.ShipmentDetails != nil {
		fields["shipment_details"] = *patch.ShipmentDetails
	}
	if patch.Notes != nil {
		fields["notes"] = *patch.Notes
	}
	if old.DriverID == nil && newDriver != nil {
		fields["assigned_at"] = now
	}

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		if err := tx.Shipments.UpdateFields(ctx, id, fields); err != nil {
			return err
		}
		// порядок фиксированный: сначала вернуть старый резерв,
		// потом занять новый
		if releaseOld {
			if _, err := tx.Products.Release(ctx, *old.ProductID, 1); err != nil {
				return err
			}
		}
		if needReserve {
			ok, err := tx.Products.TryReserve(ctx, *newProduct, 1)
			if err != nil {
				return err
			}
			if !ok {
				return ErrOutOfStock
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Shipments.GetByID(ctx, id)
}

func (s *shipmentService) GetShipment(ctx context.Context, id uuid.UUID) (*models.Shipment, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, err
	}
	sh, err := s.repo.Shipments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sh == nil {
		return nil, ErrShipmentNotFound
	}
	return sh, nil
}

func (s *shipmentService) ListShipments(ctx context.Context, f ShipmentListFilter) ([]models.Shipment, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, err
	}
	return s.repo.Shipments.List(ctx, repository.ShipmentListFilter{
		UpdatedSince: f.UpdatedSince,
		Limit:        f.Limit,
	})
}

func (s *shipmentService) ListDriverShipments(ctx context.Context) ([]models.Shipment, error) {
	a, err := requireDriver(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.Shipments.ListByDriver(ctx, a.ProfileID)
}

func (s *shipmentService) DeleteShipment(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := requireManager(ctx); err != nil {
		return false, err
	}

	old, err := s.repo.Shipments.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if old == nil {
		return false, ErrShipmentNotFound
	}

	var deleted bool
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		// невыданный резерв возвращается на склад вместе с удалением
		if old.DriverID != nil && old.ProductID != nil {
			if _, err := tx.Products.Release(ctx, *old.ProductID, 1); err != nil {
				return err
			}
		}
		ok, err := tx.Shipments.Delete(ctx, id)
		if err != nil {
			return err
		}
		deleted = ok
		return nil
	})
	return deleted, err
}
