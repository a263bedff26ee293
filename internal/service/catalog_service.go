package service

import (
	"context"
	"strings"
	"time"

	"github.com/FatimaaAlzahraa/RouteX/internal/models"
	"github.com/FatimaaAlzahraa/RouteX/internal/repository"

	"github.com/google/uuid"
)

type WarehouseInput struct {
	Name     string
	Location string
}

type WarehousePatch struct {
	Name     *string
	Location *string
}

type CustomerInput struct {
	Name     string
	Phone    string
	Address  string
	Address2 string
	Address3 string
}

type CustomerPatch struct {
	Name     *string
	Phone    *string
	Address  *string
	Address2 *string
	Address3 *string
}

type ProductInput struct {
	Name       string
	PriceCents int64
	Unit       string
	StockQty   int32
	IsActive   bool
}

type ProductPatch struct {
	Name       *string
	PriceCents *int64
	Unit       *string
	IsActive   *bool
}

type ProductListFilter struct {
	Query      string
	OnlyActive *bool
	Limit      int
	Offset     int
}

// CatalogService — CRUD справочников: склады, клиенты, товары.
// Всё только для менеджеров. Остаток товара здесь задаётся при создании
// и явным пополнением; пути шипментов его не трогают.
type CatalogService interface {
	CreateWarehouse(ctx context.Context, in WarehouseInput) (*models.Warehouse, error)
	UpdateWarehouse(ctx context.Context, id uuid.UUID, patch WarehousePatch) (*models.Warehouse, error)
	GetWarehouse(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	ListWarehouses(ctx context.Context, limit, offset int) ([]models.Warehouse, int64, error)
	DeleteWarehouse(ctx context.Context, id uuid.UUID) (bool, error)

	CreateCustomer(ctx context.Context, in CustomerInput) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, patch CustomerPatch) (*models.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	ListCustomers(ctx context.Context, limit, offset int) ([]models.Customer, int64, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) (bool, error)

	CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch ProductPatch) (*models.Product, error)
	RestockProduct(ctx context.Context, id uuid.UUID, qty int32) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error)
}

type catalogService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewCatalogService(repo *repository.Repository) CatalogService {
	return &catalogService{repo: repo, now: time.Now}
}

func (s *catalogService) CreateWarehouse(ctx context.Context, in WarehouseInput) (*models.Warehouse, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	location := strings.TrimSpace(in.Location)
	if name == "" {
		return nil, NewValidationError("name", "name is required")
	}
	if location == "" {
		return nil, NewValidationError("location", "location is required")
	}

	if existing, err := s.repo.Warehouses.GetByNameAndLocation(ctx, name, location); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrWarehouseExists
	}

	w := &models.Warehouse{Name: name, Location: location}
	if err := s.repo.Warehouses.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *catalogService) UpdateWarehouse(ctx context.Context, id uuid.UUID, patch WarehousePatch) (*models.Warehouse, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, err
	}

	w, err := s.repo.Warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrWarehouseNotFound
	}

	fields := map[string]any{}
	name, location := w.Name, w.Location
	if patch.Name != nil {
		name = strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, NewValidationError("name", "name is required")
		}
		fields["name"] = name
	}
	if patch.Location != nil {
		location = strings.TrimSpace(*patch.Location)
		if location == "" {
			return nil, NewValidationError("location", "location is required")
		}
		fields["location"] = location
	}
	if len(fields) == 0 {
		return w, nil
	}

	if existing, err := s.repo.Warehouses.GetByNameAndLocation(ctx, name, location); err != nil {
		return nil, err
	} else if existing != nil && existing.ID != id {
		return nil, ErrWarehouseExists
	}

	fields["updated_at"] = s.now()
	if err := s.repo.Warehouses.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.Warehouses.GetByID(ctx, id)
}

func (s *catalogService) GetWarehouse(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, err
	}
	w, err := s.repo.Warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrWarehouseNotFound
	}
	return w, nil
}

func (s *catalogService) ListWarehouses(ctx context.Context, limit, offset int) ([]models.Warehouse, int64, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, 0, err
	}
	return s.repo.Warehouses.List(ctx, limit, offset)
}

func (s *catalogService) DeleteWarehouse(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := requireManager(ctx); err != nil {
		return false, err
	}
	return s.repo.Warehouses.Delete(ctx, id)
}

func validateCustomerAddresses(a1, a2, a3 string) error {
	if strings.TrimSpace(a1) == "" && strings.TrimSpace(a2) == "" && strings.TrimSpace(a3) == "" {
		return NewValidationError("address", "at least one address is required")
	}
	return nil
}

func (s *catalogService) CreateCustomer(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Name) == "" {
		return nil, NewValidationError("name", "name is required")
	}
	if strings.TrimSpace(in.Phone) == "" {
		return nil, NewValidationError("phone", "phone is required")
	}
	if err := validateCustomerAddresses(in.Address, in.Address2, in.Address3); err != nil {
		return nil, err
	}

	c := &models.Customer{
		Name:     strings.TrimSpace(in.Name),
		Phone:    strings.TrimSpace(in.Phone),
		Address:  strings.TrimSpace(in.Address),
		Address2: strings.TrimSpace(in.Address2),
		Address3: strings.TrimSpace(in.Address3),
	}
	if err := s.repo.Customers.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *catalogService) UpdateCustomer(ctx context.Context, id uuid.UUID, patch CustomerPatch) (*models.Customer, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, err
	}

	c, err := s.repo.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCustomerNotFound
	}

	a1, a2, a3 := c.Address, c.Address2, c.Address3
	fields := map[string]any{}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, NewValidationError("name", "name is required")
		}
		fields["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Phone != nil {
		if strings.TrimSpace(*patch.Phone) == "" {
			return nil, NewValidationError("phone", "phone is required")
		}
		fields["phone"] = strings.TrimSpace(*patch.Phone)
	}
	if patch.Address != nil {
		a1 = strings.TrimSpace(*patch.Address)
		fields["address"] = a1
	}
	if patch.Address2 != nil {
		a2 = strings.TrimSpace(*patch.Address2)
		fields["address2"] = a2
	}
	if patch.Address3 != nil {
		a3 = strings.TrimSpace(*patch.Address3)
		fields["address3"] = a3
	}
	if err := validateCustomerAddresses(a1, a2, a3); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return c, nil
	}

	fields["updated_at"] = s.now()
	if err := s.repo.Customers.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.Customers.GetByID(ctx, id)
}

func (s *catalogService) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, err
	}
	c, err := s.repo.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCustomerNotFound
	}
	return c, nil
}

func (s *catalogService) ListCustomers(ctx context.Context, limit, offset int) ([]models.Customer, int64, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, 0, err
	}
	return s.repo.Customers.List(ctx, limit, offset)
}

func (s *catalogService) DeleteCustomer(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := requireManager(ctx); err != nil {
		return false, err
	}
	return s.repo.Customers.Delete(ctx, id)
}

func (s *catalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Name) == "" {
		return nil, NewValidationError("name", "name is required")
	}
	if in.StockQty < 0 {
		return nil, NewValidationError("stock_qty", "stock_qty cannot be negative")
	}
	if in.PriceCents < 0 {
		return nil, NewValidationError("price_cents", "price_cents cannot be negative")
	}

	p := &models.Product{
		Name:       strings.TrimSpace(in.Name),
		PriceCents: in.PriceCents,
		Unit:       strings.TrimSpace(in.Unit),
		StockQty:   in.StockQty,
		IsActive:   in.IsActive,
	}
	if err := s.repo.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, patch ProductPatch) (*models.Product, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, err
	}

	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	fields := map[string]any{}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, NewValidationError("name", "name is required")
		}
		fields["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.PriceCents != nil {
		if *patch.PriceCents < 0 {
			return nil, NewValidationError("price_cents", "price_cents cannot be negative")
		}
		fields["price_cents"] = *patch.PriceCents
	}
	if patch.Unit != nil {
		fields["unit"] = strings.TrimSpace(*patch.Unit)
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}
	if len(fields) == 0 {
		return p, nil
	}

	fields["updated_at"] = s.now()
	if err := s.repo.Products.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.Products.GetByID(ctx, id)
}

// RestockProduct — единственный путь пополнения склада помимо release
// при снятии водителя. Использует тот же безусловный инкремент.
func (s *catalogService) RestockProduct(ctx context.Context, id uuid.UUID, qty int32) (*models.Product, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, err
	}
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	if _, err := s.repo.Products.Release(ctx, id, qty); err != nil {
		return nil, err
	}
	return s.repo.Products.GetByID(ctx, id)
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, err
	}
	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *catalogService) ListProducts(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, 0, err
	}
	return s.repo.Products.List(ctx, repository.ProductListFilter{
		Query:      f.Query,
		OnlyActive: f.OnlyActive,
		Limit:      f.Limit,
		Offset:     f.Offset,
	})
}
