package service_test

import (
	"errors"
	"testing"

	"github.com/FatimaaAlzahraa/RouteX/internal/service"
)

func TestCatalogService_WarehouseUniqueness(t *testing.T) {
	e := setupEnv(t)
	catalog := service.NewCatalogService(e.repos)

	w, err := catalog.CreateWarehouse(e.managerCtx, service.WarehouseInput{Name: "Main", Location: "Cairo"})
	if err != nil {
		t.Fatalf("CreateWarehouse: %v", err)
	}

	// та же пара (имя, расположение) — конфликт
	_, err = catalog.CreateWarehouse(e.managerCtx, service.WarehouseInput{Name: " Main ", Location: "Cairo"})
	if !errors.Is(err, service.ErrWarehouseExists) {
		t.Fatalf("expected ErrWarehouseExists, got %v", err)
	}

	// то же имя в другом месте — допустимо
	if _, err := catalog.CreateWarehouse(e.managerCtx, service.WarehouseInput{Name: "Main", Location: "Giza"}); err != nil {
		t.Fatalf("CreateWarehouse other location: %v", err)
	}

	newName := "Main"
	newLoc := "Giza"
	_, err = catalog.UpdateWarehouse(e.managerCtx, w.ID, service.WarehousePatch{Name: &newName, Location: &newLoc})
	if !errors.Is(err, service.ErrWarehouseExists) {
		t.Fatalf("expected ErrWarehouseExists on update, got %v", err)
	}

	// справочники закрыты для водителей
	_, err = catalog.CreateWarehouse(e.driverCtx, service.WarehouseInput{Name: "X", Location: "Y"})
	if !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCatalogService_CustomerAddressRule(t *testing.T) {
	e := setupEnv(t)
	catalog := service.NewCatalogService(e.repos)

	// без единого адреса клиент не создаётся
	_, err := catalog.CreateCustomer(e.managerCtx, service.CustomerInput{
		Name: "NoAddr", Phone: "+201000000800", Address: "   ",
	})
	if _, ok := service.AsValidation(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}

	c, err := catalog.CreateCustomer(e.managerCtx, service.CustomerInput{
		Name: "Ok", Phone: "+201000000801", Address2: " 5 Side St ",
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if c.Address2 != "5 Side St" {
		t.Fatalf("expected trimmed address, got %q", c.Address2)
	}

	// нельзя стереть последний адрес
	empty := ""
	_, err = catalog.UpdateCustomer(e.managerCtx, c.ID, service.CustomerPatch{Address2: &empty})
	if _, ok := service.AsValidation(err); !ok {
		t.Fatalf("expected validation error on clearing last address, got %v", err)
	}
}

func TestCatalogService_ProductRestock(t *testing.T) {
	e := setupEnv(t)
	catalog := service.NewCatalogService(e.repos)

	p, err := catalog.CreateProduct(e.managerCtx, service.ProductInput{
		Name: "Steel Rod", PriceCents: 12000, Unit: "pc", StockQty: 2, IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	// обычный PATCH остаток не трогает
	newName := "Steel Rod 12mm"
	upd, err := catalog.UpdateProduct(e.managerCtx, p.ID, service.ProductPatch{Name: &newName})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if upd.StockQty != 2 {
		t.Fatalf("stock changed via update: %d", upd.StockQty)
	}

	restocked, err := catalog.RestockProduct(e.managerCtx, p.ID, 10)
	if err != nil {
		t.Fatalf("RestockProduct: %v", err)
	}
	if restocked.StockQty != 12 {
		t.Fatalf("expected stock=12, got %d", restocked.StockQty)
	}

	_, err = catalog.RestockProduct(e.managerCtx, p.ID, 0)
	if !errors.Is(err, service.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	_, err = catalog.RestockProduct(e.managerCtx, p.ID, -5)
	if !errors.Is(err, service.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity for negative, got %v", err)
	}
}
