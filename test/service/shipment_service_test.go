package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/FatimaaAlzahraa/RouteX/internal/migrate"
	"github.com/FatimaaAlzahraa/RouteX/internal/models"
	"github.com/FatimaaAlzahraa/RouteX/internal/repository"
	"github.com/FatimaaAlzahraa/RouteX/internal/service"
	"github.com/FatimaaAlzahraa/RouteX/pkg/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type env struct {
	repos      *repository.Repository
	shipments  service.ShipmentService
	statuses   service.StatusService
	managerCtx context.Context
	driverCtx  context.Context
	driver     *models.Driver
}

func setupEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.SetupTestPostgres(t)
	if err := migrate.MigrateRouteXDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repos := repository.New(db)
	ctx := context.Background()

	managerUser := &models.User{Name: "Mona Manager", Phone: "+201000000100", Role: models.RoleWarehouseManager}
	if err := repos.Users.Create(ctx, managerUser); err != nil {
		t.Fatalf("Create manager user: %v", err)
	}
	manager := &models.WarehouseManager{UserID: managerUser.ID}
	if err := repos.Managers.Create(ctx, manager); err != nil {
		t.Fatalf("Create manager profile: %v", err)
	}

	driver := newDriver(t, repos, "Ahmed Driver", "+201000000101", true)

	return &env{
		repos:     repos,
		shipments: service.NewShipmentService(repos, zap.NewNop()),
		statuses:  service.NewStatusService(repos, nil, nil, zap.NewNop()),
		managerCtx: service.WithActor(ctx, service.Actor{
			UserID: managerUser.ID, Role: models.RoleWarehouseManager, ProfileID: manager.ID,
		}),
		driverCtx: service.WithActor(ctx, service.Actor{
			UserID: driver.UserID, Role: models.RoleDriver, ProfileID: driver.ID,
		}),
		driver: driver,
	}
}

func newDriver(t *testing.T, repos *repository.Repository, name, phone string, active bool) *models.Driver {
	t.Helper()
	ctx := context.Background()
	u := &models.User{Name: name, Phone: phone, Role: models.RoleDriver}
	if err := repos.Users.Create(ctx, u); err != nil {
		t.Fatalf("Create driver user: %v", err)
	}
	d := &models.Driver{UserID: u.ID, IsActive: active}
	if err := repos.Drivers.Create(ctx, d); err != nil {
		t.Fatalf("Create driver profile: %v", err)
	}
	return d
}

func driverActorCtx(d *models.Driver) context.Context {
	return service.WithActor(context.Background(), service.Actor{
		UserID: d.UserID, Role: models.RoleDriver, ProfileID: d.ID,
	})
}

func newWarehouse(t *testing.T, repos *repository.Repository) *models.Warehouse {
	t.Helper()
	w := &models.Warehouse{Name: "Main " + uuid.NewString()[:8], Location: "Cairo"}
	if err := repos.Warehouses.Create(context.Background(), w); err != nil {
		t.Fatalf("Create warehouse: %v", err)
	}
	return w
}

func newProduct(t *testing.T, repos *repository.Repository, name string, stock int32) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, StockQty: stock, IsActive: true}
	if err := repos.Products.Create(context.Background(), p); err != nil {
		t.Fatalf("Create product: %v", err)
	}
	return p
}

func stockOf(t *testing.T, repos *repository.Repository, id uuid.UUID) int32 {
	t.Helper()
	p, err := repos.Products.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID product: %v", err)
	}
	return p.StockQty
}

func TestShipmentService_CreateWithAssignmentReserves(t *testing.T) {
	e := setupEnv(t)
	warehouse := newWarehouse(t, e.repos)
	product := newProduct(t, e.repos, "Cement", 3)

	sh, err := e.shipments.CreateShipment(e.managerCtx, service.ShipmentInput{
		WarehouseID: warehouse.ID,
		DriverID:    &e.driver.ID,
		ProductID:   &product.ID,
	})
	if err != nil {
		t.Fatalf("CreateShipment: %v", err)
	}
	if sh.CurrentStatus != models.StatusNew {
		t.Fatalf("expected NEW, got %s", sh.CurrentStatus)
	}
	if sh.DriverID == nil || *sh.DriverID != e.driver.ID {
		t.Fatalf("driver not assigned: %+v", sh.DriverID)
	}
	if got := stockOf(t, e.repos, product.ID); got != 2 {
		t.Fatalf("expected stock=2 after reserve, got %d", got)
	}

	// без полной пары водитель+товар резерва нет
	sh2, err := e.shipments.CreateShipment(e.managerCtx, service.ShipmentInput{
		WarehouseID: warehouse.ID,
		ProductID:   &product.ID,
	})
	if err != nil {
		t.Fatalf("CreateShipment without driver: %v", err)
	}
	if sh2.DriverID != nil {
		t.Fatalf("unexpected driver: %+v", sh2.DriverID)
	}
	if got := stockOf(t, e.repos, product.ID); got != 2 {
		t.Fatalf("stock must not change without driver, got %d", got)
	}
}

func TestShipmentService_CreateOutOfStock(t *testing.T) {
	e := setupEnv(t)
	warehouse := newWarehouse(t, e.repos)
	product := newProduct(t, e.repos, "Empty", 0)

	_, err := e.shipments.CreateShipment(e.managerCtx, service.ShipmentInput{
		WarehouseID: warehouse.ID,
		DriverID:    &e.driver.ID,
		ProductID:   &product.ID,
	})
	if !errors.Is(err, service.ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
}

func TestShipmentService_UpdateReservationTransitions(t *testing.T) {
	e := setupEnv(t)
	warehouse := newWarehouse(t, e.repos)
	productA := newProduct(t, e.repos, "Bricks", 5)
	productB := newProduct(t, e.repos, "Sand", 5)

	sh, err := e.shipments.CreateShipment(e.managerCtx, service.ShipmentInput{
		WarehouseID: warehouse.ID,
	})
	if err != nil {
		t.Fatalf("CreateShipment: %v", err)
	}

	// водитель без товара: резерва нет
	_, err = e.shipments.UpdateShipment(e.managerCtx, sh.ID, service.ShipmentPatch{
		Driver: service.OptUUID{Set: true, Value: &e.driver.ID},
	})
	if err != nil {
		t.Fatalf("Update driver: %v", err)
	}
	if got := stockOf(t, e.repos, productA.ID); got != 5 {
		t.Fatalf("expected stock=5, got %d", got)
	}

	// добавился товар: пара полная, резерв берётся
	_, err = e.shipments.UpdateShipment(e.managerCtx, sh.ID, service.ShipmentPatch{
		Product: service.OptUUID{Set: true, Value: &productA.ID},
	})
	if err != nil {
		t.Fatalf("Update product: %v", err)
	}
	if got := stockOf(t, e.repos, productA.ID); got != 4 {
		t.Fatalf("expected stock=4 after reserve, got %d", got)
	}

	// смена товара: старый возвращается, новый резервируется
	_, err = e.shipments.UpdateShipment(e.managerCtx, sh.ID, service.ShipmentPatch{
		Product: service.OptUUID{Set: true, Value: &productB.ID},
	})
	if err != nil {
		t.Fatalf("Swap product: %v", err)
	}
	if got := stockOf(t, e.repos, productA.ID); got != 5 {
		t.Fatalf("expected productA stock=5 after swap, got %d", got)
	}
	if got := stockOf(t, e.repos, productB.ID); got != 4 {
		t.Fatalf("expected productB stock=4 after swap, got %d", got)
	}

	// снятие водителя: пара разорвана, резерв возвращается
	_, err = e.shipments.UpdateShipment(e.managerCtx, sh.ID, service.ShipmentPatch{
		Driver: service.OptUUID{Set: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("Unassign driver: %v", err)
	}
	if got := stockOf(t, e.repos, productB.ID); got != 5 {
		t.Fatalf("expected productB stock=5 after unassign, got %d", got)
	}

	// повторное назначение: резерв берётся заново
	_, err = e.shipments.UpdateShipment(e.managerCtx, sh.ID, service.ShipmentPatch{
		Driver: service.OptUUID{Set: true, Value: &e.driver.ID},
	})
	if err != nil {
		t.Fatalf("Reassign driver: %v", err)
	}
	if got := stockOf(t, e.repos, productB.ID); got != 4 {
		t.Fatalf("expected productB stock=4 after reassign, got %d", got)
	}
}

func TestShipmentService_UpdateBlankDriverNameKeepsDriver(t *testing.T) {
	e := setupEnv(t)
	warehouse := newWarehouse(t, e.repos)
	product := newProduct(t, e.repos, "Cement", 3)

	sh, err := e.shipments.CreateShipment(e.managerCtx, service.ShipmentInput{
		WarehouseID: warehouse.ID,
		DriverID:    &e.driver.ID,
		ProductID:   &product.ID,
	})
	if err != nil {
		t.Fatalf("CreateShipment: %v", err)
	}
	if got := stockOf(t, e.repos, product.ID); got != 2 {
		t.Fatalf("expected stock=2 after reserve, got %d", got)
	}

	// пустое имя — не снятие водителя: назначение и резерв сохраняются
	for _, name := range []string{"", "   "} {
		blank := name
		got, err := e.shipments.UpdateShipment(e.managerCtx, sh.ID, service.ShipmentPatch{
			DriverName: &blank,
		})
		if err != nil {
			t.Fatalf("Update with blank driver_name %q: %v", blank, err)
		}
		if got.DriverID == nil || *got.DriverID != e.driver.ID {
			t.Fatalf("driver unassigned by blank driver_name %q", blank)
		}
	}
	if got := stockOf(t, e.repos, product.ID); got != 2 {
		t.Fatalf("expected stock=2 to survive blank driver_name, got %d", got)
	}
}

func TestShipmentService_DeleteReleasesReservation(t *testing.T) {
	e := setupEnv(t)
	warehouse := newWarehouse(t, e.repos)
	product := newProduct(t, e.repos, "Gravel", 1)

	sh, err := e.shipments.CreateShipment(e.managerCtx, service.ShipmentInput{
		WarehouseID: warehouse.ID,
		DriverID:    &e.driver.ID,
		ProductID:   &product.ID,
	})
	if err != nil {
		t.Fatalf("CreateShipment: %v", err)
	}
	if got := stockOf(t, e.repos, product.ID); got != 0 {
		t.Fatalf("expected stock=0, got %d", got)
	}

	deleted, err := e.shipments.DeleteShipment(e.managerCtx, sh.ID)
	if err != nil {
		t.Fatalf("DeleteShipment: %v", err)
	}
	if !deleted {
		t.Fatal("expected deleted=true")
	}
	if got := stockOf(t, e.repos, product.ID); got != 1 {
		t.Fatalf("expected stock=1 after delete, got %d", got)
	}
}

func TestShipmentService_CustomerAddressValidation(t *testing.T) {
	e := setupEnv(t)
	warehouse := newWarehouse(t, e.repos)

	multi := &models.Customer{
		Name: "Multi", Phone: "+201000000200",
		Address: "1 First St", Address2: "2 Second St",
	}
	if err := e.repos.Customers.Create(context.Background(), multi); err != nil {
		t.Fatalf("Create customer: %v", err)
	}
	single := &models.Customer{Name: "Single", Phone: "+201000000201", Address: "9 Only St"}
	if err := e.repos.Customers.Create(context.Background(), single); err != nil {
		t.Fatalf("Create customer: %v", err)
	}

	// чужой адрес отклоняется, в ошибке список допустимых
	bad := "3 Unknown St"
	_, err := e.shipments.CreateShipment(e.managerCtx, service.ShipmentInput{
		WarehouseID:     warehouse.ID,
		CustomerID:      &multi.ID,
		CustomerAddress: &bad,
	})
	ve, ok := service.AsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ve.AllowedAddresses) != 2 {
		t.Fatalf("expected 2 allowed addresses, got %v", ve.AllowedAddresses)
	}

	// без адреса при нескольких сохранённых тоже отказ
	_, err = e.shipments.CreateShipment(e.managerCtx, service.ShipmentInput{
		WarehouseID: warehouse.ID,
		CustomerID:  &multi.ID,
	})
	if _, ok := service.AsValidation(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}

	// адрес с пробелами нормализуется и принимается
	padded := "  1 First St  "
	sh, err := e.shipments.CreateShipment(e.managerCtx, service.ShipmentInput{
		WarehouseID:     warehouse.ID,
		CustomerID:      &multi.ID,
		CustomerAddress: &padded,
	})
	if err != nil {
		t.Fatalf("CreateShipment trimmed: %v", err)
	}
	if sh.CustomerAddress == nil || *sh.CustomerAddress != "1 First St" {
		t.Fatalf("expected trimmed address, got %+v", sh.CustomerAddress)
	}

	// единственный адрес подставляется сам
	sh, err = e.shipments.CreateShipment(e.managerCtx, service.ShipmentInput{
		WarehouseID: warehouse.ID,
		CustomerID:  &single.ID,
	})
	if err != nil {
		t.Fatalf("CreateShipment single: %v", err)
	}
	if sh.CustomerAddress == nil || *sh.CustomerAddress != "9 Only St" {
		t.Fatalf("expected auto-filled address, got %+v", sh.CustomerAddress)
	}

	// без клиента адрес принудительно NULL
	stray := "1 First St"
	sh, err = e.shipments.CreateShipment(e.managerCtx, service.ShipmentInput{
		WarehouseID:     warehouse.ID,
		CustomerAddress: &stray,
	})
	if err != nil {
		t.Fatalf("CreateShipment no customer: %v", err)
	}
	if sh.CustomerAddress != nil {
		t.Fatalf("expected nil address without customer, got %v", *sh.CustomerAddress)
	}
}

func TestShipmentService_DriverNameResolution(t *testing.T) {
	e := setupEnv(t)
	warehouse := newWarehouse(t, e.repos)

	newDriver(t, e.repos, "Ahmed Driver", "+201000000301", true) // дубль имени
	unique := newDriver(t, e.repos, "Unique Name", "+201000000302", true)

	// уникальное имя резолвится в id
	name := "unique name"
	sh, err := e.shipments.CreateShipment(e.managerCtx, service.ShipmentInput{
		WarehouseID: warehouse.ID,
		DriverName:  &name,
	})
	if err != nil {
		t.Fatalf("CreateShipment by name: %v", err)
	}
	if sh.DriverID == nil || *sh.DriverID != unique.ID {
		t.Fatalf("expected driver %s, got %+v", unique.ID, sh.DriverID)
	}

	// имя без совпадений
	missing := "Nobody"
	_, err = e.shipments.CreateShipment(e.managerCtx, service.ShipmentInput{
		WarehouseID: warehouse.ID,
		DriverName:  &missing,
	})
	ve, ok := service.AsValidation(err)
	if !ok || len(ve.Fields["driver_name"]) == 0 {
		t.Fatalf("expected driver_name validation error, got %v", err)
	}

	// имя с несколькими совпадениями
	dup := "Ahmed Driver"
	_, err = e.shipments.CreateShipment(e.managerCtx, service.ShipmentInput{
		WarehouseID: warehouse.ID,
		DriverName:  &dup,
	})
	if _, ok := service.AsValidation(err); !ok {
		t.Fatalf("expected validation error for ambiguous name, got %v", err)
	}

	// id и имя указывают на разных водителей
	_, err = e.shipments.CreateShipment(e.managerCtx, service.ShipmentInput{
		WarehouseID: warehouse.ID,
		DriverID:    &e.driver.ID,
		DriverName:  &name,
	})
	ve, ok = service.AsValidation(err)
	if !ok || len(ve.Fields["driver"]) == 0 {
		t.Fatalf("expected driver conflict validation error, got %v", err)
	}
}

func TestShipmentService_RoleGuards(t *testing.T) {
	e := setupEnv(t)
	warehouse := newWarehouse(t, e.repos)

	// водителю нельзя создавать отгрузки
	_, err := e.shipments.CreateShipment(e.driverCtx, service.ShipmentInput{WarehouseID: warehouse.ID})
	if !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// без актора только ErrUnauthorized
	_, err = e.shipments.ListShipments(context.Background(), service.ShipmentListFilter{})
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	// менеджеру нечего делать в списке "моих" отгрузок водителя
	_, err = e.shipments.ListDriverShipments(e.managerCtx)
	if !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// водитель видит только свои
	sh, err := e.shipments.CreateShipment(e.managerCtx, service.ShipmentInput{
		WarehouseID: warehouse.ID,
		DriverID:    &e.driver.ID,
	})
	if err != nil {
		t.Fatalf("CreateShipment: %v", err)
	}

	mine, err := e.shipments.ListDriverShipments(e.driverCtx)
	if err != nil {
		t.Fatalf("ListDriverShipments: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != sh.ID {
		t.Fatalf("ListDriverShipments mismatch: %+v", mine)
	}

	other := newDriver(t, e.repos, "Other", "+201000000400", true)
	none, err := e.shipments.ListDriverShipments(driverActorCtx(other))
	if err != nil {
		t.Fatalf("ListDriverShipments other: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected empty list, got %d", len(none))
	}
}
