package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/FatimaaAlzahraa/RouteX/internal/migrate"
	"github.com/FatimaaAlzahraa/RouteX/internal/models"
	"github.com/FatimaaAlzahraa/RouteX/internal/repository"
	"github.com/FatimaaAlzahraa/RouteX/pkg/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.SetupTestPostgres(t)
	if err := migrate.MigrateRouteXDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createDriver(t *testing.T, repos *repository.Repository, name, phone string, active bool) *models.Driver {
	t.Helper()
	ctx := context.Background()
	u := &models.User{Name: name, Phone: phone, Role: models.RoleDriver}
	if err := repos.Users.Create(ctx, u); err != nil {
		t.Fatalf("Create user: %v", err)
	}
	d := &models.Driver{UserID: u.ID, IsActive: active}
	if err := repos.Drivers.Create(ctx, d); err != nil {
		t.Fatalf("Create driver: %v", err)
	}
	return d
}

func createWarehouse(t *testing.T, repos *repository.Repository, name, location string) *models.Warehouse {
	t.Helper()
	w := &models.Warehouse{Name: name, Location: location}
	if err := repos.Warehouses.Create(context.Background(), w); err != nil {
		t.Fatalf("Create warehouse: %v", err)
	}
	return w
}

func TestProductRepo_ReserveRelease(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewProductRepo(db)

	ctx := context.Background()

	product := &models.Product{Name: "Cement Bag", PriceCents: 5000, Unit: "bag", StockQty: 5, IsActive: true}
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Успешное резервирование уменьшает остаток
	ok, err := repo.TryReserve(ctx, product.ID, 1)
	if err != nil {
		t.Fatalf("TryReserve: %v", err)
	}
	if !ok {
		t.Fatal("expected TryReserve ok=true")
	}

	got, err := repo.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.StockQty != 4 {
		t.Fatalf("expected stock=4, got %d", got.StockQty)
	}

	// Резерв больше остатка не проходит и ничего не меняет
	ok, err = repo.TryReserve(ctx, product.ID, 10)
	if err != nil {
		t.Fatalf("TryReserve overflow: %v", err)
	}
	if ok {
		t.Fatal("expected TryReserve ok=false for overflow")
	}

	got, _ = repo.GetByID(ctx, product.ID)
	if got.StockQty != 4 {
		t.Fatalf("stock changed on failed reserve: %d", got.StockQty)
	}

	// Release — безусловный инкремент, верхней границы нет
	if _, err := repo.Release(ctx, product.ID, 10); err != nil {
		t.Fatalf("Release: %v", err)
	}
	got, _ = repo.GetByID(ctx, product.ID)
	if got.StockQty != 14 {
		t.Fatalf("expected stock=14 after release, got %d", got.StockQty)
	}
}

func TestProductRepo_ConcurrentReserve(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewProductRepo(db)

	ctx := context.Background()

	product := &models.Product{Name: "Last Unit", StockQty: 1, IsActive: true}
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Create: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	wins := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.TryReserve(ctx, product.ID, 1)
			if err != nil {
				t.Errorf("TryReserve: %v", err)
				return
			}
			wins <- ok
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for ok := range wins {
		if ok {
			won++
		}
	}
	if won != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", won)
	}

	got, _ := repo.GetByID(ctx, product.ID)
	if got.StockQty != 0 {
		t.Fatalf("expected stock=0, got %d", got.StockQty)
	}
}

func TestShipmentRepo_CRUDAndList(t *testing.T) {
	db := setupDB(t)
	repos := repository.New(db)

	ctx := context.Background()
	warehouse := createWarehouse(t, repos, "Main", "Cairo")
	driver := createDriver(t, repos, "Ahmed", "+201000000001", true)

	sh := &models.Shipment{WarehouseID: warehouse.ID, ShipmentDetails: "10 boxes"}
	if err := repos.Shipments.Create(ctx, sh); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repos.Shipments.GetByID(ctx, sh.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.CurrentStatus != models.StatusNew {
		t.Fatalf("GetByID mismatch: %+v", got)
	}
	if got.Warehouse == nil || got.Warehouse.Name != "Main" {
		t.Fatalf("expected preloaded warehouse, got %+v", got.Warehouse)
	}

	// Назначение водителя
	if err := repos.Shipments.UpdateFields(ctx, sh.ID, map[string]any{
		"driver_id": driver.ID,
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	mine, err := repos.Shipments.ListByDriver(ctx, driver.ID)
	if err != nil {
		t.Fatalf("ListByDriver: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != sh.ID {
		t.Fatalf("ListByDriver mismatch: %+v", mine)
	}

	if err := repos.Shipments.SetCurrentStatus(ctx, sh.ID, models.StatusInTransit); err != nil {
		t.Fatalf("SetCurrentStatus: %v", err)
	}
	got, _ = repos.Shipments.GetByID(ctx, sh.ID)
	if got.CurrentStatus != models.StatusInTransit {
		t.Fatalf("expected IN_TRANSIT, got %s", got.CurrentStatus)
	}

	// Фильтр по updated_since
	past := time.Now().Add(-time.Hour)
	list, err := repos.Shipments.List(ctx, repository.ShipmentListFilter{UpdatedSince: &past})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 shipment, got %d", len(list))
	}

	future := time.Now().Add(time.Hour)
	list, err = repos.Shipments.List(ctx, repository.ShipmentListFilter{UpdatedSince: &future})
	if err != nil {
		t.Fatalf("List future: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected 0 shipments, got %d", len(list))
	}

	deleted, err := repos.Shipments.Delete(ctx, sh.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected deleted=true")
	}
	deleted2, _ := repos.Shipments.Delete(ctx, sh.ID)
	if deleted2 {
		t.Fatal("expected deleted2=false")
	}
}

func TestStatusUpdateRepo_AppendAndOrder(t *testing.T) {
	db := setupDB(t)
	repos := repository.New(db)

	ctx := context.Background()
	warehouse := createWarehouse(t, repos, "North", "Giza")
	sh := &models.Shipment{WarehouseID: warehouse.ID}
	if err := repos.Shipments.Create(ctx, sh); err != nil {
		t.Fatalf("Create shipment: %v", err)
	}

	base := time.Now().Add(-time.Minute)
	statuses := []models.ShipmentStatus{models.StatusAssigned, models.StatusInTransit, models.StatusDelivered}
	for i, st := range statuses {
		su := &models.StatusUpdate{
			ShipmentID: sh.ID,
			Status:     st,
			Timestamp:  base.Add(time.Duration(i) * time.Second),
		}
		if err := repos.StatusUpdates.Create(ctx, su); err != nil {
			t.Fatalf("Create status %d: %v", i, err)
		}
	}

	list, err := repos.StatusUpdates.ListByShipment(ctx, sh.ID)
	if err != nil {
		t.Fatalf("ListByShipment: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(list))
	}
	// От новых к старым
	if list[0].Status != models.StatusDelivered || list[2].Status != models.StatusAssigned {
		t.Fatalf("wrong order: %s .. %s", list[0].Status, list[2].Status)
	}

	latest, err := repos.StatusUpdates.LatestByShipment(ctx, sh.ID)
	if err != nil {
		t.Fatalf("LatestByShipment: %v", err)
	}
	if latest == nil || latest.Status != models.StatusDelivered {
		t.Fatalf("LatestByShipment mismatch: %+v", latest)
	}
}

func TestDriverRepo_FindByUserName(t *testing.T) {
	db := setupDB(t)
	repos := repository.New(db)

	ctx := context.Background()
	createDriver(t, repos, "Omar Hassan", "+201000000010", true)
	createDriver(t, repos, "omar hassan", "+201000000011", true)
	createDriver(t, repos, "Sara", "+201000000012", true)

	// Поиск без учёта регистра
	found, err := repos.Drivers.FindByUserName(ctx, "OMAR HASSAN")
	if err != nil {
		t.Fatalf("FindByUserName: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 drivers, got %d", len(found))
	}

	none, err := repos.Drivers.FindByUserName(ctx, "Nobody")
	if err != nil {
		t.Fatalf("FindByUserName none: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected 0 drivers, got %d", len(none))
	}
}

func TestDriverStatusRepo_Query(t *testing.T) {
	db := setupDB(t)
	repos := repository.New(db)

	ctx := context.Background()
	warehouse := createWarehouse(t, repos, "South", "Alexandria")

	busy := createDriver(t, repos, "Busy Driver", "+201000000020", true)
	idle := createDriver(t, repos, "Idle Driver", "+201000000021", true)
	inactive := createDriver(t, repos, "Inactive Driver", "+201000000022", false)

	// Активная отгрузка занятого водителя, последний статус IN_TRANSIT
	sh := &models.Shipment{WarehouseID: warehouse.ID, DriverID: &busy.ID}
	if err := repos.Shipments.Create(ctx, sh); err != nil {
		t.Fatalf("Create shipment: %v", err)
	}
	su := &models.StatusUpdate{ShipmentID: sh.ID, Status: models.StatusInTransit, Timestamp: time.Now()}
	if err := repos.StatusUpdates.Create(ctx, su); err != nil {
		t.Fatalf("Create status: %v", err)
	}

	rows, err := repos.DriverStatus.Query(ctx, "")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	byID := map[uuid.UUID]repository.DriverStatusRow{}
	for _, r := range rows {
		byID[r.DriverID] = r
	}

	b := byID[busy.ID]
	if b.LastStatus == nil || *b.LastStatus != models.StatusInTransit {
		t.Fatalf("busy last_status mismatch: %+v", b.LastStatus)
	}
	if b.CurrentActiveShipmentID == nil || *b.CurrentActiveShipmentID != sh.ID {
		t.Fatalf("busy current_active_shipment mismatch: %+v", b.CurrentActiveShipmentID)
	}

	i := byID[idle.ID]
	if i.LastStatus != nil || i.CurrentActiveShipmentID != nil {
		t.Fatalf("idle driver should have no status: %+v", i)
	}
	if !i.IsActive {
		t.Fatal("idle driver should be active")
	}

	if byID[inactive.ID].IsActive {
		t.Fatal("inactive driver should not be active")
	}

	// Поиск по имени и телефону
	found, err := repos.DriverStatus.Query(ctx, "busy")
	if err != nil {
		t.Fatalf("Query search: %v", err)
	}
	if len(found) != 1 || found[0].DriverID != busy.ID {
		t.Fatalf("search by name mismatch: %+v", found)
	}

	found, err = repos.DriverStatus.Query(ctx, "+201000000021")
	if err != nil {
		t.Fatalf("Query phone: %v", err)
	}
	if len(found) != 1 || found[0].DriverID != idle.ID {
		t.Fatalf("search by phone mismatch: %+v", found)
	}
}
