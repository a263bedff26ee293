package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/FatimaaAlzahraa/RouteX/internal/models"
	"github.com/FatimaaAlzahraa/RouteX/internal/service"

	"github.com/google/uuid"
)

func TestIdentityService_ResolveActor(t *testing.T) {
	e := setupEnv(t)
	identity := service.NewIdentityService(e.repos)
	ctx := context.Background()

	a, err := identity.ResolveActor(ctx, e.driver.UserID, models.RoleDriver)
	if err != nil {
		t.Fatalf("ResolveActor: %v", err)
	}
	if a.ProfileID != e.driver.ID || !a.IsDriver() {
		t.Fatalf("actor mismatch: %+v", a)
	}

	// роль из токена без профильной записи — отказ
	_, err = identity.ResolveActor(ctx, e.driver.UserID, models.RoleWarehouseManager)
	if !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	_, err = identity.ResolveActor(ctx, uuid.New(), models.RoleDriver)
	if !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for unknown user, got %v", err)
	}

	_, err = identity.ResolveActor(ctx, e.driver.UserID, models.UserRole("ADMIN"))
	if !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for unknown role, got %v", err)
	}
}

func TestIdentityService_ProfileGuards(t *testing.T) {
	e := setupEnv(t)
	identity := service.NewIdentityService(e.repos)
	ctx := context.Background()

	// профиль водителя для пользователя с ролью менеджера
	managerUser := &models.User{Name: "Third", Phone: "+201000000700", Role: models.RoleWarehouseManager}
	if err := e.repos.Users.Create(ctx, managerUser); err != nil {
		t.Fatalf("Create user: %v", err)
	}
	_, err := identity.CreateDriverProfile(ctx, managerUser.ID, true)
	if !errors.Is(err, service.ErrRoleMismatch) {
		t.Fatalf("expected ErrRoleMismatch, got %v", err)
	}

	m, err := identity.CreateManagerProfile(ctx, managerUser.ID)
	if err != nil {
		t.Fatalf("CreateManagerProfile: %v", err)
	}
	if m.UserID != managerUser.ID {
		t.Fatalf("manager profile mismatch: %+v", m)
	}

	// второй профиль той же роли упрётся в уникальный индекс,
	// а профиль противоположной роли — в явную проверку
	_, err = identity.CreateManagerProfile(ctx, e.driver.UserID)
	if !errors.Is(err, service.ErrRoleMismatch) {
		t.Fatalf("expected ErrRoleMismatch for driver user, got %v", err)
	}

	driverUser := &models.User{Name: "Dual", Phone: "+201000000701", Role: models.RoleDriver}
	if err := e.repos.Users.Create(ctx, driverUser); err != nil {
		t.Fatalf("Create user: %v", err)
	}
	if _, err := identity.CreateDriverProfile(ctx, driverUser.ID, true); err != nil {
		t.Fatalf("CreateDriverProfile: %v", err)
	}

	_, err = identity.CreateDriverProfile(ctx, uuid.New(), true)
	if !errors.Is(err, service.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
