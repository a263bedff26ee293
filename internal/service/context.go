package service

import (
	"context"

	"github.com/FatimaaAlzahraa/RouteX/internal/models"

	"github.com/google/uuid"
)

type ctxKey string

const ctxActorKey ctxKey = "actor"

// Actor — явно размеченная личность запроса: роль плюс id профиля
// этой роли. Резолвится один раз в middleware и дальше передаётся
// через контекст — никаких повторных lookup'ов по профильным таблицам.
type Actor struct {
	UserID    uuid.UUID
	Role      models.UserRole
	ProfileID uuid.UUID // id записи drivers или warehouse_managers
}

func (a Actor) IsManager() bool { return a.Role == models.RoleWarehouseManager }
func (a Actor) IsDriver() bool  { return a.Role == models.RoleDriver }

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxActorKey, a)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	v, ok := ctx.Value(ctxActorKey).(Actor)
	return v, ok
}

func requireActor(ctx context.Context) (Actor, error) {
	a, ok := ActorFromContext(ctx)
	if !ok {
		return Actor{}, ErrUnauthorized
	}
	return a, nil
}

func requireManager(ctx context.Context) (Actor, error) {
	a, err := requireActor(ctx)
	if err != nil {
		return Actor{}, err
	}
	if !a.IsManager() {
		return Actor{}, ErrForbidden
	}
	return a, nil
}

func requireDriver(ctx context.Context) (Actor, error) {
	a, err := requireActor(ctx)
	if err != nil {
		return Actor{}, err
	}
	if !a.IsDriver() {
		return Actor{}, ErrForbidden
	}
	return a, nil
}
