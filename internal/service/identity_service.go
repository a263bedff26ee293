package service

import (
	"context"

	"github.com/FatimaaAlzahraa/RouteX/internal/models"
	"github.com/FatimaaAlzahraa/RouteX/internal/repository"

	"github.com/google/uuid"
)

type IdentityService interface {
	// ResolveActor сопоставляет аутентифицированного пользователя ровно
	// одной роли и её профилю. Роль из токена без профильной записи —
	// отказ (ErrForbidden), не "пустой" актор.
	ResolveActor(ctx context.Context, userID uuid.UUID, role models.UserRole) (Actor, error)

	CreateDriverProfile(ctx context.Context, userID uuid.UUID, isActive bool) (*models.Driver, error)
	CreateManagerProfile(ctx context.Context, userID uuid.UUID) (*models.WarehouseManager, error)
}

type identityService struct {
	repo *repository.Repository
}

func NewIdentityService(repo *repository.Repository) IdentityService {
	return &identityService{repo: repo}
}

func (s *identityService) ResolveActor(ctx context.Context, userID uuid.UUID, role models.UserRole) (Actor, error) {
	switch role {
	case models.RoleWarehouseManager:
		m, err := s.repo.Managers.GetByUserID(ctx, userID)
		if err != nil {
			return Actor{}, err
		}
		if m == nil {
			return Actor{}, ErrForbidden
		}
		return Actor{UserID: userID, Role: role, ProfileID: m.ID}, nil
	case models.RoleDriver:
		d, err := s.repo.Drivers.GetByUserID(ctx, userID)
		if err != nil {
			return Actor{}, err
		}
		if d == nil {
			return Actor{}, ErrForbidden
		}
		return Actor{UserID: userID, Role: role, ProfileID: d.ID}, nil
	}
	return Actor{}, ErrForbidden
}

func (s *identityService) CreateDriverProfile(ctx context.Context, userID uuid.UUID, isActive bool) (*models.Driver, error) {
	u, err := s.repo.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if u.Role != models.RoleDriver {
		return nil, ErrRoleMismatch
	}

	// один пользователь не может совмещать оба профиля
	if m, err := s.repo.Managers.GetByUserID(ctx, userID); err != nil {
		return nil, err
	} else if m != nil {
		return nil, ErrProfileConflict
	}

	d := &models.Driver{UserID: userID, IsActive: isActive}
	if err := s.repo.Drivers.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *identityService) CreateManagerProfile(ctx context.Context, userID uuid.UUID) (*models.WarehouseManager, error) {
	u, err := s.repo.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if u.Role != models.RoleWarehouseManager {
		return nil, ErrRoleMismatch
	}

	if d, err := s.repo.Drivers.GetByUserID(ctx, userID); err != nil {
		return nil, err
	} else if d != nil {
		return nil, ErrProfileConflict
	}

	m := &models.WarehouseManager{UserID: userID}
	if err := s.repo.Managers.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
