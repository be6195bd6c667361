package service

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"

	supplierserrors "travelwindow/internal/suppliers/errors"
	"travelwindow/internal/suppliers/repository"
	"travelwindow/pkg/config"
	apperrors "travelwindow/pkg/errors"
	"travelwindow/pkg/model"
	"travelwindow/pkg/sanitizer"
)

// SupplierService manages the supplier catalogue. Mutations are admin
// only; lookups are open to every authenticated actor since bookings
// render supplier names everywhere.
type SupplierService interface {
	Create(ctx context.Context, actor model.Actor, supplier *model.Supplier) error
	GetByID(ctx context.Context, id string) (*model.Supplier, error)
	GetAll(ctx context.Context, actor model.Actor, activeOnly bool, limit int, offset int64) ([]*model.Supplier, int64, error)
	Update(ctx context.Context, actor model.Actor, id string, updates *model.SupplierUpdate) (*model.Supplier, error)
	Deactivate(ctx context.Context, actor model.Actor, id string) error

	// Lookup satisfies the booking service's supplier directory.
	Lookup(ctx context.Context, id string) (*model.Supplier, error)
}

type supplierService struct {
	repo     repository.SupplierRepository
	validate *validator.Validate
	cfg      *config.Config
}

func NewSupplierService(repo repository.SupplierRepository, cfg *config.Config) SupplierService {
	return &supplierService{
		repo:     repo,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func requireAdmin(actor model.Actor) error {
	if actor.Role != model.RoleAdmin {
		return apperrors.Forbidden("only admins may manage suppliers")
	}
	return nil
}

func (s *supplierService) Create(ctx context.Context, actor model.Actor, supplier *model.Supplier) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	supplier.Name = sanitizer.TrimAndNormalize(supplier.Name)
	supplier.IsActive = true

	if err := s.validate.Struct(supplier); err != nil {
		return apperrors.Validation("Supplier validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, supplier); err != nil {
		if errors.Is(err, supplierserrors.ErrDuplicateName) {
			return apperrors.Conflict("A supplier with this name already exists")
		}
		s.cfg.Log.Error("Failed to create supplier", "error", err)
		return apperrors.Internal("Failed to create supplier", err)
	}

	s.cfg.Log.Info("Supplier created",
		"id", supplier.ID,
		"name", supplier.Name,
		"outsourced", supplier.IsOutsourcedChannel,
	)
	return nil
}

func (s *supplierService) GetByID(ctx context.Context, id string) (*model.Supplier, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Supplier ID cannot be empty")
	}

	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, supplierserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Supplier", id)
		}
		if errors.Is(err, supplierserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid supplier ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve supplier", err)
	}

	return supplier, nil
}

func (s *supplierService) Lookup(ctx context.Context, id string) (*model.Supplier, error) {
	return s.GetByID(ctx, id)
}

func (s *supplierService) GetAll(ctx context.Context, actor model.Actor, activeOnly bool, limit int, offset int64) ([]*model.Supplier, int64, error) {
	var count int64
	var suppliers []*model.Supplier
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, activeOnly)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count suppliers", "error", errCount)
			errCount = apperrors.Internal("Failed to count suppliers", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		suppliers, errFind = s.repo.FindAll(ctx, activeOnly, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list suppliers", "error", errFind)
			errFind = apperrors.Internal("Failed to list suppliers", errFind)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return suppliers, count, nil
}

func (s *supplierService) Update(ctx context.Context, actor model.Actor, id string, updates *model.SupplierUpdate) (*model.Supplier, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	if err := s.validate.Struct(updates); err != nil {
		return nil, apperrors.Validation("Supplier validation failed", map[string]any{"error": err.Error()})
	}

	supplier, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if updates.Name != nil {
		supplier.Name = sanitizer.TrimAndNormalize(*updates.Name)
	}
	if updates.IsActive != nil {
		supplier.IsActive = *updates.IsActive
	}
	if updates.IsOutsourcedChannel != nil {
		supplier.IsOutsourcedChannel = *updates.IsOutsourcedChannel
	}

	if err := s.repo.Update(ctx, id, supplier); err != nil {
		if errors.Is(err, supplierserrors.ErrDuplicateName) {
			return nil, apperrors.Conflict("A supplier with this name already exists")
		}
		if errors.Is(err, supplierserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Supplier", id)
		}
		s.cfg.Log.Error("Failed to update supplier", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update supplier", err)
	}

	return supplier, nil
}

func (s *supplierService) Deactivate(ctx context.Context, actor model.Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, supplierserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Supplier", id)
		}
		if errors.Is(err, supplierserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid supplier ID format")
		}
		s.cfg.Log.Error("Failed to deactivate supplier", "id", id, "error", err)
		return apperrors.Internal("Failed to deactivate supplier", err)
	}

	return nil
}
