package services

import (
	"context"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/policy"
	"github.com/startailored/records-service/internal/core/ports"
)

type InventoryService struct {
	base
	repo ports.InventoryRepository
}

var _ ports.InventoryService = (*InventoryService)(nil)

func NewInventoryService(d Deps, repo ports.InventoryRepository) *InventoryService {
	return &InventoryService{
		base: newBase(d, "inventory"),
		repo: repo,
	}
}

func (s *InventoryService) Create(ctx context.Context, sess *domain.Session, in ports.CreateInventoryInput) (*domain.Inventory, error) {
	if err := s.authorize(sess, domain.EntityInventory, policy.OpCreate); err != nil {
		return nil, err
	}
	item, err := domain.NewInventory(domain.NewInventoryParams{
		ItemName:    in.ItemName,
		Quantity:    in.Quantity,
		Description: in.Description,
		CreatedBy:   sess.PrincipalID,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	created, err := s.repo.CreateInventory(ctx, item)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, sess, domain.EntityInventory, actionCreated, created.ID)
	return created, nil
}

func (s *InventoryService) Get(ctx context.Context, sess *domain.Session, id int64) (*domain.Inventory, error) {
	if err := s.authorize(sess, domain.EntityInventory, policy.OpRead); err != nil {
		return nil, err
	}
	return s.repo.GetInventory(ctx, id)
}

func (s *InventoryService) List(ctx context.Context, sess *domain.Session, f ports.InventoryFilter) ([]domain.Inventory, error) {
	if err := s.authorize(sess, domain.EntityInventory, policy.OpRead); err != nil {
		return nil, err
	}
	return s.repo.ListInventory(ctx, f)
}

func (s *InventoryService) Update(ctx context.Context, sess *domain.Session, id int64, in domain.InventoryPatch) (*domain.Inventory, error) {
	if err := s.authorize(sess, domain.EntityInventory, policy.OpUpdate); err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateInventory(ctx, id, func(i *domain.Inventory) error {
		return i.Apply(in)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, sess, domain.EntityInventory, actionUpdated, id)
	return updated, nil
}

func (s *InventoryService) Delete(ctx context.Context, sess *domain.Session, id int64) error {
	if err := s.authorize(sess, domain.EntityInventory, policy.OpDelete); err != nil {
		return err
	}
	if err := s.repo.DeleteInventory(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, sess, domain.EntityInventory, actionDeleted, id)
	return nil
}
