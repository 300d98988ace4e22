package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/policy"
	"github.com/startailored/records-service/internal/core/ports"
)

type ClientService struct {
	base
	repo   ports.ClientRepository
	staff  ports.StaffRepository
	hasher ports.PasswordHasher
	emails ports.EmailValidator
}

var _ ports.ClientService = (*ClientService)(nil)

func NewClientService(
	d Deps,
	repo ports.ClientRepository,
	staff ports.StaffRepository,
	hasher ports.PasswordHasher,
	emails ports.EmailValidator,
) *ClientService {
	return &ClientService{
		base:   newBase(d, "client"),
		repo:   repo,
		staff:  staff,
		hasher: hasher,
		emails: emails,
	}
}

// Create requires a management session and a management-role creator record.
func (s *ClientService) Create(ctx context.Context, sess *domain.Session, in ports.CreateClientInput) (*domain.Client, error) {
	if err := s.authorize(sess, domain.EntityClient, policy.OpCreate); err != nil {
		return nil, err
	}

	createdBy := in.CreatedBy
	if createdBy == 0 {
		createdBy = sess.PrincipalID
	}
	creator, err := s.staff.GetStaff(ctx, createdBy)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: created_by %d is not a staff member", domain.ErrInvalidInput, createdBy)
	}
	if err != nil {
		return nil, err
	}
	if !creator.Role.IsManagement() {
		s.log.Warn().
			Int64("created_by", createdBy).
			Str("role", string(creator.Role)).
			Msg("client creator lacks management role")
		return nil, fmt.Errorf("%w: creator role %s may not create clients", domain.ErrUnauthorized, creator.Role)
	}

	if err := requirePassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	client, err := domain.NewClient(domain.NewClientParams{
		Username:      in.Username,
		Phone:         in.Phone,
		Email:         in.Email,
		PasswordHash:  hash,
		BuyingPrice:   in.BuyingPrice,
		BalanceAmount: in.BalanceAmount,
		PickupDate:    in.PickupDate,
		GroupName:     in.GroupName,
		CreatedBy:     createdBy,
		CreatedAt:     s.now().UTC(),
	}, s.emails)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateClient(ctx, client)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, sess, domain.EntityClient, actionCreated, created.ID)
	return created, nil
}

func (s *ClientService) Get(ctx context.Context, sess *domain.Session, id int64) (*domain.Client, error) {
	if err := s.authorize(sess, domain.EntityClient, policy.OpRead); err != nil {
		return nil, err
	}
	return s.repo.GetClient(ctx, id)
}

func (s *ClientService) List(ctx context.Context, sess *domain.Session, f ports.ClientFilter) ([]domain.Client, error) {
	if err := s.authorize(sess, domain.EntityClient, policy.OpRead); err != nil {
		return nil, err
	}
	return s.repo.ListClients(ctx, f)
}

func (s *ClientService) Update(ctx context.Context, sess *domain.Session, id int64, in ports.UpdateClientInput) (*domain.Client, error) {
	if err := s.authorize(sess, domain.EntityClient, policy.OpUpdate); err != nil {
		return nil, err
	}

	patch := domain.ClientPatch{
		Username:      in.Username,
		Phone:         in.Phone,
		Email:         in.Email,
		BuyingPrice:   in.BuyingPrice,
		BalanceAmount: in.BalanceAmount,
		PickupDate:    in.PickupDate,
		GroupName:     in.GroupName,
	}
	if in.Password != nil {
		if err := requirePassword(*in.Password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}

	updated, err := s.repo.UpdateClient(ctx, id, func(c *domain.Client) error {
		return c.Apply(patch, s.emails)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, sess, domain.EntityClient, actionUpdated, id)
	return updated, nil
}

func (s *ClientService) Delete(ctx context.Context, sess *domain.Session, id int64) error {
	if err := s.authorize(sess, domain.EntityClient, policy.OpDelete); err != nil {
		return err
	}
	if err := s.repo.DeleteClient(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, sess, domain.EntityClient, actionDeleted, id)
	return nil
}
