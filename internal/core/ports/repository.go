package ports

import (
	"context"

	"github.com/startailored/records-service/internal/core/domain"
)

// Repositories report domain.ErrNotFound for missing ids and
// domain.ErrDuplicateKey for unique-constraint violations. Update methods run
// mutate inside the store's transaction against the locked current row.

type StaffFilter struct {
	Role *domain.Role
}

type StaffRepository interface {
	CreateStaff(ctx context.Context, s *domain.Staff) (*domain.Staff, error)
	GetStaff(ctx context.Context, id int64) (*domain.Staff, error)
	FindStaffByEmail(ctx context.Context, email string) (*domain.Staff, error)
	ListStaff(ctx context.Context, f StaffFilter) ([]domain.Staff, error)
	UpdateStaff(ctx context.Context, id int64, mutate func(*domain.Staff) error) (*domain.Staff, error)
	DeleteStaff(ctx context.Context, id int64) error
}

type ClientFilter struct {
	GroupName *string
}

type ClientRepository interface {
	CreateClient(ctx context.Context, c *domain.Client) (*domain.Client, error)
	GetClient(ctx context.Context, id int64) (*domain.Client, error)
	FindClientByEmail(ctx context.Context, email string) (*domain.Client, error)
	ListClients(ctx context.Context, f ClientFilter) ([]domain.Client, error)
	UpdateClient(ctx context.Context, id int64, mutate func(*domain.Client) error) (*domain.Client, error)
	DeleteClient(ctx context.Context, id int64) error
}

type LoanFilter struct {
	TakenBy *int64
	Status  *domain.LoanStatus
}

type LoanRepository interface {
	CreateLoan(ctx context.Context, l *domain.AdvanceLoan) (*domain.AdvanceLoan, error)
	GetLoan(ctx context.Context, id int64) (*domain.AdvanceLoan, error)
	ListLoans(ctx context.Context, f LoanFilter) ([]domain.AdvanceLoan, error)
	UpdateLoan(ctx context.Context, id int64, mutate func(*domain.AdvanceLoan) error) (*domain.AdvanceLoan, error)
	DeleteLoan(ctx context.Context, id int64) error
}

type MeasurementFilter struct {
	Variant    domain.Variant
	ClientID   *int64
	Status     *domain.MeasurementStatus
	AssignedTo *int64
}

// MeasurementRepository scopes every lookup by variant: an id that belongs to
// another variant is reported as not found.
type MeasurementRepository interface {
	CreateMeasurement(ctx context.Context, m *domain.Measurement) (*domain.Measurement, error)
	GetMeasurement(ctx context.Context, variant domain.Variant, id int64) (*domain.Measurement, error)
	ListMeasurements(ctx context.Context, f MeasurementFilter) ([]domain.Measurement, error)
	UpdateMeasurement(ctx context.Context, variant domain.Variant, id int64, mutate func(*domain.Measurement) error) (*domain.Measurement, error)
	DeleteMeasurement(ctx context.Context, variant domain.Variant, id int64) error
}

type InventoryFilter struct {
	NameContains string
}

type InventoryRepository interface {
	CreateInventory(ctx context.Context, i *domain.Inventory) (*domain.Inventory, error)
	GetInventory(ctx context.Context, id int64) (*domain.Inventory, error)
	ListInventory(ctx context.Context, f InventoryFilter) ([]domain.Inventory, error)
	UpdateInventory(ctx context.Context, id int64, mutate func(*domain.Inventory) error) (*domain.Inventory, error)
	DeleteInventory(ctx context.Context, id int64) error
}
