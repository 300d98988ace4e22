package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/startailored/records-service/internal/core/domain"
)

type LoginResult struct {
	Token   string          `json:"token"`
	Session *domain.Session `json:"session"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (*domain.Session, error)
}

type CreateStaffInput struct {
	Username   string
	NationalID int64
	Phone      string
	Email      string
	Passport   string
	Role       string
	Salary     *int64
	Password   string
}

type UpdateStaffInput struct {
	Username   *string
	NationalID *int64
	Phone      *string
	Email      *string
	Passport   *string
	Role       *string
	Salary     *int64
	Password   *string
}

type StaffService interface {
	Create(ctx context.Context, s *domain.Session, in CreateStaffInput) (*domain.Staff, error)
	Get(ctx context.Context, s *domain.Session, id int64) (*domain.Staff, error)
	List(ctx context.Context, s *domain.Session, f StaffFilter) ([]domain.Staff, error)
	Update(ctx context.Context, s *domain.Session, id int64, in UpdateStaffInput) (*domain.Staff, error)
	Delete(ctx context.Context, s *domain.Session, id int64) error
}

type CreateClientInput struct {
	Username      string
	Phone         string
	Email         string
	Password      string
	BuyingPrice   *int64
	BalanceAmount *int64
	PickupDate    *time.Time
	GroupName     string
	// CreatedBy defaults to the session's principal when zero.
	CreatedBy int64
}

type UpdateClientInput struct {
	Username      *string
	Phone         *string
	Email         *string
	Password      *string
	BuyingPrice   *int64
	BalanceAmount *int64
	PickupDate    *time.Time
	GroupName     *string
}

type ClientService interface {
	Create(ctx context.Context, s *domain.Session, in CreateClientInput) (*domain.Client, error)
	Get(ctx context.Context, s *domain.Session, id int64) (*domain.Client, error)
	List(ctx context.Context, s *domain.Session, f ClientFilter) ([]domain.Client, error)
	Update(ctx context.Context, s *domain.Session, id int64, in UpdateClientInput) (*domain.Client, error)
	Delete(ctx context.Context, s *domain.Session, id int64) error
}

type CreateLoanInput struct {
	Amount  int64
	Type    string
	Comment *string
	// TakenBy defaults to the session's principal when zero.
	TakenBy int64
}

type LoanService interface {
	Create(ctx context.Context, s *domain.Session, in CreateLoanInput) (*domain.AdvanceLoan, error)
	Get(ctx context.Context, s *domain.Session, id int64) (*domain.AdvanceLoan, error)
	List(ctx context.Context, s *domain.Session, f LoanFilter) ([]domain.AdvanceLoan, error)
	Update(ctx context.Context, s *domain.Session, id int64, in domain.LoanPatch) (*domain.AdvanceLoan, error)
	Delete(ctx context.Context, s *domain.Session, id int64) error
}

type CreateMeasurementInput struct {
	Fabric      string
	Values      map[string]decimal.NullDecimal
	Description *string
	ClientID    int64
	AssignedTo  *int64
}

type MeasurementService interface {
	Create(ctx context.Context, s *domain.Session, variant domain.Variant, in CreateMeasurementInput) (*domain.Measurement, error)
	Get(ctx context.Context, s *domain.Session, variant domain.Variant, id int64) (*domain.Measurement, error)
	List(ctx context.Context, s *domain.Session, f MeasurementFilter) ([]domain.Measurement, error)
	Update(ctx context.Context, s *domain.Session, variant domain.Variant, id int64, in domain.MeasurementPatch) (*domain.Measurement, error)
	Delete(ctx context.Context, s *domain.Session, variant domain.Variant, id int64) error
}

type CreateInventoryInput struct {
	ItemName    string
	Quantity    decimal.Decimal
	Description *string
}

type InventoryService interface {
	Create(ctx context.Context, s *domain.Session, in CreateInventoryInput) (*domain.Inventory, error)
	Get(ctx context.Context, s *domain.Session, id int64) (*domain.Inventory, error)
	List(ctx context.Context, s *domain.Session, f InventoryFilter) ([]domain.Inventory, error)
	Update(ctx context.Context, s *domain.Session, id int64, in domain.InventoryPatch) (*domain.Inventory, error)
	Delete(ctx context.Context, s *domain.Session, id int64) error
}
