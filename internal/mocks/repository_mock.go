// Package mocks provides in-memory implementations of the core ports for
// testing. Services depend on the port interfaces only, so tests inject these
// in place of Postgres, Redis and RabbitMQ.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/ports"
)

// MockRepository implements every repository port in memory. It enforces the
// same unique keys as the SQL schema (staff email and national_id, client
// email, and one principal per email across both) under one mutex, so concurrent duplicate inserts resolve to exactly
// one success.
type MockRepository struct {
	mu sync.Mutex

	staff        map[int64]domain.Staff
	clients      map[int64]domain.Client
	loans        map[int64]domain.AdvanceLoan
	measurements map[int64]domain.Measurement
	inventory    map[int64]domain.Inventory
	nextID       int64

	// Call tracking for verification
	Calls []string

	// Error injection for testing error scenarios
	CreateError      error
	GetError         error
	FindByEmailError error
	ListError        error
	UpdateError      error
	DeleteError      error
}

var (
	_ ports.StaffRepository       = (*MockRepository)(nil)
	_ ports.ClientRepository      = (*MockRepository)(nil)
	_ ports.LoanRepository        = (*MockRepository)(nil)
	_ ports.MeasurementRepository = (*MockRepository)(nil)
	_ ports.InventoryRepository   = (*MockRepository)(nil)
)

func NewMockRepository() *MockRepository {
	return &MockRepository{
		staff:        make(map[int64]domain.Staff),
		clients:      make(map[int64]domain.Client),
		loans:        make(map[int64]domain.AdvanceLoan),
		measurements: make(map[int64]domain.Measurement),
		inventory:    make(map[int64]domain.Inventory),
	}
}

// record notes the call and returns the injected error, if any.
func (m *MockRepository) record(call string, injected error) error {
	m.Calls = append(m.Calls, call)
	return injected
}

// CallCount reports how often call was made.
func (m *MockRepository) CallCount(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == call {
			n++
		}
	}
	return n
}

func (m *MockRepository) id() int64 {
	m.nextID++
	return m.nextID
}

func sortedKeys[T any](rows map[int64]T) []int64 {
	ids := make([]int64, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ---- Staff ----

// SeedStaff stores s as given, bypassing validation. A zero ID is assigned.
func (m *MockRepository) SeedStaff(s domain.Staff) domain.Staff {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == 0 {
		s.ID = m.id()
	} else if s.ID > m.nextID {
		m.nextID = s.ID
	}
	m.staff[s.ID] = s
	return s
}

func (m *MockRepository) staffConflict(s domain.Staff) error {
	for id, other := range m.staff {
		if id == s.ID {
			continue
		}
		if strings.EqualFold(other.Email, s.Email) {
			return fmt.Errorf("%w: staff_email_key", domain.ErrDuplicateKey)
		}
		if other.NationalID == s.NationalID {
			return fmt.Errorf("%w: staff_national_id_key", domain.ErrDuplicateKey)
		}
	}
	for _, c := range m.clients {
		if strings.EqualFold(c.Email, s.Email) {
			return fmt.Errorf("%w: principal_emails_email_key", domain.ErrDuplicateKey)
		}
	}
	return nil
}

func (m *MockRepository) CreateStaff(ctx context.Context, s *domain.Staff) (*domain.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateStaff", m.CreateError); err != nil {
		return nil, err
	}
	created := *s
	created.ID = 0
	if err := m.staffConflict(created); err != nil {
		return nil, err
	}
	created.ID = m.id()
	m.staff[created.ID] = created
	return &created, nil
}

func (m *MockRepository) GetStaff(ctx context.Context, id int64) (*domain.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetStaff", m.GetError); err != nil {
		return nil, err
	}
	s, ok := m.staff[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (m *MockRepository) FindStaffByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("FindStaffByEmail", m.FindByEmailError); err != nil {
		return nil, err
	}
	for _, s := range m.staff {
		if strings.EqualFold(s.Email, email) {
			return &s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockRepository) ListStaff(ctx context.Context, f ports.StaffFilter) ([]domain.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ListStaff", m.ListError); err != nil {
		return nil, err
	}
	out := make([]domain.Staff, 0)
	for _, id := range sortedKeys(m.staff) {
		s := m.staff[id]
		if f.Role != nil && s.Role != *f.Role {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *MockRepository) UpdateStaff(ctx context.Context, id int64, mutate func(*domain.Staff) error) (*domain.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UpdateStaff", m.UpdateError); err != nil {
		return nil, err
	}
	s, ok := m.staff[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := mutate(&s); err != nil {
		return nil, err
	}
	if err := m.staffConflict(s); err != nil {
		return nil, err
	}
	m.staff[id] = s
	return &s, nil
}

func (m *MockRepository) DeleteStaff(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeleteStaff", m.DeleteError); err != nil {
		return err
	}
	if _, ok := m.staff[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.staff, id)
	return nil
}

// ---- Clients ----

func (m *MockRepository) SeedClient(c domain.Client) domain.Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		c.ID = m.id()
	} else if c.ID > m.nextID {
		m.nextID = c.ID
	}
	m.clients[c.ID] = c
	return c
}

func (m *MockRepository) clientConflict(c domain.Client) error {
	for id, other := range m.clients {
		if id != c.ID && strings.EqualFold(other.Email, c.Email) {
			return fmt.Errorf("%w: clients_email_key", domain.ErrDuplicateKey)
		}
	}
	for _, s := range m.staff {
		if strings.EqualFold(s.Email, c.Email) {
			return fmt.Errorf("%w: principal_emails_email_key", domain.ErrDuplicateKey)
		}
	}
	return nil
}

func (m *MockRepository) CreateClient(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateClient", m.CreateError); err != nil {
		return nil, err
	}
	created := *c
	created.ID = 0
	if err := m.clientConflict(created); err != nil {
		return nil, err
	}
	created.ID = m.id()
	m.clients[created.ID] = created
	return &created, nil
}

func (m *MockRepository) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetClient", m.GetError); err != nil {
		return nil, err
	}
	c, ok := m.clients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (m *MockRepository) FindClientByEmail(ctx context.Context, email string) (*domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("FindClientByEmail", m.FindByEmailError); err != nil {
		return nil, err
	}
	for _, c := range m.clients {
		if strings.EqualFold(c.Email, email) {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockRepository) ListClients(ctx context.Context, f ports.ClientFilter) ([]domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ListClients", m.ListError); err != nil {
		return nil, err
	}
	out := make([]domain.Client, 0)
	for _, id := range sortedKeys(m.clients) {
		c := m.clients[id]
		if f.GroupName != nil && c.GroupName != *f.GroupName {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *MockRepository) UpdateClient(ctx context.Context, id int64, mutate func(*domain.Client) error) (*domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UpdateClient", m.UpdateError); err != nil {
		return nil, err
	}
	c, ok := m.clients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := mutate(&c); err != nil {
		return nil, err
	}
	if err := m.clientConflict(c); err != nil {
		return nil, err
	}
	m.clients[id] = c
	return &c, nil
}

func (m *MockRepository) DeleteClient(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeleteClient", m.DeleteError); err != nil {
		return err
	}
	if _, ok := m.clients[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.clients, id)
	return nil
}

// ---- Loans ----

func (m *MockRepository) SeedLoan(l domain.AdvanceLoan) domain.AdvanceLoan {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l.ID == 0 {
		l.ID = m.id()
	} else if l.ID > m.nextID {
		m.nextID = l.ID
	}
	m.loans[l.ID] = l
	return l
}

func (m *MockRepository) CreateLoan(ctx context.Context, l *domain.AdvanceLoan) (*domain.AdvanceLoan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateLoan", m.CreateError); err != nil {
		return nil, err
	}
	created := *l
	created.ID = m.id()
	m.loans[created.ID] = created
	return &created, nil
}

func (m *MockRepository) GetLoan(ctx context.Context, id int64) (*domain.AdvanceLoan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetLoan", m.GetError); err != nil {
		return nil, err
	}
	l, ok := m.loans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &l, nil
}

func (m *MockRepository) ListLoans(ctx context.Context, f ports.LoanFilter) ([]domain.AdvanceLoan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ListLoans", m.ListError); err != nil {
		return nil, err
	}
	out := make([]domain.AdvanceLoan, 0)
	for _, id := range sortedKeys(m.loans) {
		l := m.loans[id]
		if f.TakenBy != nil && l.TakenBy != *f.TakenBy {
			continue
		}
		if f.Status != nil && l.Status != *f.Status {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *MockRepository) UpdateLoan(ctx context.Context, id int64, mutate func(*domain.AdvanceLoan) error) (*domain.AdvanceLoan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UpdateLoan", m.UpdateError); err != nil {
		return nil, err
	}
	l, ok := m.loans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := mutate(&l); err != nil {
		return nil, err
	}
	m.loans[id] = l
	return &l, nil
}

func (m *MockRepository) DeleteLoan(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeleteLoan", m.DeleteError); err != nil {
		return err
	}
	if _, ok := m.loans[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.loans, id)
	return nil
}

// ---- Measurements ----

func copyMeasurement(src domain.Measurement) domain.Measurement {
	dst := src
	dst.Values = make(map[domain.MeasureField]decimal.Decimal, len(src.Values))
	for k, v := range src.Values {
		dst.Values[k] = v
	}
	return dst
}

func (m *MockRepository) CreateMeasurement(ctx context.Context, ms *domain.Measurement) (*domain.Measurement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateMeasurement", m.CreateError); err != nil {
		return nil, err
	}
	if _, ok := m.clients[ms.ClientID]; !ok {
		return nil, fmt.Errorf("%w: client %d does not exist", domain.ErrInvalidInput, ms.ClientID)
	}
	created := copyMeasurement(*ms)
	created.ID = m.id()
	m.measurements[created.ID] = copyMeasurement(created)
	return &created, nil
}

func (m *MockRepository) GetMeasurement(ctx context.Context, variant domain.Variant, id int64) (*domain.Measurement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetMeasurement", m.GetError); err != nil {
		return nil, err
	}
	ms, ok := m.measurements[id]
	if !ok || ms.Variant != variant {
		return nil, domain.ErrNotFound
	}
	out := copyMeasurement(ms)
	return &out, nil
}

func (m *MockRepository) ListMeasurements(ctx context.Context, f ports.MeasurementFilter) ([]domain.Measurement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ListMeasurements", m.ListError); err != nil {
		return nil, err
	}
	out := make([]domain.Measurement, 0)
	for _, id := range sortedKeys(m.measurements) {
		ms := m.measurements[id]
		switch {
		case ms.Variant != f.Variant:
			continue
		case f.ClientID != nil && ms.ClientID != *f.ClientID:
			continue
		case f.Status != nil && ms.Status != *f.Status:
			continue
		case f.AssignedTo != nil && (ms.AssignedTo == nil || *ms.AssignedTo != *f.AssignedTo):
			continue
		}
		out = append(out, copyMeasurement(ms))
	}
	return out, nil
}

func (m *MockRepository) UpdateMeasurement(ctx context.Context, variant domain.Variant, id int64, mutate func(*domain.Measurement) error) (*domain.Measurement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UpdateMeasurement", m.UpdateError); err != nil {
		return nil, err
	}
	ms, ok := m.measurements[id]
	if !ok || ms.Variant != variant {
		return nil, domain.ErrNotFound
	}
	next := copyMeasurement(ms)
	if err := mutate(&next); err != nil {
		return nil, err
	}
	m.measurements[id] = copyMeasurement(next)
	return &next, nil
}

func (m *MockRepository) DeleteMeasurement(ctx context.Context, variant domain.Variant, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeleteMeasurement", m.DeleteError); err != nil {
		return err
	}
	ms, ok := m.measurements[id]
	if !ok || ms.Variant != variant {
		return domain.ErrNotFound
	}
	delete(m.measurements, id)
	return nil
}

// ---- Inventory ----

func (m *MockRepository) CreateInventory(ctx context.Context, i *domain.Inventory) (*domain.Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateInventory", m.CreateError); err != nil {
		return nil, err
	}
	created := *i
	created.ID = m.id()
	m.inventory[created.ID] = created
	return &created, nil
}

func (m *MockRepository) GetInventory(ctx context.Context, id int64) (*domain.Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetInventory", m.GetError); err != nil {
		return nil, err
	}
	i, ok := m.inventory[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &i, nil
}

func (m *MockRepository) ListInventory(ctx context.Context, f ports.InventoryFilter) ([]domain.Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ListInventory", m.ListError); err != nil {
		return nil, err
	}
	needle := strings.ToLower(f.NameContains)
	out := make([]domain.Inventory, 0)
	for _, id := range sortedKeys(m.inventory) {
		i := m.inventory[id]
		if needle != "" && !strings.Contains(strings.ToLower(i.ItemName), needle) {
			continue
		}
		out = append(out, i)
	}
	return out, nil
}

func (m *MockRepository) UpdateInventory(ctx context.Context, id int64, mutate func(*domain.Inventory) error) (*domain.Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UpdateInventory", m.UpdateError); err != nil {
		return nil, err
	}
	i, ok := m.inventory[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := mutate(&i); err != nil {
		return nil, err
	}
	m.inventory[id] = i
	return &i, nil
}

func (m *MockRepository) DeleteInventory(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeleteInventory", m.DeleteError); err != nil {
		return err
	}
	if _, ok := m.inventory[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.inventory, id)
	return nil
}
