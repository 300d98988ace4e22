package policy

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startailored/records-service/internal/core/domain"
)

type recordedDecision struct {
	entity  domain.EntityKind
	op      Operation
	allowed bool
}

type fakeRecorder struct {
	decisions []recordedDecision
}

func (f *fakeRecorder) RecordDecision(entity domain.EntityKind, op Operation, allowed bool) {
	f.decisions = append(f.decisions, recordedDecision{entity, op, allowed})
}

func staff(role domain.Role) *domain.Session {
	return &domain.Session{PrincipalID: 1, Kind: domain.PrincipalStaff, Role: role}
}

func client() *domain.Session {
	return &domain.Session{PrincipalID: 2, Kind: domain.PrincipalClient}
}

func TestAuthorize_Matrix(t *testing.T) {
	p := New(zerolog.Nop(), nil)

	tests := []struct {
		name    string
		session *domain.Session
		entity  domain.EntityKind
		op      Operation
		allowed bool
	}{
		{"admin_creates_staff", staff(domain.RoleAdmin), domain.EntityStaff, OpCreate, true},
		{"manager_creates_staff", staff(domain.RoleManager), domain.EntityStaff, OpCreate, true},
		{"tailor_creates_staff", staff(domain.RoleTailor), domain.EntityStaff, OpCreate, false},
		{"staff_creates_client", staff(domain.RoleStaff), domain.EntityClient, OpCreate, false},
		{"manager_deletes_staff", staff(domain.RoleManager), domain.EntityStaff, OpDelete, false},
		{"ceo_deletes_staff", staff(domain.RoleCEO), domain.EntityStaff, OpDelete, true},
		{"admin_deletes_inventory", staff(domain.RoleAdmin), domain.EntityInventory, OpDelete, true},
		{"manager_deletes_loan", staff(domain.RoleManager), domain.EntityLoan, OpDelete, false},
		{"tailor_creates_measurement", staff(domain.RoleTailor), domain.EntityMeasurement, OpCreate, true},
		{"tailor_updates_measurement", staff(domain.RoleTailor), domain.EntityMeasurement, OpUpdate, true},
		{"staff_creates_inventory", staff(domain.RoleStaff), domain.EntityInventory, OpCreate, true},
		{"staff_updates_inventory", staff(domain.RoleStaff), domain.EntityInventory, OpUpdate, false},
		{"manager_updates_inventory", staff(domain.RoleManager), domain.EntityInventory, OpUpdate, true},
		{"tailor_takes_loan", staff(domain.RoleTailor), domain.EntityLoan, OpCreate, true},
		{"tailor_reads_loans", staff(domain.RoleTailor), domain.EntityLoan, OpRead, true},
		{"client_reads_loans", client(), domain.EntityLoan, OpRead, false},
		{"client_reads_measurement", client(), domain.EntityMeasurement, OpRead, true},
		{"client_creates_measurement", client(), domain.EntityMeasurement, OpCreate, false},
		{"client_with_forged_role", &domain.Session{Kind: domain.PrincipalClient, Role: domain.RoleAdmin}, domain.EntityStaff, OpDelete, false},
		{"unknown_role", staff("OWNER"), domain.EntityLoan, OpCreate, false},
		{"no_session", nil, domain.EntityStaff, OpRead, false},
		{"unknown_entity", staff(domain.RoleAdmin), domain.EntityKind("invoice"), OpRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Authorize(tt.session, tt.entity, tt.op)
			if tt.allowed {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrUnauthorized)
			assert.Equal(t, domain.CodeUnauthorized, domain.CodeOf(err))
		})
	}
}

func TestAuthorize_EveryPairHasARule(t *testing.T) {
	entities := []domain.EntityKind{
		domain.EntityStaff, domain.EntityClient, domain.EntityLoan,
		domain.EntityMeasurement, domain.EntityInventory,
	}
	for _, e := range entities {
		for _, op := range []Operation{OpCreate, OpRead, OpUpdate, OpDelete} {
			req, ok := RequirementFor(e, op)
			assert.True(t, ok, "%s %s has no rule", e, op)
			if op == OpDelete {
				assert.Equal(t, RequireExecutive, req, "%s delete", e)
			}
		}
	}
}

func TestAuthorize_RecordsDecisions(t *testing.T) {
	rec := &fakeRecorder{}
	p := New(zerolog.Nop(), rec)

	_ = p.Authorize(staff(domain.RoleAdmin), domain.EntityStaff, OpDelete)
	_ = p.Authorize(staff(domain.RoleManager), domain.EntityStaff, OpDelete)

	require.Len(t, rec.decisions, 2)
	assert.True(t, rec.decisions[0].allowed)
	assert.False(t, rec.decisions[1].allowed)
	assert.Equal(t, OpDelete, rec.decisions[1].op)
}
