// Package policy is the single place where role-based access decisions are
// made. Services call Authorize before touching any port.
package policy

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/startailored/records-service/internal/core/domain"
)

type Operation string

const (
	OpCreate Operation = "create"
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Requirement is what a session must satisfy for an (entity, operation) pair.
type Requirement int

const (
	// RequireSession admits any authenticated principal, clients included.
	RequireSession Requirement = iota + 1
	// RequireStaff admits staff of any role.
	RequireStaff
	// RequireManagement admits ADMIN, CEO and MANAGER.
	RequireManagement
	// RequireExecutive admits ADMIN and CEO.
	RequireExecutive
)

func (r Requirement) String() string {
	switch r {
	case RequireSession:
		return "session"
	case RequireStaff:
		return "staff"
	case RequireManagement:
		return "management"
	case RequireExecutive:
		return "executive"
	}
	return fmt.Sprintf("requirement(%d)", int(r))
}

var matrix = map[domain.EntityKind]map[Operation]Requirement{
	domain.EntityStaff: {
		OpCreate: RequireManagement,
		OpRead:   RequireSession,
		OpUpdate: RequireManagement,
		OpDelete: RequireExecutive,
	},
	domain.EntityClient: {
		OpCreate: RequireManagement,
		OpRead:   RequireSession,
		OpUpdate: RequireManagement,
		OpDelete: RequireExecutive,
	},
	// Advances are staff payroll data; clients never see them.
	domain.EntityLoan: {
		OpCreate: RequireStaff,
		OpRead:   RequireStaff,
		OpUpdate: RequireStaff,
		OpDelete: RequireExecutive,
	},
	domain.EntityMeasurement: {
		OpCreate: RequireStaff,
		OpRead:   RequireSession,
		OpUpdate: RequireStaff,
		OpDelete: RequireExecutive,
	},
	domain.EntityInventory: {
		OpCreate: RequireStaff,
		OpRead:   RequireSession,
		OpUpdate: RequireManagement,
		OpDelete: RequireExecutive,
	},
}

// RequirementFor returns the rule for the pair, false when none is defined.
func RequirementFor(entity domain.EntityKind, op Operation) (Requirement, bool) {
	ops, ok := matrix[entity]
	if !ok {
		return 0, false
	}
	r, ok := ops[op]
	return r, ok
}

// DecisionRecorder observes every decision; the metrics adapter implements it.
type DecisionRecorder interface {
	RecordDecision(entity domain.EntityKind, op Operation, allowed bool)
}

type Policy struct {
	log      zerolog.Logger
	recorder DecisionRecorder
}

func New(log zerolog.Logger, recorder DecisionRecorder) *Policy {
	return &Policy{log: log, recorder: recorder}
}

// Authorize returns nil when s may perform op on entity, domain.ErrUnauthorized
// (wrapped) otherwise. Pairs missing from the matrix are always denied.
func (p *Policy) Authorize(s *domain.Session, entity domain.EntityKind, op Operation) error {
	allowed, req := decide(s, entity, op)
	if p.recorder != nil {
		p.recorder.RecordDecision(entity, op, allowed)
	}
	if allowed {
		return nil
	}

	ev := p.log.Warn().
		Str("entity", string(entity)).
		Str("operation", string(op)).
		Str("requirement", req.String())
	if s != nil {
		ev = ev.Int64("principal_id", s.PrincipalID).
			Str("kind", string(s.Kind)).
			Str("role", string(s.Role))
	}
	ev.Msg("authorization denied")

	if s == nil {
		return fmt.Errorf("%w: no session", domain.ErrUnauthorized)
	}
	return fmt.Errorf("%w: %s %s requires %s", domain.ErrUnauthorized, op, entity, req)
}

func decide(s *domain.Session, entity domain.EntityKind, op Operation) (bool, Requirement) {
	req, ok := RequirementFor(entity, op)
	if !ok || s == nil {
		return false, req
	}

	role := s.EffectiveRole()
	switch req {
	case RequireSession:
		return true, req
	case RequireStaff:
		return role != domain.RoleNone, req
	case RequireManagement:
		return role.IsManagement(), req
	case RequireExecutive:
		return role.IsExecutive(), req
	}
	return false, req
}
