package authz

import "github.com/spec-kit/call-monitoring-service/internal/domain"

// Operation identifies an action checked against the access policy.
type Operation string

const (
	OpReadCall         Operation = "call.read"
	OpCreateCall       Operation = "call.create"
	OpAssignOperator   Operation = "call.assign_operator"
	OpUpdateCall       Operation = "call.update"
	OpDeleteCall       Operation = "call.delete"
	OpReadEvaluation   Operation = "evaluation.read"
	OpCreateEvaluation Operation = "evaluation.create"
	OpUpdateEvaluation Operation = "evaluation.update"
	OpDeleteEvaluation Operation = "evaluation.delete"
	OpManageUser       Operation = "user.manage"
	OpViewOrgDashboard Operation = "dashboard.view_org"
)

// scope expresses how far a role's permission for an operation reaches.
type scope int

const (
	scopeNone scope = iota // never allowed
	scopeOwn               // allowed only on resources the actor owns
	scopeAny               // allowed on any resource
)

// policy is the role × operation matrix. Ownership semantics per operation:
// for calls the owner is the operator who logged it, for evaluation updates
// the owner is the original evaluator.
var policy = map[Operation]map[domain.Role]scope{
	OpReadCall: {
		domain.RoleAdmin:      scopeAny,
		domain.RoleSupervisor: scopeAny,
		domain.RoleOperator:   scopeOwn,
	},
	OpCreateCall: {
		domain.RoleAdmin:      scopeAny,
		domain.RoleSupervisor: scopeAny,
		domain.RoleOperator:   scopeAny,
	},
	OpAssignOperator: {
		domain.RoleAdmin:      scopeAny,
		domain.RoleSupervisor: scopeAny,
		domain.RoleOperator:   scopeOwn,
	},
	OpUpdateCall: {
		domain.RoleAdmin:      scopeAny,
		domain.RoleSupervisor: scopeAny,
		domain.RoleOperator:   scopeOwn,
	},
	OpDeleteCall: {
		domain.RoleAdmin:      scopeAny,
		domain.RoleSupervisor: scopeAny,
	},
	OpReadEvaluation: {
		domain.RoleAdmin:      scopeAny,
		domain.RoleSupervisor: scopeAny,
		domain.RoleOperator:   scopeOwn,
	},
	OpCreateEvaluation: {
		domain.RoleAdmin:      scopeAny,
		domain.RoleSupervisor: scopeAny,
	},
	OpUpdateEvaluation: {
		domain.RoleAdmin:      scopeAny,
		domain.RoleSupervisor: scopeOwn,
	},
	OpDeleteEvaluation: {
		domain.RoleAdmin: scopeAny,
	},
	OpManageUser: {
		domain.RoleAdmin: scopeAny,
	},
	OpViewOrgDashboard: {
		domain.RoleAdmin:      scopeAny,
		domain.RoleSupervisor: scopeAny,
	},
}

// Allowed reports whether actor may perform op on a resource owned by ownerID.
// For operations without a meaningful owner pass the actor's own id.
func Allowed(actor *domain.User, op Operation, ownerID string) bool {
	if actor == nil {
		return false
	}
	switch policy[op][actor.Role] {
	case scopeAny:
		return true
	case scopeOwn:
		return actor.ID == ownerID
	default:
		return false
	}
}

// AllowedAny reports whether actor may perform op regardless of ownership.
func AllowedAny(actor *domain.User, op Operation) bool {
	if actor == nil {
		return false
	}
	return policy[op][actor.Role] == scopeAny
}
