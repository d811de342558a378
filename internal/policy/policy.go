// Package policy decides whether an actor may perform an action on a
// resource. A Policy is an ordered list of checks combined with OR.
package policy

import (
	"context"
	"net/http"

	"catalog-api/internal/data/entity"
	"catalog-api/pkg/utils"

	"github.com/google/uuid"
)

type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

// Safe reports whether the action does not mutate state.
func (a Action) Safe() bool {
	return a == ActionList || a == ActionRetrieve
}

// ActionFromRequest maps an HTTP method to an action. Requests that
// address a single object (objectLevel) retrieve rather than list.
func ActionFromRequest(method string, objectLevel bool) Action {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		if objectLevel {
			return ActionRetrieve
		}
		return ActionList
	case http.MethodPost:
		return ActionCreate
	case http.MethodPut, http.MethodPatch:
		return ActionUpdate
	case http.MethodDelete:
		return ActionDelete
	}
	return ActionUpdate
}

// Actor is the caller of an endpoint. The zero value is anonymous.
type Actor struct {
	ID          uuid.UUID
	Role        entity.UserRole
	IsSuperuser bool
}

func (a Actor) Authenticated() bool {
	return a.ID != uuid.Nil
}

func (a Actor) IsAdmin() bool {
	return a.Authenticated() && (a.Role == entity.RoleAdmin || a.IsSuperuser)
}

// ActorFromContext reads the caller placed on the context by the auth middleware.
func ActorFromContext(ctx context.Context) Actor {
	id, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return Actor{}
	}
	role, _ := utils.GetRoleFromContext(ctx)
	return Actor{
		ID:          id,
		Role:        entity.UserRole(role),
		IsSuperuser: utils.GetSuperuserFromContext(ctx),
	}
}

// Resource is an object with an author. A nil Resource means a
// collection-level check, before any object exists.
type Resource interface {
	OwnerID() uuid.UUID
}

type Check func(actor Actor, action Action, res Resource) bool

func ReadOnly(_ Actor, action Action, _ Resource) bool {
	return action.Safe()
}

func IsAdmin(actor Actor, _ Action, _ Resource) bool {
	return actor.IsAdmin()
}

func IsModerator(actor Actor, _ Action, _ Resource) bool {
	return actor.Authenticated() && actor.Role == entity.RoleModerator
}

// IsOwner passes any authenticated actor at collection level; ownership
// is verified once the object exists.
func IsOwner(actor Actor, _ Action, res Resource) bool {
	if !actor.Authenticated() {
		return false
	}
	if res == nil {
		return true
	}
	return res.OwnerID() == actor.ID
}

func IsAuthenticated(actor Actor, _ Action, _ Resource) bool {
	return actor.Authenticated()
}

type Policy struct {
	Name   string
	Checks []Check
}

var (
	Catalog       = Policy{Name: "catalog", Checks: []Check{ReadOnly, IsAdmin}}
	Content       = Policy{Name: "content", Checks: []Check{ReadOnly, IsOwner, IsModerator, IsAdmin}}
	AdminOnly     = Policy{Name: "admin", Checks: []Check{IsAdmin}}
	Authenticated = Policy{Name: "authenticated", Checks: []Check{IsAuthenticated}}
)

// Can evaluates the checks in order and stops at the first that grants.
func (p Policy) Can(actor Actor, action Action, res Resource) bool {
	for _, check := range p.Checks {
		if check(actor, action, res) {
			return true
		}
	}
	return false
}

// Authorize returns nil when allowed, utils.ErrUnauthorized for an
// anonymous actor and utils.ErrForbidden otherwise.
func (p Policy) Authorize(actor Actor, action Action, res Resource) error {
	allowed := p.Can(actor, action, res)
	recordDecision(p.Name, action, allowed)

	if allowed {
		return nil
	}
	if !actor.Authenticated() {
		return utils.ErrUnauthorized
	}
	return utils.ErrForbidden
}
