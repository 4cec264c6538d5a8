package domain

// Role capability of the actor triggering a command
type Role string

const (
	RoleRequester Role = "requester"
	RoleAdmin     Role = "admin"
	RoleSystem    Role = "system"
)

// SystemActorID is recorded as actor id for scheduled transitions
const SystemActorID int64 = 0

// Actor the caller of a command, resolved once per request
type Actor struct {
	ID       int64
	IsAdmin  bool
	IsSystem bool
}

// SystemActor returns the actor used by the sweep
func SystemActor() Actor {
	return Actor{ID: SystemActorID, IsSystem: true}
}

// Role returns the capability the actor acts with
func (a Actor) Role() Role {
	switch {
	case a.IsSystem:
		return RoleSystem
	case a.IsAdmin:
		return RoleAdmin
	default:
		return RoleRequester
	}
}
