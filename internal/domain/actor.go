package domain

// ActorRole enumerates operator roles acting on tickets.
type ActorRole string

const (
	RoleAdmin           ActorRole = "admin"
	RoleSupervisor      ActorRole = "supervisor"
	RoleTechnician      ActorRole = "technician"
	RoleCustomerService ActorRole = "customer_service"
)

// IsPrivileged reports whether the role may traverse any base transition edge.
func (r ActorRole) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleSupervisor
}

// Actor identifies who triggered a transition.
type Actor struct {
	ID   string    `json:"id"`
	Role ActorRole `json:"role"`
}
