package model

// Role identifies what an authenticated actor is allowed to do.
// The values match the role claims issued by the gateway.
type Role string

const (
	RoleAgent1  Role = "AGENT1"
	RoleAgent2  Role = "AGENT2"
	RoleAccount Role = "ACCOUNT"
	RoleAdmin   Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAgent1, RoleAgent2, RoleAccount, RoleAdmin:
		return true
	}
	return false
}

// IsAgent reports whether the role is one of the submitter-style roles.
func (r Role) IsAgent() bool {
	return r == RoleAgent1 || r == RoleAgent2
}

// IsElevated reports whether the role bypasses the Draft stage on create.
func (r Role) IsElevated() bool {
	return r == RoleAccount || r == RoleAdmin
}

// Actor is the authenticated identity attached to every request.
// It is supplied by the gateway and trusted as-is.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}
