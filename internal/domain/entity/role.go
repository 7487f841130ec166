package entity

// Role is fixed at registration and compared, never mutated, at login
type Role string

const (
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
)

// ParseRole returns the role named by s and whether it is one of the known roles.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleStudent, RoleRecruiter:
		return r, true
	default:
		return "", false
	}
}

func (r Role) String() string { return string(r) }
