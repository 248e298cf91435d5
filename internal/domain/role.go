package domain

// Role is one of the fixed roles governing authorization.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

// Capability is a unit of permission checked by the authorization gate.
type Capability string

const (
	CapReadOwn      Capability = "read-own"
	CapReadAll      Capability = "read-all"
	CapWriteBooking Capability = "write-booking"
)

var capabilities = map[Role]map[Capability]bool{
	RoleAdmin:      {CapReadAll: true, CapWriteBooking: true},
	RoleInstructor: {CapReadOwn: true, CapWriteBooking: true},
	RoleStudent:    {CapReadOwn: true},
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := capabilities[r]
	return ok
}

// HasProfile reports whether users with this role own a Student or
// Instructor profile.
func (r Role) HasProfile() bool { return r == RoleStudent || r == RoleInstructor }

// Can is a pure set-membership test; there is no role hierarchy.
func (r Role) Can(c Capability) bool { return capabilities[r][c] }

// Capabilities returns the capability set of the role.
func (r Role) Capabilities() []Capability {
	out := make([]Capability, 0, len(capabilities[r]))
	for _, c := range []Capability{CapReadOwn, CapReadAll, CapWriteBooking} {
		if capabilities[r][c] {
			out = append(out, c)
		}
	}
	return out
}

// Identity is the caller derived from a verified access token.
type Identity struct {
	UserID string `json:"id"`
	Role   Role   `json:"role"`
}
