package persona

// Role classifies what a persona is for. The set is closed; configuration
// validation rejects anything else.
type Role string

const (
	RoleNavigator  Role = "navigator"
	RoleFormFiller Role = "form_filler"
	RoleGeneric    Role = "generic"
)

// Roles lists the valid persona roles.
var Roles = []Role{RoleNavigator, RoleFormFiller, RoleGeneric}

// ValidRole reports whether r is a member of the closed role set.
func ValidRole(r Role) bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Persona names a behavior that can be credited with handling a task.
// Selection only labels which persona performed the work; it never alters
// what a command does. Keywords are matched as lowercase substrings of the
// task text.
type Persona struct {
	ID       string
	Role     Role
	Keywords []string
	Priority int
}
