package constants

const (
	Administrator = "administrator"
	Compiler      = "compiler"
	Viewer        = "viewer"
	Guest         = "guest"
)

// ValidRoles is the closed set of account roles. New accounts start as guest
// and stay there until an administrator approves them.
var ValidRoles = []string{Administrator, Compiler, Viewer, Guest}

// IsValidRole returns true if role is one of the allowed values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
