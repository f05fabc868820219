package constants

// PermissionRoles maps each permission to the roles allowed to perform it.
// This is the single authorization table: route middleware and service-level
// checks both consult it, so adding a role is a one-line change here.
// Guest appears nowhere; a guest account can only wait for approval.
var PermissionRoles = map[string][]string{
	ViewProducts:   {Administrator, Compiler, Viewer},
	CreateProduct:  {Administrator, Compiler},
	EditProduct:    {Administrator, Compiler},
	DeleteProduct:  {Administrator},
	ApproveProduct: {Administrator},
	ManageGroups:   {Administrator, Compiler},
	DeleteGroup:    {Administrator},
	ManageUsers:    {Administrator},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
