package constants

const (
	ViewProducts   = "view_products"
	CreateProduct  = "create_product"
	EditProduct    = "edit_product"
	DeleteProduct  = "delete_product"
	ApproveProduct = "approve_product"
	ManageGroups   = "manage_groups"
	DeleteGroup    = "delete_group"
	ManageUsers    = "manage_users"
)
