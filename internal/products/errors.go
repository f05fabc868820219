package products

import "errors"

var (
	ErrProductNotFound = errors.New("Product not found")
	ErrGroupNotFound   = errors.New("Referenced group does not exist")
	ErrInvalidType     = errors.New("Invalid product type")
	ErrNameRequired    = errors.New("Product name is required")
	ErrTypeChange      = errors.New("Product type cannot be changed after creation")
	ErrForbidden       = errors.New("User is forbidden from performing this action")
	ErrNoFields        = errors.New("No update fields provided")
)
