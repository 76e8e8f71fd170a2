package service

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidSession       = errors.New("cart session is missing")
	ErrProductNotFound      = errors.New("product not found")
	ErrProductNotAvailable  = errors.New("product is no longer available")
	ErrProductNameRequired  = errors.New("product name is required")
	ErrProductCategoryEmpty = errors.New("product category is required")
	ErrProductPriceInvalid  = errors.New("product price is invalid")
	ErrProductStockInvalid  = errors.New("product stock is invalid")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrCustomerInfoInvalid  = errors.New("customer info is invalid")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUploadInvalid        = errors.New("upload rejected")
)
