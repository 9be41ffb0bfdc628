package services

import "errors"

var (
	ErrLoginRequired      = errors.New("login required")
	ErrFoodNotFound       = errors.New("food item does not exist")
	ErrEntryNotFound      = errors.New("cart entry does not exist")
	ErrVendorNotFound     = errors.New("vendor not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("account is not active")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
)
