package service

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("print size not found")
	ErrEmptyCart       = errors.New("cart is empty, nothing to checkout")
	ErrValidation      = errors.New("invalid input")
	ErrSessionUnpaid   = errors.New("checkout session is not paid")
)
