package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrDivisionByZero       = errors.New("division by zero")
	ErrPriceIndexOutOfRange = errors.New("outcome index out of range")
	ErrBadAmount            = errors.New("invalid amount string")
)
