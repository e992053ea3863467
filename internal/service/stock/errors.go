package stock

import "errors"

var (
	ErrItemNotFound  = errors.New("stock item not found")
	ErrNameRequired  = errors.New("stock item name is required")
	ErrNegativeCount = errors.New("quantity and threshold cannot be negative")
)
