package domain

import "errors"

var (
	ErrInvalidCountry       = errors.New("invalid_country_code")
	ErrInvalidCategory      = errors.New("invalid_category_code")
	ErrInvalidRate          = errors.New("invalid_rate")
	ErrInvalidRateType      = errors.New("invalid_rate_type")
	ErrInvalidEffectiveFrom = errors.New("invalid_effective_from")
	ErrInvalidID            = errors.New("invalid_id")
	ErrRateNotFound         = errors.New("rate_not_found")
	ErrRateExists           = errors.New("rate_already_exists")
	ErrCategoryNotFound     = errors.New("category_not_found")
	ErrNotFound             = errors.New("not_found")
	ErrEmptyLineItems       = errors.New("empty_line_items")
	ErrNegativeUnitPrice    = errors.New("negative_unit_price")
	ErrInvalidQuantity      = errors.New("invalid_quantity")
	ErrPrerequisites        = errors.New("invoice_prerequisites_not_met")
)
