package e

import "fmt"

var (
	// Классы ошибок, которые различает слой доставки
	ErrNotFound            = fmt.Errorf("not found")
	ErrInvalidRequest      = fmt.Errorf("invalid request")
	ErrInsufficientStock   = fmt.Errorf("insufficient stock")
	ErrInternalServerError = fmt.Errorf("internal server error")

	// 404 Not Found
	ErrClientNotFound      = fmt.Errorf("client %w", ErrNotFound)
	ErrProductNotFound     = fmt.Errorf("product %w", ErrNotFound)
	ErrServiceNotFound     = fmt.Errorf("service %w", ErrNotFound)
	ErrConsumptionNotFound = fmt.Errorf("consumption record %w", ErrNotFound)

	// 400 Bad Request
	ErrEmptyUpdate     = fmt.Errorf("%w: no fields to update", ErrInvalidRequest)
	ErrInvalidID       = fmt.Errorf("%w: malformed identifier", ErrInvalidRequest)
	ErrInvalidQuantity = fmt.Errorf("%w: quantity must be positive", ErrInvalidRequest)
	ErrInvalidBody     = fmt.Errorf("%w: malformed request body", ErrInvalidRequest)
	ErrInvalidMoney    = fmt.Errorf("%w: money amounts allow at most 2 decimal places", ErrInvalidRequest)
	ErrOutOfRange      = fmt.Errorf("%w: value out of range", ErrInvalidRequest)

	// Внутренние ошибки
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
	ErrUnknownArchive       = fmt.Errorf("unknown archive backend")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
