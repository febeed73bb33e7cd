package escpos

import "errors"

// Encoding errors. They signal bad input, never a transient condition.
var (
	// ErrInvalidConfiguration is returned by setters given out-of-range values
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidPayload is returned when a payload does not fit the symbology
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrInvalidImage is returned for images the raster command cannot carry
	ErrInvalidImage = errors.New("invalid image")
)
