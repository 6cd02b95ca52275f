package greenops

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors returned by the normalizers and equivalency calculation.
var (
	// ErrInvalidUnit indicates a unit the normalizer does not recognize.
	ErrInvalidUnit = constError("invalid unit")

	// ErrNegativeValue indicates a negative quantity where none is allowed.
	ErrNegativeValue = constError("negative value")

	// ErrCalculationOverflow indicates a non-finite input or result.
	ErrCalculationOverflow = constError("calculation overflow")
)
