package factors

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for table construction and loading.
var (
	// ErrUnknownCategory indicates an impact category outside AllCategories.
	ErrUnknownCategory = constError("unknown impact category")

	// ErrEmptySubstance indicates a factor without a substance key.
	ErrEmptySubstance = constError("factor substance is empty")

	// ErrDuplicateFactor indicates two factors for the same substance and category.
	ErrDuplicateFactor = constError("duplicate characterization factor")

	// ErrUnknownTable indicates a built-in table name that does not exist.
	ErrUnknownTable = constError("unknown factor table")
)
