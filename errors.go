package curbreg

import "errors"

// Error taxonomy per the error handling design: each sentinel is wrapped
// with context via fmt.Errorf("...: %w", ...) at the point it's raised, and
// matched with errors.Is at the call site that owns the recovery policy.
var (
	// ErrMalformedRow marks a sign row that fails hard validation (bad hour
	// bounds, months without day bounds, mixed exception flags). The
	// ingestion step logs and skips the row.
	ErrMalformedRow = errors.New("malformed inventory row")

	// ErrUnknownStreet marks a street id absent from the road table. The
	// engine falls back to the nearest road and logs the inferred id; it
	// never aborts on this error.
	ErrUnknownStreet = errors.New("unknown street id")

	// ErrConflictingRules marks an attempted merge of two Rules that differ
	// in activity or type. Caught at the Regulation boundary: the two
	// Regulations are kept side-by-side on the Panel.
	ErrConflictingRules = errors.New("conflicting rules")

	// ErrDuplicateRegulationMerge is a non-fatal warning for merging two
	// already-equal Regulations.
	ErrDuplicateRegulationMerge = errors.New("duplicate regulation merge")

	// ErrChainOrderViolation marks a double-open or orphan-close while
	// interpreting an arrow chain. The offending panel is recorded as
	// problematic and the chain continues best-effort.
	ErrChainOrderViolation = errors.New("chain order violation")

	// ErrEmptyGeometryCut marks a segment cut yielding a zero-length line;
	// the feature is dropped.
	ErrEmptyGeometryCut = errors.New("empty geometry cut")

	// ErrInvalidDayExpression marks a day-interval string with no grammar
	// match. It surfaces to the caller as ErrMalformedRow.
	ErrInvalidDayExpression = errors.New("invalid day expression")

	// ErrInvalidUserClassMix marks a Regulation whose UserClass entries
	// disagree on IsExcept.
	ErrInvalidUserClassMix = errors.New("mixed user class exception flags")
)
