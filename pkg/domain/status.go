package domain

// SkipReason explains why a harvested route produced no entry.
type SkipReason string

// Skip reasons reported by the scanner.
const (
	// SkipReasonNotFound indicates no file in the corpus declares the handler symbol.
	SkipReasonNotFound SkipReason = "not-found"
	// SkipReasonBlockNotFound indicates the declaration was found but its block end was not.
	SkipReasonBlockNotFound SkipReason = "block-not-found"
	// SkipReasonReadError indicates a corpus file could not be read.
	SkipReasonReadError SkipReason = "read-error"
)
