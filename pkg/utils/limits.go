package utils

// Listing caps. Callers supply a limit; zero or negative values fall back
// to the default and oversized requests are clamped.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ClampLimit normalizes a caller-supplied result-size cap.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
