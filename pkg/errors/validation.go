package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// MaxLabelLength bounds node labels accepted from definition files.
const MaxLabelLength = 256

// ValidateLabel rejects labels that cannot be used as link references:
// empty strings, control characters and overly long names.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return New(ErrCodeInvalidInput, "node label cannot be empty")
	}
	if len(label) > MaxLabelLength {
		return New(ErrCodeInvalidInput, "node label too long (max %d characters)", MaxLabelLength)
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node label %q contains control characters", label)
		}
	}
	return nil
}

// ValidateTimeRange checks an interval for the strict contract: both bounds
// finite and start <= end. Lenient callers degrade instead of calling this.
func ValidateTimeRange(start, end float64) error {
	if math.IsNaN(start) || math.IsInf(start, 0) {
		return New(ErrCodeInvalidTimeRange, "start time %v is not a finite number", start)
	}
	if math.IsNaN(end) || math.IsInf(end, 0) {
		return New(ErrCodeInvalidTimeRange, "end time %v is not a finite number", end)
	}
	if end < start {
		return New(ErrCodeInvalidTimeRange, "end time %v before start time %v", end, start)
	}
	return nil
}

// ValidateDistribution checks a mean/deviation pair for the strict contract.
func ValidateDistribution(mean, std float64) error {
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return New(ErrCodeInvalidTimeRange, "mean time %v is not a finite number", mean)
	}
	if math.IsNaN(std) || math.IsInf(std, 0) || std < 0 {
		return New(ErrCodeInvalidTimeRange, "standard deviation %v must be a finite non-negative number", std)
	}
	return nil
}

// ValidateDefinitionPath validates a definition file path given on the command
// line: non-empty, no null bytes and a known extension.
func ValidateDefinitionPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return New(ErrCodeInvalidPath, "path contains null bytes")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml", ".json":
		return nil
	default:
		return New(ErrCodeInvalidFormat, "unsupported definition format %q (want .toml, .yaml or .json)", filepath.Ext(path))
	}
}
