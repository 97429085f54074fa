package timeline

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/sankeytimeline/pkg/errors"
)

// TimeMode selects which fields of a [TimeSpec] are meaningful.
type TimeMode int

const (
	// TimeInterval uses Start and End.
	TimeInterval TimeMode = iota
	// TimeDistribution uses Mean and StdDev; the key times are mean ± std.
	TimeDistribution
)

// TimeSpec describes when a node happens.
type TimeSpec struct {
	Mode   TimeMode
	Start  float64
	End    float64
	Mean   float64
	StdDev float64
}

// Interval returns an interval time spec.
func Interval(start, end float64) TimeSpec {
	return TimeSpec{Mode: TimeInterval, Start: start, End: end}
}

// Distribution returns a mean ± standard deviation time spec.
func Distribution(mean, std float64) TimeSpec {
	return TimeSpec{Mode: TimeDistribution, Mean: mean, StdDev: std}
}

// ParseInterval builds an interval from two time strings accepted by
// [ParseTime]. Unparsable values become NaN and degrade when the spec is
// normalized.
func ParseInterval(start, end string) TimeSpec {
	return Interval(ParseTime(start), ParseTime(end))
}

// KeyTimes returns the effective [start, end] bounds after normalization.
func (ts TimeSpec) KeyTimes() (start, end float64) {
	n := ts.Normalize()
	if n.Mode == TimeDistribution {
		return n.Mean - n.StdDev, n.Mean + n.StdDev
	}
	return n.Start, n.End
}

// Normalize applies the lenient guards: a non-finite start or mean becomes 0,
// a non-finite or earlier end collapses onto start, and a negative or
// non-finite deviation becomes 0.
func (ts TimeSpec) Normalize() TimeSpec {
	switch ts.Mode {
	case TimeDistribution:
		if !finite(ts.Mean) {
			ts.Mean = 0
		}
		if !finite(ts.StdDev) || ts.StdDev < 0 {
			ts.StdDev = 0
		}
	default:
		ts.Mode = TimeInterval
		if !finite(ts.Start) {
			ts.Start = 0
		}
		if !finite(ts.End) || ts.End < ts.Start {
			ts.End = ts.Start
		}
	}
	return ts
}

// Validate reports malformed time input with an INVALID_TIME_RANGE error.
// It is the strict counterpart of [TimeSpec.Normalize].
func (ts TimeSpec) Validate() error {
	if ts.Mode == TimeDistribution {
		return errors.ValidateDistribution(ts.Mean, ts.StdDev)
	}
	return errors.ValidateTimeRange(ts.Start, ts.End)
}

// ParseTime parses a time value. Plain numbers are taken as-is; clock strings
// "hh:mm:ss" and "mm:ss" (fractional seconds allowed) are converted to
// seconds. Anything else yields NaN.
func ParseTime(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return math.NaN()
	}
	var total float64
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 {
			return math.NaN()
		}
		total = total*60 + v
	}
	return total
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
