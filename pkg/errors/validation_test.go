package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		label string
		ok    bool
	}{
		{"v0", true},
		{"build step", true},
		{"", false},
		{"   ", false},
		{"bad\x00label", false},
		{"tab\there", false},
		{strings.Repeat("x", MaxLabelLength+1), false},
	}
	for _, tt := range tests {
		err := ValidateLabel(tt.label)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateLabel(%q) error = %v, want ok=%v", tt.label, err, tt.ok)
		}
		if err != nil && !Is(err, ErrCodeInvalidInput) {
			t.Errorf("ValidateLabel(%q) code = %v, want %v", tt.label, GetCode(err), ErrCodeInvalidInput)
		}
	}
}

func TestValidateTimeRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		ok         bool
	}{
		{"ordered", 0, 5, true},
		{"zero width", 3, 3, true},
		{"reversed", 5, 0, false},
		{"nan start", math.NaN(), 1, false},
		{"inf end", 0, math.Inf(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimeRange(tt.start, tt.end)
			if (err == nil) != tt.ok {
				t.Fatalf("ValidateTimeRange() error = %v, want ok=%v", err, tt.ok)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidTimeRange {
				t.Errorf("GetCode() = %v, want %v", GetCode(err), ErrCodeInvalidTimeRange)
			}
		})
	}
}

func TestValidateDistribution(t *testing.T) {
	if err := ValidateDistribution(10, 2); err != nil {
		t.Errorf("ValidateDistribution(10, 2) = %v, want nil", err)
	}
	if err := ValidateDistribution(10, -1); !Is(err, ErrCodeInvalidTimeRange) {
		t.Errorf("ValidateDistribution(10, -1) = %v, want %v", err, ErrCodeInvalidTimeRange)
	}
	if err := ValidateDistribution(math.NaN(), 1); err == nil {
		t.Error("ValidateDistribution(NaN, 1) = nil, want error")
	}
}

func TestValidateDefinitionPath(t *testing.T) {
	tests := []struct {
		path string
		code Code
	}{
		{"timeline.toml", ""},
		{"dir/timeline.YAML", ""},
		{"timeline.yml", ""},
		{"timeline.json", ""},
		{"", ErrCodeInvalidPath},
		{"a\x00.toml", ErrCodeInvalidPath},
		{"timeline.csv", ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		if got := GetCode(ValidateDefinitionPath(tt.path)); got != tt.code {
			t.Errorf("ValidateDefinitionPath(%q) code = %q, want %q", tt.path, got, tt.code)
		}
	}
}
