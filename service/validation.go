package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"synergy-engine/domain"
)

// ValidationError reports the raw fields that could not be parsed.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid numeric input: %s", strings.Join(e.Fields, ", "))
}

// Message is the user-facing text for the rejection.
func (e *ValidationError) Message() string {
	return ValidationMessage
}

// ParseInput parses the three raw fields. All fields are checked so the
// error names every offending one.
func ParseInput(input domain.AnalysisInput) (float64, int64, int64, error) {
	var bad []string

	target, ok := parseTarget(input.Target)
	if !ok {
		bad = append(bad, "target")
	}
	a, ok := parseBound(input.BoundAlpha)
	if !ok {
		bad = append(bad, "bound_alpha")
	}
	b, ok := parseBound(input.BoundOmega)
	if !ok {
		bad = append(bad, "bound_omega")
	}

	if len(bad) == 0 && !spanFits(a, b) {
		bad = append(bad, "bound_alpha", "bound_omega")
	}

	if len(bad) > 0 {
		return 0, 0, 0, &ValidationError{Fields: bad}
	}
	return target, a, b, nil
}

func parseTarget(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseBound(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v, true
	}

	// "47000.0" is still an integer.
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}

// spanFits reports whether max(a,b)-min(a,b) is representable as an int64.
func spanFits(a, b int64) bool {
	return max(a, b)-min(a, b) >= 0
}
