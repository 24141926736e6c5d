package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// AnalysisInput holds the three raw text fields of a submission.
type AnalysisInput struct {
	Target     string `json:"target"`
	BoundAlpha string `json:"bound_alpha"`
	BoundOmega string `json:"bound_omega"`
}

// Where InsightText came from.
const (
	InsightFromProvider = "provider"
	InsightEmpty        = "empty"
	InsightFallback     = "fallback"
)

type AnalysisResult struct {
	Target          float64   `json:"target"`
	BoundLow        int64     `json:"bound_low"`
	BoundHigh       int64     `json:"bound_high"`
	IsContained     bool      `json:"is_contained"`
	ProgressPercent float64   `json:"progress_percent"` // unclamped, may be ±Inf
	Range           int64     `json:"range"`
	IsIntegerValued bool      `json:"is_integer_valued"`
	InsightText     string    `json:"insight_text"`
	InsightSource   string    `json:"insight_source,omitempty"`
	CompletedAt     time.Time `json:"completed_at,omitzero"`
}

// DisplayProgress clamps ProgressPercent to [0, 100] for rendering a bar.
func (r AnalysisResult) DisplayProgress() float64 {
	switch {
	case r.ProgressPercent < 0:
		return 0
	case r.ProgressPercent > 100:
		return 100
	}
	return r.ProgressPercent
}

func (r AnalysisResult) Status() string {
	if r.IsContained {
		return "INTERNALIZED"
	}
	return "EXTERNALIZED"
}

func (r AnalysisResult) FloatStatus() string {
	if r.IsIntegerValued {
		return "Integer"
	}
	return "Rational"
}

// analysisResultFields is AnalysisResult without its JSON methods.
type analysisResultFields AnalysisResult

// MarshalJSON writes a non-finite ProgressPercent as the string "Infinity",
// "-Infinity" or "NaN"; JSON numbers cannot hold them.
func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	var progress any = r.ProgressPercent
	switch {
	case math.IsInf(r.ProgressPercent, 1):
		progress = "Infinity"
	case math.IsInf(r.ProgressPercent, -1):
		progress = "-Infinity"
	case math.IsNaN(r.ProgressPercent):
		progress = "NaN"
	}

	return json.Marshal(struct {
		analysisResultFields
		ProgressPercent any `json:"progress_percent"`
	}{analysisResultFields(r), progress})
}

func (r *AnalysisResult) UnmarshalJSON(data []byte) error {
	aux := struct {
		*analysisResultFields
		ProgressPercent json.RawMessage `json:"progress_percent"`
	}{analysisResultFields: (*analysisResultFields)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.ProgressPercent = 0
	if len(aux.ProgressPercent) == 0 || string(aux.ProgressPercent) == "null" {
		return nil
	}
	if aux.ProgressPercent[0] != '"' {
		return json.Unmarshal(aux.ProgressPercent, &r.ProgressPercent)
	}

	var text string
	if err := json.Unmarshal(aux.ProgressPercent, &text); err != nil {
		return err
	}
	switch text {
	case "Infinity":
		r.ProgressPercent = math.Inf(1)
	case "-Infinity":
		r.ProgressPercent = math.Inf(-1)
	case "NaN":
		r.ProgressPercent = math.NaN()
	default:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("progress_percent: %w", err)
		}
		r.ProgressPercent = v
	}
	return nil
}
