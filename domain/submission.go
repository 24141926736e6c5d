package domain

// SubmissionState is a step of the submit lifecycle driven by the UI shell.
type SubmissionState int

const (
	StateIdle SubmissionState = iota
	StateValidating
	StateRejected
	StateAnalyzing
	StateAwaitingInsight
	StateComplete
)

func (s SubmissionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateRejected:
		return "rejected"
	case StateAnalyzing:
		return "analyzing"
	case StateAwaitingInsight:
		return "awaiting_insight"
	case StateComplete:
		return "complete"
	}
	return "unknown"
}

// Busy reports whether the state holds the submit control disabled.
func (s SubmissionState) Busy() bool {
	return s == StateAnalyzing || s == StateAwaitingInsight || s == StateComplete
}
