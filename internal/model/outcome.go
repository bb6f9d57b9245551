package model

// FailureReason tags why a job failed.
type FailureReason int

const (
	// ReasonNone is set on successful outcomes.
	ReasonNone FailureReason = iota

	// ReasonDomainMismatch means the URL did not carry a soundcloud.com or
	// bandcamp.com domain although its source type requires one. No
	// download was attempted.
	ReasonDomainMismatch

	// ReasonUnexpected means the job was aborted by an error nobody
	// classified (a recovered panic or a cancelled context).
	ReasonUnexpected
)

// String returns the reason as used in log output.
func (r FailureReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonDomainMismatch:
		return "domain_mismatch"
	case ReasonUnexpected:
		return "unexpected_error"
	default:
		return "unknown"
	}
}

// Outcome is the result of running one Job.
//
// Success only turns false through the domain guard or an unexpected error.
// A job whose every backend call failed still reports Success == true;
// Attempted and Failed expose the per-track picture for callers that care.
type Outcome struct {
	Job Job

	// SourceType is the resolved, concrete source type.
	SourceType SourceType

	Success bool
	Reason  FailureReason

	// Message is a human-readable failure description. Empty on success.
	Message string

	// Discovered holds the scraped links, in the order they were downloaded.
	Discovered []string

	// Attempted counts backend invocations, Failed those that returned an error.
	Attempted int
	Failed    int

	// Tracks are the files the backend reported as written.
	Tracks []*Track
}

// Summary aggregates a batch of outcomes.
type Summary struct {
	Jobs          int
	JobsSucceeded int
	JobsFailed    int
	Tracks        int
	TracksFailed  int
}

// Summarize counts job and track results across outcomes.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Jobs: len(outcomes)}
	for _, o := range outcomes {
		if o.Success {
			s.JobsSucceeded++
		} else {
			s.JobsFailed++
		}
		s.Tracks += len(o.Tracks)
		s.TracksFailed += o.Failed
	}
	return s
}
