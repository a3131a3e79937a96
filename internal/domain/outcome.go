package domain

type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeError   OutcomeStatus = "error"
)

// Outcome is the tagged result of processing one webhook delivery. The
// reconciler always returns one of these, never an error: skips and
// operational failures are data, not exceptions.
type Outcome struct {
	Status  OutcomeStatus `json:"status"`
	Reason  string        `json:"reason,omitempty"`
	Message string        `json:"message,omitempty"`

	ProjectID         int64  `json:"project_id,omitempty"`
	IssueID           int64  `json:"issue_id,omitempty"`
	PRNumber          int    `json:"pr_number,omitempty"`
	GitHubIssueNumber int    `json:"github_issue_number,omitempty"`
	Action            string `json:"action,omitempty"`
	CommitCount       int    `json:"commits_count,omitempty"`
	Pusher            string `json:"pusher,omitempty"`
}

func SkippedOutcome(reason string) Outcome {
	return Outcome{Status: OutcomeSkipped, Reason: reason}
}

func ErrorOutcome(err error) Outcome {
	return Outcome{Status: OutcomeError, Message: err.Error()}
}
