package domain

type IssueStatus string

const (
	IssueStatusTodo       IssueStatus = "todo"
	IssueStatusInProgress IssueStatus = "in_progress"
	IssueStatusInReview   IssueStatus = "in_review"
	IssueStatusQA         IssueStatus = "qa"
	IssueStatusCompleted  IssueStatus = "completed"
	IssueStatusBlocked    IssueStatus = "blocked"
)

type IssueType string

const (
	IssueTypeTask        IssueType = "task"
	IssueTypeBug         IssueType = "bug"
	IssueTypeFeature     IssueType = "feature"
	IssueTypeImprovement IssueType = "improvement"
	IssueTypeOther       IssueType = "other"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityModerate Priority = "moderate"
	PriorityHigh     Priority = "high"
)

// ExternalKind says which kind of GitHub entity a synced issue came from.
type ExternalKind string

const (
	ExternalKindIssue ExternalKind = "issue"
	ExternalKindPR    ExternalKind = "pr"
)

type User struct {
	ID    int64
	Name  string
	Email string
}

// SlackNotificationFlags are the per-event enable switches stored inside the
// project config blob. The JSON keys are camelCase to stay compatible with
// what the settings UI writes. An absent flag counts as enabled, so a project
// configured with only a webhook URL gets every notification.
type SlackNotificationFlags struct {
	IssueCreated       *bool `json:"issueCreated,omitempty"`
	IssueUpdated       *bool `json:"issueUpdated,omitempty"`
	IssueAssigned      *bool `json:"issueAssigned,omitempty"`
	IssueStatusChanged *bool `json:"issueStatusChanged,omitempty"`
}

func (f SlackNotificationFlags) CreatedEnabled() bool { return flagEnabled(f.IssueCreated) }
func (f SlackNotificationFlags) UpdatedEnabled() bool { return flagEnabled(f.IssueUpdated) }

func flagEnabled(flag *bool) bool {
	return flag == nil || *flag
}

type SlackSettings struct {
	WebhookURL    string                 `json:"webhook_url"`
	Channel       string                 `json:"channel,omitempty"`
	Notifications SlackNotificationFlags `json:"notifications"`
}

// ProjectData is the semi-structured project configuration blob (JSONB in
// the store). GitHubRepo holds the owner/name linkage the reconciler
// resolves projects by.
type ProjectData struct {
	GitHubRepo string         `json:"github_repo,omitempty"`
	Slack      *SlackSettings `json:"slack,omitempty"`
}

type Project struct {
	ID          int64
	Name        string
	Description string
	CreatedBy   int64 // 0 when the project has no recorded creator
	Data        ProjectData
}

type Issue struct {
	ID           int64
	ProjectID    int64
	Name         string
	Description  string
	Status       IssueStatus
	Type         IssueType
	Priority     Priority
	StoryPoint   int
	TimeEstimate float64
	AssignedTo   *int64
	AssignedBy   int64

	// Set only for issues synced from GitHub; (ProjectID, ExternalKind,
	// ExternalNumber) is unique in the store.
	ExternalKind   *ExternalKind
	ExternalNumber *int
}

// IssueUpdate carries the fields a webhook redelivery may change on an
// existing synced issue. Assignee, story points and estimates are left
// alone so local edits survive redeliveries.
type IssueUpdate struct {
	Name        string
	Description string
	Status      IssueStatus
	Type        IssueType
	Priority    Priority
}
