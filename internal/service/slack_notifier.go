package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/trackspace/github-sync-service/internal/domain"
)

var statusEmoji = map[domain.IssueStatus]string{
	domain.IssueStatusTodo:       "\U0001F4CB",
	domain.IssueStatusInProgress: "\U0001F504",
	domain.IssueStatusInReview:   "\U0001F440",
	domain.IssueStatusQA:         "\U0001F9EA",
	domain.IssueStatusCompleted:  "✅",
	domain.IssueStatusBlocked:    "\U0001F6AB",
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackBlock struct {
	Type   string      `json:"type"`
	Text   *slackText  `json:"text,omitempty"`
	Fields []slackText `json:"fields,omitempty"`
}

type slackMessage struct {
	Channel string       `json:"channel,omitempty"`
	Blocks  []slackBlock `json:"blocks"`
}

// SlackNotifier posts Block Kit messages to a project's incoming-webhook
// URL. Projects without Slack settings, or with the event type switched
// off, are silently skipped.
type SlackNotifier struct {
	client *http.Client
}

func NewSlackNotifier(client *http.Client) *SlackNotifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SlackNotifier{client: client}
}

func (n *SlackNotifier) IssueCreated(ctx context.Context, project *domain.Project, issue *domain.Issue) error {
	settings := project.Data.Slack
	if settings == nil || settings.WebhookURL == "" || !settings.Notifications.CreatedEnabled() {
		return nil
	}
	return n.post(ctx, settings, issueMessage(settings.Channel, "New Issue Created", issue))
}

func (n *SlackNotifier) IssueUpdated(ctx context.Context, project *domain.Project, issue *domain.Issue) error {
	settings := project.Data.Slack
	if settings == nil || settings.WebhookURL == "" || !settings.Notifications.UpdatedEnabled() {
		return nil
	}
	return n.post(ctx, settings, issueMessage(settings.Channel, "Issue Updated", issue))
}

func issueMessage(channel, headline string, issue *domain.Issue) slackMessage {
	emoji, ok := statusEmoji[issue.Status]
	if !ok {
		emoji = statusEmoji[domain.IssueStatusTodo]
	}

	return slackMessage{
		Channel: channel,
		Blocks: []slackBlock{
			{
				Type: "header",
				Text: &slackText{Type: "plain_text", Text: emoji + " " + headline},
			},
			{
				Type: "section",
				Fields: []slackText{
					{Type: "mrkdwn", Text: "*Issue:*\n" + issue.Name},
					{Type: "mrkdwn", Text: "*Status:*\n" + titleCase(string(issue.Status))},
					{Type: "mrkdwn", Text: "*Priority:*\n" + titleCase(string(issue.Priority))},
					{Type: "mrkdwn", Text: "*Type:*\n" + titleCase(string(issue.Type))},
				},
			},
		},
	}
}

func (n *SlackNotifier) post(ctx context.Context, settings *domain.SlackSettings, msg slackMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, settings.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post slack message: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// titleCase renders an enum value for display: "in_progress" -> "In Progress".
func titleCase(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
