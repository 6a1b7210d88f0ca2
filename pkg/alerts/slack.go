package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ogulcanaydogan/vix-monitor/pkg/threshold"
)

// SlackNotifier sends alerts to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	channel    string
	client     *http.Client
}

// NewSlackNotifier creates a Slack webhook notifier.
func NewSlackNotifier(webhookURL, channel string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		channel:    channel,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *SlackNotifier) Name() string { return "slack" }

// color grades the attachment by how aggressive the recommendation is.
func color(months float64) string {
	switch {
	case months >= 3:
		return "#cc0000" // dark red
	case months >= 2:
		return "#ff0000" // red
	case months >= 1:
		return "#ff9900" // orange
	default:
		return "#ffcc00" // yellow
	}
}

func (s *SlackNotifier) Send(ctx context.Context, alert Alert) error {
	if s.webhookURL == "" {
		return fmt.Errorf("%w: set alerts.slack.webhook_url", ErrNotConfigured)
	}

	payload := slackPayload{
		Channel: s.channel,
		Attachments: []slackAttachment{
			{
				Color: color(alert.Months),
				Title: Subject(alert),
				Fields: []slackField{
					{Title: alert.Label(), Value: fmt.Sprintf("%.2f", alert.Reading.Value), Short: true},
					{Title: "Buy", Value: fmt.Sprintf("%s month(s)", threshold.FormatMonths(alert.Months)), Short: true},
					{Title: "Cooldown", Value: fmt.Sprintf("%d days", alert.CooldownDays), Short: true},
				},
				Footer: "VIX Monitor",
				Ts:     alert.GeneratedAt.Unix(),
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send slack alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned status %d", resp.StatusCode)
	}
	return nil
}

type slackPayload struct {
	Channel     string            `json:"channel,omitempty"`
	Attachments []slackAttachment `json:"attachments"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Fields []slackField `json:"fields"`
	Footer string       `json:"footer"`
	Ts     int64        `json:"ts"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}
