package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	log "github.com/golang/glog"

	"github.com/carlosrabelo/storecheck/domain/entities"
)

const (
	maxRetries     = 3
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// SlackNotifier posts run summaries to a Slack incoming webhook
type SlackNotifier struct {
	webhookURL string
	channel    string
	httpClient *http.Client
	backoff    time.Duration
}

// NewSlackNotifier creates a notifier for the given webhook. channel may be empty.
func NewSlackNotifier(webhookURL, channel string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		channel:    channel,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		backoff:    initialBackoff,
	}
}

type slackMessage struct {
	Channel string `json:"channel,omitempty"`
	Text    string `json:"text"`
}

// Notify posts the summary, retrying transient failures
func (n *SlackNotifier) Notify(ctx context.Context, summary entities.RunSummary) error {
	data, err := json.Marshal(slackMessage{Channel: n.channel, Text: FormatSummary(summary)})
	if err != nil {
		return fmt.Errorf("failed to marshal slack message: %w", err)
	}

	err = retry.Do(func() error {
		return n.post(ctx, data)
	}, retry.Attempts(maxRetries), retry.Delay(n.backoff), retry.MaxDelay(maxBackoff))
	if err != nil {
		return fmt.Errorf("failed to notify slack after %d attempts: %w", maxRetries, err)
	}
	log.V(1).Infof("run summary for %s posted to slack", summary.DeviceID)
	return nil
}

func (n *SlackNotifier) post(ctx context.Context, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// FormatSummary renders the message text of a run
func FormatSummary(summary entities.RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Store %s: %s tested", summary.Store, summary.DeviceID)
	if summary.Err != nil {
		fmt.Fprintf(&b, ", run aborted after %d checks: %v", summary.Total(), summary.Err)
	} else {
		fmt.Fprintf(&b, ", %d passed, %d failed", summary.Passed, summary.Failed)
	}
	if summary.ReportPath != "" {
		fmt.Fprintf(&b, "\nReport: %s", summary.ReportPath)
	}
	return b.String()
}
