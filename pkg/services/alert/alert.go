// Package alert pushes notifications for high-severity findings to SNS.
// Alerting is strictly best effort: a publish failure is logged and never
// fails the scan that produced the finding.
package alert

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rs/zerolog"

	"github.com/manuvikash/Thanos/pkg/models/domain"
)

// API is the subset of the SNS client the notifier uses.
type API interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// maxSubjectLen is the SNS cap on email subject length.
const maxSubjectLen = 100

type Notifier interface {
	// NotifyFindings publishes an alert for every high-severity finding and
	// returns the number of alerts published.
	NotifyFindings(ctx context.Context, findings []*domain.Finding) int
}

type snsNotifier struct {
	client   API
	topicARN string
}

// NewNotifier returns an SNS-backed notifier, or a no-op one when topicARN
// is empty so scans keep working on stacks without an alert topic.
func NewNotifier(client API, topicARN string) Notifier {
	if topicARN == "" {
		return noopNotifier{}
	}
	return &snsNotifier{client: client, topicARN: topicARN}
}

type message struct {
	TenantID    string `json:"tenant_id"`
	RuleID      string `json:"rule_id"`
	ResourceARN string `json:"resource_arn"`
	Severity    string `json:"severity"`
	Timestamp   string `json:"timestamp"`
	Message     string `json:"message"`
	SnapshotKey string `json:"snapshot_key,omitempty"`
}

func (n *snsNotifier) NotifyFindings(ctx context.Context, findings []*domain.Finding) int {
	logger := zerolog.Ctx(ctx)

	published := 0
	for _, finding := range findings {
		if finding.Severity != domain.SeverityHigh {
			continue
		}

		subject := "[CRITICAL] Finding: " + finding.RuleID
		if len(subject) > maxSubjectLen {
			subject = subject[:maxSubjectLen]
		}

		body, err := json.Marshal(message{
			TenantID:    finding.TenantID,
			RuleID:      finding.RuleID,
			ResourceARN: finding.ResourceARN,
			Severity:    string(finding.Severity),
			Timestamp:   finding.Timestamp.UTC().Format(time.RFC3339),
			Message:     finding.Message,
			SnapshotKey: finding.SnapshotKey,
		})
		if err != nil {
			logger.Error().Err(err).Str("finding", finding.FindingID).Msg("marshaling alert failed")
			continue
		}

		_, err = n.client.Publish(ctx, &sns.PublishInput{
			TopicArn: &n.topicARN,
			Subject:  aws.String(subject),
			Message:  aws.String(string(body)),
		})
		if err != nil {
			logger.Error().Err(err).Str("finding", finding.FindingID).Msg("publishing alert failed")
			continue
		}
		published++
	}
	return published
}

type noopNotifier struct{}

func (noopNotifier) NotifyFindings(context.Context, []*domain.Finding) int { return 0 }
