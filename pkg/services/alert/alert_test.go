package alert

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manuvikash/Thanos/pkg/models/domain"
)

type fakeSNS struct {
	published []sns.PublishInput
	err       error
}

func (f *fakeSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.published = append(f.published, *params)
	return &sns.PublishOutput{}, nil
}

func TestNotifyFindings_HighSeverityOnly(t *testing.T) {
	client := &fakeSNS{}
	notifier := NewNotifier(client, "arn:aws:sns:us-west-1:123456789012:alerts")

	findings := []*domain.Finding{
		{FindingID: "f-1", RuleID: "hierarchical-config", TenantID: "tenant-1",
			Severity: domain.SeverityHigh, Timestamp: time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)},
		{FindingID: "f-2", RuleID: "hierarchical-config", Severity: domain.SeverityLow},
		{FindingID: "f-3", RuleID: "hierarchical-config", Severity: domain.SeverityMedium},
	}

	published := notifier.NotifyFindings(context.Background(), findings)
	assert.Equal(t, 1, published)
	require.Len(t, client.published, 1)

	msg := client.published[0]
	assert.Equal(t, "[CRITICAL] Finding: hierarchical-config", *msg.Subject)
	assert.Contains(t, *msg.Message, `"tenant_id":"tenant-1"`)
	assert.Contains(t, *msg.Message, `"timestamp":"2026-01-15T09:30:00Z"`)
}

func TestNotifyFindings_SubjectTruncated(t *testing.T) {
	client := &fakeSNS{}
	notifier := NewNotifier(client, "arn:aws:sns:us-west-1:123456789012:alerts")

	notifier.NotifyFindings(context.Background(), []*domain.Finding{
		{RuleID: strings.Repeat("x", 200), Severity: domain.SeverityHigh},
	})

	require.Len(t, client.published, 1)
	assert.Len(t, *client.published[0].Subject, 100)
}

func TestNotifyFindings_PublishFailureDoesNotAbort(t *testing.T) {
	notifier := NewNotifier(&fakeSNS{err: errors.New("throttled")}, "arn:aws:sns:us-west-1:123456789012:alerts")

	published := notifier.NotifyFindings(context.Background(), []*domain.Finding{
		{FindingID: "f-1", Severity: domain.SeverityHigh},
		{FindingID: "f-2", Severity: domain.SeverityHigh},
	})
	assert.Equal(t, 0, published)
}

func TestNewNotifier_NoTopic(t *testing.T) {
	notifier := NewNotifier(nil, "")
	published := notifier.NotifyFindings(context.Background(), []*domain.Finding{
		{Severity: domain.SeverityHigh},
	})
	assert.Equal(t, 0, published)
}
