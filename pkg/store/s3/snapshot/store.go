// Package snapshot persists point-in-time resource captures to S3 and reads
// rule packs and past captures back. Snapshots are immutable once written.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/manuvikash/Thanos/pkg/models/domain"
)

// API is the subset of the S3 client the store uses.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

const keyTimeFormat = "20060102-150405"

type Store struct {
	client API
	bucket string
}

func NewStore(client API, bucket string) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	return &Store{client: client, bucket: bucket}, nil
}

// record is the snapshot wire format. It carries the observed state only;
// evaluation results live in the inventory table.
type record struct {
	ARN          string         `json:"arn"`
	ResourceType string         `json:"resource_type"`
	Config       map[string]any `json:"config"`
	Region       string         `json:"region"`
	AccountID    string         `json:"account_id"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	TenantID     string         `json:"tenant_id"`
}

// Write stores a snapshot of the given resources and returns its key,
// tenants/<tenant>/snapshots/<timestamp>/resources.json.
func (s *Store) Write(ctx context.Context, tenantID string, resources []*domain.Resource, at time.Time) (string, error) {
	records := make([]record, 0, len(resources))
	for _, r := range resources {
		records = append(records, record{
			ARN:          r.ARN,
			ResourceType: r.ResourceType,
			Config:       r.Config,
			Region:       r.Region,
			AccountID:    r.AccountID,
			Metadata:     r.Metadata,
			TenantID:     r.TenantID,
		})
	}

	body, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot for tenant %s: %w", tenantID, err)
	}

	key := fmt.Sprintf("tenants/%s/snapshots/%s/resources.json", tenantID, at.UTC().Format(keyTimeFormat))
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("writing snapshot s3://%s/%s: %w", s.bucket, key, err)
	}
	return key, nil
}

// Read loads a previously written snapshot.
func (s *Store) Read(ctx context.Context, key string) ([]*domain.Resource, error) {
	data, err := s.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", key, err)
	}

	resources := make([]*domain.Resource, 0, len(records))
	for _, r := range records {
		resources = append(resources, &domain.Resource{
			ARN:          r.ARN,
			ResourceType: r.ResourceType,
			Config:       r.Config,
			Region:       r.Region,
			AccountID:    r.AccountID,
			Metadata:     r.Metadata,
			TenantID:     r.TenantID,
			SnapshotKey:  key,
		})
	}
	return resources, nil
}

// Fetch returns a raw object from the snapshot bucket. It also serves rule
// packs stored under tenants/<tenant>/rules.yaml.
func (s *Store) Fetch(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("reading s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading s3://%s/%s body: %w", s.bucket, key, err)
	}
	return data, nil
}

// RulesKey is the per-tenant rule pack location within the bucket.
func RulesKey(tenantID string) string {
	return fmt.Sprintf("tenants/%s/rules.yaml", tenantID)
}
