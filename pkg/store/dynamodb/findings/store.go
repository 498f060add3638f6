// Package findings implements the findings store on DynamoDB. Rows are keyed
// by tenant with a timestamp sort key; GSI1 serves per-snapshot queries.
package findings

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/manuvikash/Thanos/pkg/adapters"
	"github.com/manuvikash/Thanos/pkg/models/domain"
	storemodels "github.com/manuvikash/Thanos/pkg/models/store"
	findingsstore "github.com/manuvikash/Thanos/pkg/store/findings"
)

type API interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// batchWriteLimit is the DynamoDB cap on items per BatchWriteItem call.
const batchWriteLimit = 25

const gsi1Name = "GSI1"

type store struct {
	client API
	table  string
}

func NewStore(client API, table string) (findingsstore.Store, error) {
	if client == nil {
		return nil, fmt.Errorf("dynamodb client is nil")
	}
	if table == "" {
		return nil, fmt.Errorf("table name is required")
	}
	return &store{client: client, table: table}, nil
}

func (s *store) PutFindings(ctx context.Context, items []*domain.Finding) error {
	if len(items) == 0 {
		return nil
	}

	requests := make([]types.WriteRequest, 0, len(items))
	for _, finding := range items {
		av, err := attributevalue.MarshalMap(adapters.MapDomainFindingToStore(*finding))
		if err != nil {
			return fmt.Errorf("marshaling finding %s: %w", finding.FindingID, err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: av},
		})
	}

	for start := 0; start < len(requests); start += batchWriteLimit {
		end := min(start+batchWriteLimit, len(requests))
		batch := requests[start:end]
		for len(batch) > 0 {
			out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{s.table: batch},
			})
			if err != nil {
				return fmt.Errorf("writing findings batch: %w", err)
			}
			batch = out.UnprocessedItems[s.table]
		}
	}
	return nil
}

func (s *store) ListByTenant(ctx context.Context, tenantID string, limit int) ([]domain.Finding, error) {
	input := &dynamodb.QueryInput{
		TableName:              &s.table,
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: "TENANT#" + tenantID},
		},
		// Most recent first.
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	out, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("querying findings for tenant %s: %w", tenantID, err)
	}
	return unmarshalFindings(out.Items)
}

func (s *store) ListBySnapshot(ctx context.Context, tenantID, snapshotKey string, limit int) ([]domain.Finding, error) {
	input := &dynamodb.QueryInput{
		TableName:              &s.table,
		IndexName:              aws.String(gsi1Name),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: tenantID + "#" + snapshotKey},
		},
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	out, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("querying findings for snapshot %s: %w", snapshotKey, err)
	}
	return unmarshalFindings(out.Items)
}

func (s *store) UpdateStatus(ctx context.Context, tenantID, findingID string, status domain.FindingStatus) error {
	// The sort key embeds the timestamp, so locate the row first.
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.table,
		KeyConditionExpression: aws.String("PK = :pk"),
		FilterExpression:       aws.String("finding_id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: "TENANT#" + tenantID},
			":id": &types.AttributeValueMemberS{Value: findingID},
		},
	})
	if err != nil {
		return fmt.Errorf("locating finding %s: %w", findingID, err)
	}
	if len(out.Items) == 0 {
		return fmt.Errorf("finding %s not found for tenant %s", findingID, tenantID)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &s.table,
		Key: map[string]types.AttributeValue{
			"PK": out.Items[0]["PK"],
			"SK": out.Items[0]["SK"],
		},
		UpdateExpression:         aws.String("SET #status = :status"),
		ExpressionAttributeNames: map[string]string{"#status": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
		},
	})
	if err != nil {
		return fmt.Errorf("updating finding %s status: %w", findingID, err)
	}
	return nil
}

func unmarshalFindings(items []map[string]types.AttributeValue) ([]domain.Finding, error) {
	findings := make([]domain.Finding, 0, len(items))
	for _, raw := range items {
		var item storemodels.FindingItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("unmarshaling finding: %w", err)
		}
		findings = append(findings, adapters.MapStoreFindingToDomain(item))
	}
	return findings, nil
}
