// Package inventory implements the resource inventory store on DynamoDB.
// Rows are keyed by snapshot; GSI1 serves per-type queries ordered by drift
// and GSI2 serves per-status queries ordered by evaluation time.
package inventory

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
	inventorystore "github.com/manuvikash/Thanos/pkg/store/inventory"
)

type API interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

const batchWriteLimit = 25

const (
	gsi1Name = "GSI1"
	gsi2Name = "GSI2"
)

type store struct {
	client API
	table  string
}

func NewStore(client API, table string) (inventorystore.Store, error) {
	if client == nil {
		return nil, fmt.Errorf("dynamodb client is nil")
	}
	if table == "" {
		return nil, fmt.Errorf("table name is required")
	}
	return &store{client: client, table: table}, nil
}

func (s *store) PutResources(ctx context.Context, resources []*domain.Resource) error {
	if len(resources) == 0 {
		return nil
	}

	requests := make([]types.WriteRequest, 0, len(resources))
	for _, resource := range resources {
		av, err := attributevalue.MarshalMap(adapters.MapDomainResourceToStore(*resource))
		if err != nil {
			return fmt.Errorf("marshaling resource %s: %w", resource.ARN, err)
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
				return fmt.Errorf("writing resources batch: %w", err)
			}
			batch = out.UnprocessedItems[s.table]
		}
	}
	return nil
}

func (s *store) ListBySnapshot(ctx context.Context, tenantID, snapshotKey string, limit int) ([]domain.Resource, error) {
	input := &dynamodb.QueryInput{
		TableName:              &s.table,
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: tenantID + "#" + snapshotKey},
		},
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	out, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("querying resources for snapshot %s: %w", snapshotKey, err)
	}
	return unmarshalResources(out.Items)
}

func (s *store) ListByCompliance(ctx context.Context, tenantID string, status domain.ComplianceStatus, limit int) ([]domain.Resource, error) {
	input := &dynamodb.QueryInput{
		TableName:              &s.table,
		IndexName:              aws.String(gsi2Name),
		KeyConditionExpression: aws.String("GSI2PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: tenantID + "#" + string(status)},
		},
		// Most recently evaluated first.
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	out, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("querying %s resources for tenant %s: %w", status, tenantID, err)
	}
	return unmarshalResources(out.Items)
}

func (s *store) ListByType(ctx context.Context, tenantID, resourceType string, limit int) ([]domain.Resource, error) {
	input := &dynamodb.QueryInput{
		TableName:              &s.table,
		IndexName:              aws.String(gsi1Name),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: tenantID + "#" + resourceType},
		},
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	out, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("querying %s resources for tenant %s: %w", resourceType, tenantID, err)
	}
	return unmarshalResources(out.Items)
}

func unmarshalResources(items []map[string]types.AttributeValue) ([]domain.Resource, error) {
	resources := make([]domain.Resource, 0, len(items))
	for _, raw := range items {
		var item storemodels.ResourceItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("unmarshaling resource: %w", err)
		}
		resources = append(resources, adapters.MapStoreResourceToDomain(item))
	}
	return resources, nil
}
