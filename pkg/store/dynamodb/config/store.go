// Package config implements the configuration store on a DynamoDB single
// table. Base configs, groups, templates and resolutions share the table,
// keyed by a typed PK prefix; GSI1 indexes all of them by resource type.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/manuvikash/Thanos/pkg/adapters"
	"github.com/manuvikash/Thanos/pkg/models/domain"
	storemodels "github.com/manuvikash/Thanos/pkg/models/store"
	configstore "github.com/manuvikash/Thanos/pkg/store/config"
)

// API is the subset of the DynamoDB client the store uses.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

const gsi1Name = "GSI1"

type store struct {
	client API
	table  string
}

func NewStore(client API, table string) (configstore.Store, error) {
	if client == nil {
		return nil, fmt.Errorf("dynamodb client is nil")
	}
	if table == "" {
		return nil, fmt.Errorf("table name is required")
	}
	return &store{client: client, table: table}, nil
}

func (s *store) GetBaseConfig(ctx context.Context, resourceType string) (*domain.BaseConfig, error) {
	// The newest version sorts last, so query descending and take the first
	// item.
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.table,
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: "BASE_CONFIG#" + resourceType},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("querying base config for %s: %w", resourceType, err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}

	var item storemodels.BaseConfigItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &item); err != nil {
		return nil, fmt.Errorf("unmarshaling base config for %s: %w", resourceType, err)
	}
	cfg := adapters.MapStoreBaseConfigToDomain(item)
	return &cfg, nil
}

func (s *store) PutBaseConfig(ctx context.Context, cfg *domain.BaseConfig) error {
	if cfg.Version == "" {
		cfg.Version = domain.DefaultConfigVersion
	}
	now := time.Now().UTC()
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = now
	}
	cfg.UpdatedAt = now

	av, err := attributevalue.MarshalMap(adapters.MapDomainBaseConfigToStore(*cfg))
	if err != nil {
		return fmt.Errorf("marshaling base config for %s: %w", cfg.ResourceType, err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &s.table, Item: av}); err != nil {
		return fmt.Errorf("storing base config for %s: %w", cfg.ResourceType, err)
	}
	return nil
}

func (s *store) ListBaseConfigs(ctx context.Context) ([]domain.BaseConfig, error) {
	items, err := s.scanByKeyPrefix(ctx, "BASE_CONFIG#")
	if err != nil {
		return nil, fmt.Errorf("listing base configs: %w", err)
	}

	configs := make([]domain.BaseConfig, 0, len(items))
	for _, raw := range items {
		var item storemodels.BaseConfigItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("unmarshaling base config: %w", err)
		}
		configs = append(configs, adapters.MapStoreBaseConfigToDomain(item))
	}
	return configs, nil
}

func (s *store) ListGroups(ctx context.Context, resourceType string) ([]domain.ResourceGroup, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.table,
		IndexName:              aws.String(gsi1Name),
		KeyConditionExpression: aws.String("GSI1PK = :rt"),
		FilterExpression:       aws.String("begins_with(PK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":rt":     &types.AttributeValueMemberS{Value: resourceType},
			":prefix": &types.AttributeValueMemberS{Value: "GROUP#"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("querying groups for %s: %w", resourceType, err)
	}

	groups := make([]domain.ResourceGroup, 0, len(out.Items))
	for _, raw := range out.Items {
		var item storemodels.ResourceGroupItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("unmarshaling group: %w", err)
		}
		groups = append(groups, adapters.MapStoreResourceGroupToDomain(item))
	}
	return groups, nil
}

func (s *store) GetGroup(ctx context.Context, groupID string) (*domain.ResourceGroup, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.table,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: "GROUP#" + groupID},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting group %s: %w", groupID, err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var item storemodels.ResourceGroupItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshaling group %s: %w", groupID, err)
	}
	group := adapters.MapStoreResourceGroupToDomain(item)
	return &group, nil
}

func (s *store) PutGroup(ctx context.Context, group *domain.ResourceGroup) error {
	now := time.Now().UTC()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = now
	}
	group.UpdatedAt = now

	av, err := attributevalue.MarshalMap(adapters.MapDomainResourceGroupToStore(*group))
	if err != nil {
		return fmt.Errorf("marshaling group %s: %w", group.GroupID, err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &s.table, Item: av}); err != nil {
		return fmt.Errorf("storing group %s: %w", group.GroupID, err)
	}
	return nil
}

func (s *store) DeleteGroup(ctx context.Context, groupID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.table,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: "GROUP#" + groupID},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		return fmt.Errorf("deleting group %s: %w", groupID, err)
	}
	return nil
}

func (s *store) GetResolutions(ctx context.Context, resourceARN string) (map[string]any, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.table,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: "RESOURCE#" + resourceARN},
			"SK": &types.AttributeValueMemberS{Value: "CONFLICT_RESOLUTION"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting resolutions for %s: %w", resourceARN, err)
	}
	if out.Item == nil {
		return map[string]any{}, nil
	}

	var item storemodels.ResolutionItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshaling resolutions for %s: %w", resourceARN, err)
	}
	if item.Resolutions == nil {
		return map[string]any{}, nil
	}
	return item.Resolutions, nil
}

func (s *store) PutResolutions(ctx context.Context, resourceARN string, resolutions map[string]any) error {
	item := adapters.MapResolutionsToStore(resourceARN, resolutions, time.Now().UTC())
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshaling resolutions for %s: %w", resourceARN, err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &s.table, Item: av}); err != nil {
		return fmt.Errorf("storing resolutions for %s: %w", resourceARN, err)
	}
	return nil
}

func (s *store) ListTemplates(ctx context.Context, resourceType string) ([]domain.ConfigTemplate, error) {
	var items []map[string]types.AttributeValue
	var err error

	if resourceType != "" {
		var out *dynamodb.QueryOutput
		out, err = s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              &s.table,
			IndexName:              aws.String(gsi1Name),
			KeyConditionExpression: aws.String("GSI1PK = :rt AND GSI1SK = :sk"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":rt": &types.AttributeValueMemberS{Value: resourceType},
				":sk": &types.AttributeValueMemberS{Value: "TEMPLATE"},
			},
		})
		if out != nil {
			items = out.Items
		}
	} else {
		items, err = s.scanByKeyPrefix(ctx, "TEMPLATE#")
	}
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	templates := make([]domain.ConfigTemplate, 0, len(items))
	for _, raw := range items {
		var item storemodels.ConfigTemplateItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("unmarshaling template: %w", err)
		}
		templates = append(templates, adapters.MapStoreConfigTemplateToDomain(item))
	}
	return templates, nil
}

func (s *store) PutTemplate(ctx context.Context, tpl *domain.ConfigTemplate) error {
	now := time.Now().UTC()
	if tpl.CreatedAt.IsZero() {
		tpl.CreatedAt = now
	}
	tpl.UpdatedAt = now

	av, err := attributevalue.MarshalMap(adapters.MapDomainConfigTemplateToStore(*tpl))
	if err != nil {
		return fmt.Errorf("marshaling template %s: %w", tpl.TemplateID, err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &s.table, Item: av}); err != nil {
		return fmt.Errorf("storing template %s: %w", tpl.TemplateID, err)
	}
	return nil
}

func (s *store) scanByKeyPrefix(ctx context.Context, prefix string) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        &s.table,
			FilterExpression: aws.String("begins_with(PK, :prefix)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":prefix": &types.AttributeValueMemberS{Value: prefix},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		items = append(items, out.Items...)
		if out.LastEvaluatedKey == nil {
			return items, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
