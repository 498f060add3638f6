// Package collector gathers observed resource configurations from AWS and
// normalizes them into the shape the evaluators compare against. Collection
// is best effort: a service or region that fails is logged and skipped, so
// one broken permission never empties the whole scan.
package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"

	"github.com/manuvikash/Thanos/pkg/models/domain"
)

type S3API interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	GetPublicAccessBlock(ctx context.Context, params *s3.GetPublicAccessBlockInput, optFns ...func(*s3.Options)) (*s3.GetPublicAccessBlockOutput, error)
}

type IAMAPI interface {
	iam.ListPoliciesAPIClient
	GetPolicyVersion(ctx context.Context, params *iam.GetPolicyVersionInput, optFns ...func(*iam.Options)) (*iam.GetPolicyVersionOutput, error)
}

type EC2API interface {
	ec2.DescribeSecurityGroupsAPIClient
}

// ClientFactory builds region-scoped service clients carrying the tenant's
// assumed-role credentials.
type ClientFactory interface {
	S3(region string) S3API
	IAM(region string) IAMAPI
	EC2(region string) EC2API
}

type Collector struct {
	clients ClientFactory
}

func New(clients ClientFactory) *Collector {
	return &Collector{clients: clients}
}

// Collect walks the tenant's regions and returns every resource it could
// normalize. Global services (S3, IAM) are collected from the first region
// only.
func (c *Collector) Collect(ctx context.Context, tenant domain.Tenant) ([]*domain.Resource, error) {
	if len(tenant.Regions) == 0 {
		return nil, fmt.Errorf("tenant %s has no regions configured", tenant.ID)
	}
	logger := zerolog.Ctx(ctx)

	var resources []*domain.Resource
	for i, region := range tenant.Regions {
		if i == 0 {
			buckets := c.collectBuckets(ctx, tenant, region)
			logger.Info().Str("region", region).Int("count", len(buckets)).Msg("collected s3 buckets")
			resources = append(resources, buckets...)

			policies := c.collectPolicies(ctx, tenant, region)
			logger.Info().Str("region", region).Int("count", len(policies)).Msg("collected iam policies")
			resources = append(resources, policies...)
		}

		groups := c.collectSecurityGroups(ctx, tenant, region)
		logger.Info().Str("region", region).Int("count", len(groups)).Msg("collected security groups")
		resources = append(resources, groups...)
	}

	for _, r := range resources {
		r.TenantID = tenant.ID
	}
	return resources, nil
}

func (c *Collector) collectBuckets(ctx context.Context, tenant domain.Tenant, region string) []*domain.Resource {
	logger := zerolog.Ctx(ctx)
	client := c.clients.S3(region)

	out, err := client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		logger.Error().Err(err).Msg("listing s3 buckets failed")
		return nil
	}

	var resources []*domain.Resource
	for _, bucket := range out.Buckets {
		name := deref(bucket.Name)
		if name == "" {
			continue
		}

		// Absent configuration reads as all-off, matching what the console
		// shows for a bucket with no public access block.
		pab := map[string]any{
			"BlockPublicAcls":       false,
			"IgnorePublicAcls":      false,
			"BlockPublicPolicy":     false,
			"RestrictPublicBuckets": false,
		}
		pabOut, err := client.GetPublicAccessBlock(ctx, &s3.GetPublicAccessBlockInput{Bucket: bucket.Name})
		switch {
		case err == nil && pabOut.PublicAccessBlockConfiguration != nil:
			cfg := pabOut.PublicAccessBlockConfiguration
			pab["BlockPublicAcls"] = derefBool(cfg.BlockPublicAcls)
			pab["IgnorePublicAcls"] = derefBool(cfg.IgnorePublicAcls)
			pab["BlockPublicPolicy"] = derefBool(cfg.BlockPublicPolicy)
			pab["RestrictPublicBuckets"] = derefBool(cfg.RestrictPublicBuckets)
		case err != nil && !isErrorCode(err, "NoSuchPublicAccessBlockConfiguration"):
			logger.Warn().Err(err).Str("bucket", name).Msg("getting public access block failed")
		}

		resources = append(resources, &domain.Resource{
			ARN:          "arn:aws:s3:::" + name,
			ResourceType: "AWS::S3::Bucket",
			Config: map[string]any{
				"BucketName":                     name,
				"PublicAccessBlockConfiguration": pab,
			},
			Region:    region,
			AccountID: tenant.AccountID,
		})
	}
	return resources
}

func (c *Collector) collectPolicies(ctx context.Context, tenant domain.Tenant, region string) []*domain.Resource {
	logger := zerolog.Ctx(ctx)
	client := c.clients.IAM(region)

	var resources []*domain.Resource
	paginator := iam.NewListPoliciesPaginator(client, &iam.ListPoliciesInput{
		Scope:        iamtypes.PolicyScopeTypeLocal,
		OnlyAttached: false,
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("listing iam policies failed")
			return resources
		}

		for _, policy := range page.Policies {
			arn := deref(policy.Arn)
			versionOut, err := client.GetPolicyVersion(ctx, &iam.GetPolicyVersionInput{
				PolicyArn: policy.Arn,
				VersionId: policy.DefaultVersionId,
			})
			if err != nil {
				logger.Warn().Err(err).Str("policy", arn).Msg("getting policy version failed")
				continue
			}

			document, err := decodePolicyDocument(deref(versionOut.PolicyVersion.Document))
			if err != nil {
				logger.Warn().Err(err).Str("policy", arn).Msg("decoding policy document failed")
				continue
			}

			resources = append(resources, &domain.Resource{
				ARN:          arn,
				ResourceType: "AWS::IAM::Policy",
				Config: map[string]any{
					"PolicyName":     deref(policy.PolicyName),
					"PolicyDocument": document,
				},
				Region:    region,
				AccountID: tenant.AccountID,
			})
		}
	}
	return resources
}

func (c *Collector) collectSecurityGroups(ctx context.Context, tenant domain.Tenant, region string) []*domain.Resource {
	logger := zerolog.Ctx(ctx)
	client := c.clients.EC2(region)

	var resources []*domain.Resource
	paginator := ec2.NewDescribeSecurityGroupsPaginator(client, &ec2.DescribeSecurityGroupsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			logger.Error().Err(err).Str("region", region).Msg("describing security groups failed")
			return resources
		}

		for _, sg := range page.SecurityGroups {
			id := deref(sg.GroupId)
			arn := fmt.Sprintf("arn:aws:ec2:%s:%s:security-group/%s", region, tenant.AccountID, id)

			tags := make([]any, 0, len(sg.Tags))
			for _, tag := range sg.Tags {
				tags = append(tags, map[string]any{
					"Key":   deref(tag.Key),
					"Value": deref(tag.Value),
				})
			}

			resources = append(resources, &domain.Resource{
				ARN:          arn,
				ResourceType: "AWS::EC2::SecurityGroup",
				Config: map[string]any{
					"GroupId":             id,
					"GroupName":           deref(sg.GroupName),
					"VpcId":               deref(sg.VpcId),
					"IpPermissions":       normalizePermissions(sg.IpPermissions),
					"IpPermissionsEgress": normalizePermissions(sg.IpPermissionsEgress),
				},
				Region:    region,
				AccountID: tenant.AccountID,
				Metadata:  map[string]any{"Tags": tags},
			})
		}
	}
	return resources
}

// decodePolicyDocument unwraps the URL-encoded JSON the IAM API returns.
func decodePolicyDocument(encoded string) (map[string]any, error) {
	raw, err := url.QueryUnescape(encoded)
	if err != nil {
		return nil, fmt.Errorf("unescaping policy document: %w", err)
	}
	var document map[string]any
	if err := json.Unmarshal([]byte(raw), &document); err != nil {
		return nil, fmt.Errorf("parsing policy document: %w", err)
	}
	return document, nil
}

// normalizePermissions flattens SDK permission structs into the JSON shape
// the check evaluators and golden configs use.
func normalizePermissions(permissions []ec2types.IpPermission) []any {
	out := make([]any, 0, len(permissions))
	for _, p := range permissions {
		ranges := make([]any, 0, len(p.IpRanges))
		for _, r := range p.IpRanges {
			ipRange := map[string]any{"CidrIp": deref(r.CidrIp)}
			if r.Description != nil {
				ipRange["Description"] = *r.Description
			}
			ranges = append(ranges, ipRange)
		}

		permission := map[string]any{
			"IpProtocol": deref(p.IpProtocol),
			"IpRanges":   ranges,
		}
		if p.FromPort != nil {
			permission["FromPort"] = int(*p.FromPort)
		}
		if p.ToPort != nil {
			permission["ToPort"] = int(*p.ToPort)
		}
		out = append(out, permission)
	}
	return out
}

func isErrorCode(err error, code string) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == code
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefBool(b *bool) bool {
	return b != nil && *b
}
