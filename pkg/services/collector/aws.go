package collector

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/manuvikash/Thanos/pkg/models/domain"
)

type awsClients struct {
	cfg aws.Config
}

// NewClientFactory builds real AWS service clients from the given config.
// Pair it with AssumeRoleConfig to scan a tenant account.
func NewClientFactory(cfg aws.Config) ClientFactory {
	return &awsClients{cfg: cfg}
}

func (f *awsClients) S3(region string) S3API {
	return s3.NewFromConfig(f.cfg, func(o *s3.Options) { o.Region = region })
}

func (f *awsClients) IAM(region string) IAMAPI {
	return iam.NewFromConfig(f.cfg, func(o *iam.Options) { o.Region = region })
}

func (f *awsClients) EC2(region string) EC2API {
	return ec2.NewFromConfig(f.cfg, func(o *ec2.Options) { o.Region = region })
}

// TenantCollector builds a role-scoped collector per tenant. Tenants without
// a role ARN are scanned with the base credentials.
type TenantCollector struct {
	base aws.Config
}

func NewTenantCollector(base aws.Config) *TenantCollector {
	return &TenantCollector{base: base}
}

func (tc *TenantCollector) Collect(ctx context.Context, tenant domain.Tenant) ([]*domain.Resource, error) {
	cfg := tc.base
	if tenant.RoleARN != "" {
		cfg = AssumeRoleConfig(tc.base, tenant.RoleARN, "thanos-scan-"+tenant.ID)
	}
	return New(NewClientFactory(cfg)).Collect(ctx, tenant)
}

// AssumeRoleConfig derives a config whose credentials come from assuming
// roleARN via STS. Credentials are cached and refreshed automatically.
func AssumeRoleConfig(base aws.Config, roleARN, sessionName string) aws.Config {
	stsClient := sts.NewFromConfig(base)
	provider := stscreds.NewAssumeRoleProvider(stsClient, roleARN, func(o *stscreds.AssumeRoleOptions) {
		o.RoleSessionName = sessionName
	})

	cfg := base.Copy()
	cfg.Credentials = aws.NewCredentialsCache(provider)
	return cfg
}
