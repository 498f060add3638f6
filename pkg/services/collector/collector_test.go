package collector

import (
	"context"
	"net/url"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manuvikash/Thanos/pkg/models/domain"
)

type fakeS3 struct {
	buckets []s3types.Bucket
	pab     map[string]*s3types.PublicAccessBlockConfiguration
}

func (f *fakeS3) ListBuckets(context.Context, *s3.ListBucketsInput, ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	return &s3.ListBucketsOutput{Buckets: f.buckets}, nil
}

func (f *fakeS3) GetPublicAccessBlock(_ context.Context, params *s3.GetPublicAccessBlockInput, _ ...func(*s3.Options)) (*s3.GetPublicAccessBlockOutput, error) {
	cfg, ok := f.pab[*params.Bucket]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchPublicAccessBlockConfiguration"}
	}
	return &s3.GetPublicAccessBlockOutput{PublicAccessBlockConfiguration: cfg}, nil
}

type fakeIAM struct {
	policies  []iamtypes.Policy
	documents map[string]string
}

func (f *fakeIAM) ListPolicies(context.Context, *iam.ListPoliciesInput, ...func(*iam.Options)) (*iam.ListPoliciesOutput, error) {
	return &iam.ListPoliciesOutput{Policies: f.policies, IsTruncated: false}, nil
}

func (f *fakeIAM) GetPolicyVersion(_ context.Context, params *iam.GetPolicyVersionInput, _ ...func(*iam.Options)) (*iam.GetPolicyVersionOutput, error) {
	doc := f.documents[*params.PolicyArn]
	return &iam.GetPolicyVersionOutput{
		PolicyVersion: &iamtypes.PolicyVersion{Document: &doc},
	}, nil
}

type fakeEC2 struct {
	groups  []ec2types.SecurityGroup
	regions []string
}

func (f *fakeEC2) DescribeSecurityGroups(context.Context, *ec2.DescribeSecurityGroupsInput, ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error) {
	return &ec2.DescribeSecurityGroupsOutput{SecurityGroups: f.groups}, nil
}

type fakeFactory struct {
	s3  *fakeS3
	iam *fakeIAM
	ec2 *fakeEC2
}

func (f *fakeFactory) S3(string) S3API { return f.s3 }

func (f *fakeFactory) IAM(string) IAMAPI { return f.iam }

func (f *fakeFactory) EC2(region string) EC2API {
	f.ec2.regions = append(f.ec2.regions, region)
	return f.ec2
}

func testTenant() domain.Tenant {
	return domain.Tenant{
		ID:        "tenant-1",
		AccountID: "123456789012",
		RoleARN:   "arn:aws:iam::123456789012:role/scanner",
		Regions:   []string{"us-west-1", "us-east-1"},
	}
}

func TestCollect(t *testing.T) {
	policyDoc := url.QueryEscape(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Action":"*","Resource":"*"}]}`)
	factory := &fakeFactory{
		s3: &fakeS3{
			buckets: []s3types.Bucket{{Name: aws.String("locked")}, {Name: aws.String("open")}},
			pab: map[string]*s3types.PublicAccessBlockConfiguration{
				"locked": {
					BlockPublicAcls:       aws.Bool(true),
					IgnorePublicAcls:      aws.Bool(true),
					BlockPublicPolicy:     aws.Bool(true),
					RestrictPublicBuckets: aws.Bool(true),
				},
			},
		},
		iam: &fakeIAM{
			policies: []iamtypes.Policy{{
				Arn:              aws.String("arn:aws:iam::123456789012:policy/admin"),
				PolicyName:       aws.String("admin"),
				DefaultVersionId: aws.String("v3"),
			}},
			documents: map[string]string{
				"arn:aws:iam::123456789012:policy/admin": policyDoc,
			},
		},
		ec2: &fakeEC2{
			groups: []ec2types.SecurityGroup{{
				GroupId:   aws.String("sg-1"),
				GroupName: aws.String("web"),
				VpcId:     aws.String("vpc-1"),
				IpPermissions: []ec2types.IpPermission{{
					IpProtocol: aws.String("tcp"),
					FromPort:   aws.Int32(22),
					ToPort:     aws.Int32(22),
					IpRanges:   []ec2types.IpRange{{CidrIp: aws.String("0.0.0.0/0")}},
				}},
				Tags: []ec2types.Tag{{Key: aws.String("env"), Value: aws.String("prod")}},
			}},
		},
	}

	resources, err := New(factory).Collect(context.Background(), testTenant())
	require.NoError(t, err)

	// 2 buckets + 1 policy once, 1 security group per region.
	require.Len(t, resources, 5)
	for _, r := range resources {
		assert.Equal(t, "tenant-1", r.TenantID)
		assert.Equal(t, "123456789012", r.AccountID)
	}
	assert.Equal(t, []string{"us-west-1", "us-east-1"}, factory.ec2.regions)

	byARN := map[string]*domain.Resource{}
	for _, r := range resources {
		byARN[r.ARN] = r
	}

	locked := byARN["arn:aws:s3:::locked"]
	require.NotNil(t, locked)
	pab := locked.Config["PublicAccessBlockConfiguration"].(map[string]any)
	assert.Equal(t, true, pab["BlockPublicAcls"])

	open := byARN["arn:aws:s3:::open"]
	require.NotNil(t, open)
	pab = open.Config["PublicAccessBlockConfiguration"].(map[string]any)
	assert.Equal(t, false, pab["BlockPublicAcls"])

	policy := byARN["arn:aws:iam::123456789012:policy/admin"]
	require.NotNil(t, policy)
	document := policy.Config["PolicyDocument"].(map[string]any)
	assert.Equal(t, "2012-10-17", document["Version"])
	statement := document["Statement"].([]any)[0].(map[string]any)
	assert.Equal(t, "*", statement["Action"])

	sg := byARN["arn:aws:ec2:us-west-1:123456789012:security-group/sg-1"]
	require.NotNil(t, sg)
	permissions := sg.Config["IpPermissions"].([]any)
	require.Len(t, permissions, 1)
	permission := permissions[0].(map[string]any)
	assert.Equal(t, 22, permission["FromPort"])
	ranges := permission["IpRanges"].([]any)
	assert.Equal(t, "0.0.0.0/0", ranges[0].(map[string]any)["CidrIp"])
	tags := sg.Metadata["Tags"].([]any)
	assert.Equal(t, map[string]any{"Key": "env", "Value": "prod"}, tags[0])
}

func TestCollect_NoRegions(t *testing.T) {
	_, err := New(&fakeFactory{}).Collect(context.Background(), domain.Tenant{ID: "tenant-1"})
	assert.ErrorContains(t, err, "no regions configured")
}
