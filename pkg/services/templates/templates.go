// Package templates ships the built-in desired-configuration templates and
// layers tenant-defined templates from the config store on top of them.
package templates

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/manuvikash/Thanos/pkg/models/domain"
	"github.com/manuvikash/Thanos/pkg/services/confmerge"
)

// Store is the slice of the config store the template service needs. An
// empty resource type lists every custom template.
type Store interface {
	ListTemplates(ctx context.Context, resourceType string) ([]domain.ConfigTemplate, error)
	PutTemplate(ctx context.Context, tpl *domain.ConfigTemplate) error
}

var builtin = []domain.ConfigTemplate{
	{
		TemplateID:   "s3-secure-baseline",
		Name:         "S3 Secure Baseline",
		ResourceType: "AWS::S3::Bucket",
		Description:  "Basic security configuration for S3 buckets with public access blocked and AES256 encryption",
		Category:     "security",
		DesiredConfig: map[string]any{
			"PublicAccessBlockConfiguration": map[string]any{
				"BlockPublicAcls":       true,
				"IgnorePublicAcls":      true,
				"BlockPublicPolicy":     true,
				"RestrictPublicBuckets": true,
			},
			"ServerSideEncryptionConfiguration": map[string]any{
				"Rules": []any{map[string]any{
					"ApplyServerSideEncryptionByDefault": map[string]any{
						"SSEAlgorithm": "AES256",
					},
					"BucketKeyEnabled": true,
				}},
			},
		},
	},
	{
		TemplateID:   "s3-production",
		Name:         "S3 Production Configuration",
		ResourceType: "AWS::S3::Bucket",
		Description:  "Production-grade S3 configuration with KMS encryption, versioning, and lifecycle policies",
		Category:     "security",
		DesiredConfig: map[string]any{
			"PublicAccessBlockConfiguration": map[string]any{
				"BlockPublicAcls":       true,
				"IgnorePublicAcls":      true,
				"BlockPublicPolicy":     true,
				"RestrictPublicBuckets": true,
			},
			"ServerSideEncryptionConfiguration": map[string]any{
				"Rules": []any{map[string]any{
					"ApplyServerSideEncryptionByDefault": map[string]any{
						"SSEAlgorithm": "aws:kms",
					},
					"BucketKeyEnabled": true,
				}},
			},
			"VersioningConfiguration": map[string]any{
				"Status": "Enabled",
			},
			"LifecycleConfiguration": map[string]any{
				"Rules": []any{map[string]any{
					"Status": "Enabled",
					"Transitions": []any{map[string]any{
						"Days":         90,
						"StorageClass": "GLACIER",
					}},
				}},
			},
		},
	},
	{
		TemplateID:   "iam-least-privilege",
		Name:         "IAM Least Privilege Policy",
		ResourceType: "AWS::IAM::Policy",
		Description:  "IAM policy template enforcing least privilege - no wildcard actions or sensitive operations",
		Category:     "security",
		DesiredConfig: map[string]any{
			"PolicyDocument": map[string]any{
				"Version":   "2012-10-17",
				"Statement": []any{},
			},
		},
	},
	{
		TemplateID:   "sg-restricted",
		Name:         "Security Group - Restricted Access",
		ResourceType: "AWS::EC2::SecurityGroup",
		Description:  "Security group with no SSH/RDP from internet, restricted to internal networks",
		Category:     "security",
		DesiredConfig: map[string]any{
			"IpPermissions": []any{},
		},
	},
	{
		TemplateID:   "ec2-secure-baseline",
		Name:         "EC2 Secure Baseline",
		ResourceType: "AWS::EC2::Instance",
		Description:  "Secure EC2 instance configuration with IMDSv2, EBS encryption, and monitoring",
		Category:     "security",
		DesiredConfig: map[string]any{
			"MetadataOptions": map[string]any{
				"HttpTokens":              "required",
				"HttpPutResponseHopLimit": 1,
			},
			"Monitoring": map[string]any{
				"State": "enabled",
			},
		},
	},
	{
		TemplateID:   "rds-secure-baseline",
		Name:         "RDS Secure Baseline",
		ResourceType: "AWS::RDS::DBInstance",
		Description:  "Secure RDS configuration with encryption, automated backups, and private access",
		Category:     "security",
		DesiredConfig: map[string]any{
			"StorageEncrypted":            true,
			"BackupRetentionPeriod":       7,
			"PubliclyAccessible":          false,
			"EnableCloudwatchLogsExports": []any{"error", "general", "slowquery"},
			"DeletionProtection":          true,
		},
	},
	{
		TemplateID:   "lambda-secure-baseline",
		Name:         "Lambda Secure Baseline",
		ResourceType: "AWS::Lambda::Function",
		Description:  "Secure Lambda configuration with environment encryption and VPC access",
		Category:     "security",
		DesiredConfig: map[string]any{
			"TracingConfig": map[string]any{
				"Mode": "Active",
			},
			"Environment": map[string]any{
				"Variables": map[string]any{},
			},
		},
	},
}

// Builtin returns copies of the shipped templates so callers can mutate the
// desired config without touching the registry.
func Builtin() []domain.ConfigTemplate {
	out := make([]domain.ConfigTemplate, len(builtin))
	for i, t := range builtin {
		out[i] = copyTemplate(t)
	}
	return out
}

func copyTemplate(t domain.ConfigTemplate) domain.ConfigTemplate {
	t.DesiredConfig = confmerge.DeepMerge(t.DesiredConfig, nil)
	return t
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns built-in and custom templates, built-ins first, each set
// ordered by template ID. A custom template never shadows a built-in one;
// Create rejects the collision up front.
func (s *Service) List(ctx context.Context) ([]domain.ConfigTemplate, error) {
	templates := Builtin()
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].TemplateID < templates[j].TemplateID
	})

	custom, err := s.store.ListTemplates(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing custom templates: %w", err)
	}
	sort.Slice(custom, func(i, j int) bool {
		return custom[i].TemplateID < custom[j].TemplateID
	})
	return append(templates, custom...), nil
}

// Get resolves a template by ID, preferring built-ins. Returns nil when the
// template does not exist.
func (s *Service) Get(ctx context.Context, templateID string) (*domain.ConfigTemplate, error) {
	for _, t := range builtin {
		if t.TemplateID == templateID {
			out := copyTemplate(t)
			return &out, nil
		}
	}
	custom, err := s.store.ListTemplates(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing custom templates: %w", err)
	}
	for _, t := range custom {
		if t.TemplateID == templateID {
			return &t, nil
		}
	}
	return nil, nil
}

// ByResourceType returns every template applicable to the given type.
func (s *Service) ByResourceType(ctx context.Context, resourceType string) ([]domain.ConfigTemplate, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.ConfigTemplate
	for _, t := range all {
		if t.ResourceType == resourceType {
			out = append(out, t)
		}
	}
	return out, nil
}

// Create stores a custom template. Built-in IDs are reserved.
func (s *Service) Create(ctx context.Context, template domain.ConfigTemplate) (*domain.ConfigTemplate, error) {
	if template.TemplateID == "" {
		return nil, fmt.Errorf("template id is required")
	}
	if template.ResourceType == "" {
		return nil, fmt.Errorf("template %s: resource type is required", template.TemplateID)
	}
	if len(template.DesiredConfig) == 0 {
		return nil, fmt.Errorf("template %s: desired config is required", template.TemplateID)
	}
	for _, t := range builtin {
		if t.TemplateID == template.TemplateID {
			return nil, fmt.Errorf("template %s: id is reserved by a built-in template", template.TemplateID)
		}
	}

	now := time.Now().UTC()
	template.IsCustom = true
	template.CreatedAt = now
	template.UpdatedAt = now
	if err := s.store.PutTemplate(ctx, &template); err != nil {
		return nil, fmt.Errorf("storing template %s: %w", template.TemplateID, err)
	}
	return &template, nil
}
