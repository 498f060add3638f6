// Package config loads tenant profiles from an ini-style profiles file. Each
// section is one tenant:
//
//	[tenant-1]
//	account_id = 123456789012
//	role_arn   = arn:aws:iam::123456789012:role/compliance-scan
//	regions    = us-west-1, us-west-2
package config

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/manuvikash/Thanos/pkg/models/domain"
)

type Registry interface {
	GetTenants(ctx context.Context) ([]string, error)
	GetTenant(ctx context.Context, id string) (*domain.Tenant, error)
}

type tenantRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &tenantRegistry{cfg: cfg}, nil
}

func (tr *tenantRegistry) GetTenants(_ context.Context) ([]string, error) {
	var tenants []string
	for _, section := range tr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			tenants = append(tenants, section.Name())
		}
	}
	return tenants, nil
}

func (tr *tenantRegistry) GetTenant(_ context.Context, id string) (*domain.Tenant, error) {
	section, err := tr.cfg.GetSection(id)
	if err != nil {
		return nil, fmt.Errorf("tenant %s not found", id)
	}

	tenant := &domain.Tenant{
		ID:        id,
		AccountID: section.Key("account_id").String(),
		RoleARN:   section.Key("role_arn").String(),
	}
	for _, region := range strings.Split(section.Key("regions").String(), ",") {
		region = strings.TrimSpace(region)
		if region != "" {
			tenant.Regions = append(tenant.Regions, region)
		}
	}
	if tenant.AccountID == "" {
		return nil, fmt.Errorf("tenant %s has no account_id", id)
	}
	if len(tenant.Regions) == 0 {
		return nil, fmt.Errorf("tenant %s has no regions", id)
	}
	return tenant, nil
}
