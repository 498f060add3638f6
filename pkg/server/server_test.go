package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/manuvikash/Thanos/pkg/models/api"
	"github.com/manuvikash/Thanos/pkg/models/domain"
	scansvc "github.com/manuvikash/Thanos/pkg/services/scan"
	"github.com/manuvikash/Thanos/pkg/services/templates"
)

type mockConfigStore struct {
	mock.Mock
}

func (m *mockConfigStore) GetBaseConfig(ctx context.Context, resourceType string) (*domain.BaseConfig, error) {
	args := m.Called(ctx, resourceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BaseConfig), args.Error(1)
}

func (m *mockConfigStore) PutBaseConfig(ctx context.Context, cfg *domain.BaseConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *mockConfigStore) ListBaseConfigs(ctx context.Context) ([]domain.BaseConfig, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.BaseConfig), args.Error(1)
}

func (m *mockConfigStore) ListGroups(ctx context.Context, resourceType string) ([]domain.ResourceGroup, error) {
	args := m.Called(ctx, resourceType)
	return args.Get(0).([]domain.ResourceGroup), args.Error(1)
}

func (m *mockConfigStore) GetGroup(ctx context.Context, groupID string) (*domain.ResourceGroup, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResourceGroup), args.Error(1)
}

func (m *mockConfigStore) PutGroup(ctx context.Context, group *domain.ResourceGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *mockConfigStore) DeleteGroup(ctx context.Context, groupID string) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

func (m *mockConfigStore) GetResolutions(ctx context.Context, resourceARN string) (map[string]any, error) {
	args := m.Called(ctx, resourceARN)
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *mockConfigStore) PutResolutions(ctx context.Context, resourceARN string, resolutions map[string]any) error {
	args := m.Called(ctx, resourceARN, resolutions)
	return args.Error(0)
}

func (m *mockConfigStore) ListTemplates(ctx context.Context, resourceType string) ([]domain.ConfigTemplate, error) {
	args := m.Called(ctx, resourceType)
	return args.Get(0).([]domain.ConfigTemplate), args.Error(1)
}

func (m *mockConfigStore) PutTemplate(ctx context.Context, tpl *domain.ConfigTemplate) error {
	args := m.Called(ctx, tpl)
	return args.Error(0)
}

type mockInventory struct {
	mock.Mock
}

func (m *mockInventory) PutResources(ctx context.Context, resources []*domain.Resource) error {
	args := m.Called(ctx, resources)
	return args.Error(0)
}

func (m *mockInventory) ListBySnapshot(ctx context.Context, tenantID, snapshotKey string, limit int) ([]domain.Resource, error) {
	args := m.Called(ctx, tenantID, snapshotKey, limit)
	return args.Get(0).([]domain.Resource), args.Error(1)
}

func (m *mockInventory) ListByCompliance(ctx context.Context, tenantID string, status domain.ComplianceStatus, limit int) ([]domain.Resource, error) {
	args := m.Called(ctx, tenantID, status, limit)
	return args.Get(0).([]domain.Resource), args.Error(1)
}

func (m *mockInventory) ListByType(ctx context.Context, tenantID, resourceType string, limit int) ([]domain.Resource, error) {
	args := m.Called(ctx, tenantID, resourceType, limit)
	return args.Get(0).([]domain.Resource), args.Error(1)
}

type mockFindings struct {
	mock.Mock
}

func (m *mockFindings) PutFindings(ctx context.Context, items []*domain.Finding) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *mockFindings) ListByTenant(ctx context.Context, tenantID string, limit int) ([]domain.Finding, error) {
	args := m.Called(ctx, tenantID, limit)
	return args.Get(0).([]domain.Finding), args.Error(1)
}

func (m *mockFindings) ListBySnapshot(ctx context.Context, tenantID, snapshotKey string, limit int) ([]domain.Finding, error) {
	args := m.Called(ctx, tenantID, snapshotKey, limit)
	return args.Get(0).([]domain.Finding), args.Error(1)
}

func (m *mockFindings) UpdateStatus(ctx context.Context, tenantID, findingID string, status domain.FindingStatus) error {
	args := m.Called(ctx, tenantID, findingID, status)
	return args.Error(0)
}

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) GetTenants(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockRegistry) GetTenant(ctx context.Context, id string) (*domain.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

type mockRunner struct {
	mock.Mock
}

type mockScheduler struct {
	mock.Mock
}

func (m *mockScheduler) Start(ctx context.Context, tenantID string) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *mockScheduler) Cancel(ctx context.Context, tenantID string) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *mockRunner) Run(ctx context.Context, tenant domain.Tenant, opts scansvc.Options) (*domain.ScanReport, error) {
	args := m.Called(ctx, tenant, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScanReport), args.Error(1)
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))

	configs := new(mockConfigStore)
	inventoryStore := new(mockInventory)
	findingsStore := new(mockFindings)
	registry := new(mockRegistry)
	runner := new(mockRunner)

	configs.On("ListBaseConfigs", mock.Anything).Return([]domain.BaseConfig{
		{ResourceType: "AWS::S3::Bucket", Version: "v1"},
	}, nil)
	configs.On("ListTemplates", mock.Anything, "").Return([]domain.ConfigTemplate{}, nil)
	inventoryStore.On("ListByCompliance", mock.Anything, "tenant-1", domain.ComplianceNonCompliant, 100).
		Return([]domain.Resource{{ARN: "arn:aws:s3:::bucket-a"}}, nil)
	findingsStore.On("ListByTenant", mock.Anything, "tenant-1", 100).
		Return([]domain.Finding{}, nil)
	registry.On("GetTenants", mock.Anything).Return([]string{"tenant-1"}, nil)

	templatesSvc := templates.NewService(configs)

	webAPI := NewWebAPI(logger, Config{
		Addr: ":8080",
		Dependencies: Dependencies{
			Configs:   configs,
			Templates: templatesSvc,
			Inventory: inventoryStore,
			Findings:  findingsStore,
			Registry:  registry,
			Scanner:   runner,
			Scheduler: new(mockScheduler),
		},
	})

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		webAPI.Handler().ServeHTTP(rec, req)
		return rec
	}

	rec := get("/api/v1/configs")
	require.Equal(t, http.StatusOK, rec.Code)
	var baseConfigs []api.BaseConfig
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&baseConfigs))
	require.Len(t, baseConfigs, 1)
	assert.Equal(t, "AWS::S3::Bucket", baseConfigs[0].ResourceType)

	rec = get("/api/v1/templates")
	require.Equal(t, http.StatusOK, rec.Code)
	var tpls []api.ConfigTemplate
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&tpls))
	assert.NotEmpty(t, tpls) // built-in templates always present

	rec = get("/api/v1/tenants")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = get("/api/v1/tenants/tenant-1/resources")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = get("/api/v1/tenants/tenant-1/findings")
	require.Equal(t, http.StatusOK, rec.Code)
}
