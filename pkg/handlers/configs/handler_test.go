package configs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/manuvikash/Thanos/pkg/models/api"
	"github.com/manuvikash/Thanos/pkg/models/domain"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetBaseConfig(ctx context.Context, resourceType string) (*domain.BaseConfig, error) {
	args := m.Called(ctx, resourceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BaseConfig), args.Error(1)
}

func (m *mockStore) PutBaseConfig(ctx context.Context, cfg *domain.BaseConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *mockStore) ListBaseConfigs(ctx context.Context) ([]domain.BaseConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BaseConfig), args.Error(1)
}

func (m *mockStore) ListGroups(ctx context.Context, resourceType string) ([]domain.ResourceGroup, error) {
	args := m.Called(ctx, resourceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResourceGroup), args.Error(1)
}

func (m *mockStore) GetGroup(ctx context.Context, groupID string) (*domain.ResourceGroup, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResourceGroup), args.Error(1)
}

func (m *mockStore) PutGroup(ctx context.Context, group *domain.ResourceGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *mockStore) DeleteGroup(ctx context.Context, groupID string) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

func (m *mockStore) GetResolutions(ctx context.Context, resourceARN string) (map[string]any, error) {
	args := m.Called(ctx, resourceARN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *mockStore) PutResolutions(ctx context.Context, resourceARN string, resolutions map[string]any) error {
	args := m.Called(ctx, resourceARN, resolutions)
	return args.Error(0)
}

func (m *mockStore) ListTemplates(ctx context.Context, resourceType string) ([]domain.ConfigTemplate, error) {
	args := m.Called(ctx, resourceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConfigTemplate), args.Error(1)
}

func (m *mockStore) PutTemplate(ctx context.Context, tpl *domain.ConfigTemplate) error {
	args := m.Called(ctx, tpl)
	return args.Error(0)
}

func newRouter(store *mockStore) http.Handler {
	handler := NewHandler(store)
	router := chi.NewRouter()
	router.Get("/configs", handler.ListBaseConfigs)
	router.Get("/configs/{resourceType}", handler.GetBaseConfig)
	router.Put("/configs/{resourceType}", handler.PutBaseConfig)
	router.Get("/groups", handler.ListGroups)
	router.Post("/groups", handler.PutGroup)
	router.Delete("/groups/{group}", handler.DeleteGroup)
	router.Get("/resolutions", handler.GetResolutions)
	router.Put("/resolutions", handler.PutResolutions)
	return router
}

func TestGetBaseConfig(t *testing.T) {
	store := &mockStore{}
	store.On("GetBaseConfig", mock.Anything, "AWS::S3::Bucket").Return(&domain.BaseConfig{
		ResourceType:  "AWS::S3::Bucket",
		Version:       "v1",
		DesiredConfig: map[string]any{"VersioningEnabled": true},
	}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/configs/AWS::S3::Bucket", nil)
	newRouter(store).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body api.BaseConfig
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "v1", body.Version)
	assert.Equal(t, true, body.DesiredConfig["VersioningEnabled"])
}

func TestGetBaseConfig_NotFound(t *testing.T) {
	store := &mockStore{}
	store.On("GetBaseConfig", mock.Anything, "AWS::RDS::DBInstance").Return(nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/configs/AWS::RDS::DBInstance", nil)
	newRouter(store).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPutBaseConfig(t *testing.T) {
	store := &mockStore{}
	store.On("PutBaseConfig", mock.Anything, mock.MatchedBy(func(cfg *domain.BaseConfig) bool {
		return cfg.ResourceType == "AWS::S3::Bucket" && cfg.DesiredConfig["VersioningEnabled"] == true
	})).Return(nil)

	body := `{"desired_config": {"VersioningEnabled": true}}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/configs/AWS::S3::Bucket", strings.NewReader(body))
	newRouter(store).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	store.AssertExpectations(t)
}

func TestPutBaseConfig_EmptyConfig(t *testing.T) {
	store := &mockStore{}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/configs/AWS::S3::Bucket", strings.NewReader(`{}`))
	newRouter(store).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	store.AssertNotCalled(t, "PutBaseConfig", mock.Anything, mock.Anything)
}

func TestListGroups(t *testing.T) {
	store := &mockStore{}
	store.On("ListGroups", mock.Anything, "AWS::S3::Bucket").Return([]domain.ResourceGroup{
		{GroupID: "g-1", Name: "relaxed-buckets", ResourceType: "AWS::S3::Bucket", Priority: 100},
	}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/groups?resource_type=AWS::S3::Bucket", nil)
	newRouter(store).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body []api.ResourceGroup
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "relaxed-buckets", body[0].Name)
	assert.Equal(t, 100, body[0].Priority)
}

func TestListGroups_MissingResourceType(t *testing.T) {
	store := &mockStore{}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/groups", nil)
	newRouter(store).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteGroup(t *testing.T) {
	store := &mockStore{}
	store.On("DeleteGroup", mock.Anything, "g-1").Return(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/groups/g-1", nil)
	newRouter(store).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	store.AssertExpectations(t)
}

func TestResolutions_RoundTrip(t *testing.T) {
	store := &mockStore{}
	arn := "arn:aws:s3:::bucket-a"
	store.On("PutResolutions", mock.Anything, arn, map[string]any{"VersioningEnabled": true}).Return(nil)
	store.On("GetResolutions", mock.Anything, arn).Return(map[string]any{"VersioningEnabled": true}, nil)

	rec := httptest.NewRecorder()
	body := `{"resource_arn": "arn:aws:s3:::bucket-a", "resolutions": {"VersioningEnabled": true}}`
	req := httptest.NewRequest(http.MethodPut, "/resolutions", strings.NewReader(body))
	newRouter(store).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/resolutions?resource_arn="+arn, nil)
	newRouter(store).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.Resolutions
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, arn, resp.ResourceARN)
	assert.Equal(t, true, resp.Resolutions["VersioningEnabled"])
}

func TestListBaseConfigs_StoreError(t *testing.T) {
	store := &mockStore{}
	store.On("ListBaseConfigs", mock.Anything).Return(nil, errors.New("table missing"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/configs", nil)
	newRouter(store).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
