package templates

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/manuvikash/Thanos/pkg/models/api"
	"github.com/manuvikash/Thanos/pkg/models/domain"
	"github.com/manuvikash/Thanos/pkg/services/templates"
)

type mockStore struct {
	mock.Mock
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

func newRouter(store *mockStore) *chi.Mux {
	handler := NewHandler(templates.NewService(store))
	router := chi.NewRouter()
	router.Get("/templates", handler.ListTemplates)
	router.Post("/templates", handler.CreateTemplate)
	router.Get("/templates/{template}", handler.GetTemplate)
	return router
}

func TestListTemplates_MergesBuiltinsAndCustom(t *testing.T) {
	store := &mockStore{}
	store.On("ListTemplates", mock.Anything, "").Return([]domain.ConfigTemplate{
		{TemplateID: "custom-s3", ResourceType: "AWS::S3::Bucket", IsCustom: true},
	}, nil)

	recorder := httptest.NewRecorder()
	newRouter(store).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/templates", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var body []api.ConfigTemplate
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Greater(t, len(body), 1)

	ids := make([]string, 0, len(body))
	for _, tpl := range body {
		ids = append(ids, tpl.TemplateID)
	}
	assert.Contains(t, ids, "custom-s3")
	assert.Contains(t, ids, "s3-secure-baseline")
}

func TestListTemplates_FiltersByResourceType(t *testing.T) {
	store := &mockStore{}
	store.On("ListTemplates", mock.Anything, "").Return([]domain.ConfigTemplate{}, nil)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/templates?resource_type=AWS::IAM::Policy", nil)
	newRouter(store).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	var body []api.ConfigTemplate
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	for _, tpl := range body {
		assert.Equal(t, "AWS::IAM::Policy", tpl.ResourceType)
	}
}

func TestGetTemplate_NotFound(t *testing.T) {
	store := &mockStore{}
	store.On("ListTemplates", mock.Anything, "").Return([]domain.ConfigTemplate{}, nil)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/templates/no-such-template", nil)
	newRouter(store).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetTemplate_Builtin(t *testing.T) {
	store := &mockStore{}

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/templates/sg-restricted", nil)
	newRouter(store).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	var body api.ConfigTemplate
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "AWS::EC2::SecurityGroup", body.ResourceType)
	store.AssertNotCalled(t, "ListTemplates")
}

func TestCreateTemplate(t *testing.T) {
	store := &mockStore{}
	store.On("PutTemplate", mock.Anything, mock.Anything).Return(nil)

	payload, err := json.Marshal(api.ConfigTemplate{
		TemplateID:    "team-bucket-policy",
		Name:          "Team Bucket Policy",
		ResourceType:  "AWS::S3::Bucket",
		DesiredConfig: map[string]any{"VersioningConfiguration": map[string]any{"Status": "Enabled"}},
	})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/templates", bytes.NewReader(payload))
	newRouter(store).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)
	var body api.ConfigTemplate
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.True(t, body.IsCustom)
	assert.Equal(t, "team-bucket-policy", body.TemplateID)
}

func TestCreateTemplate_ReservedID(t *testing.T) {
	store := &mockStore{}

	payload, err := json.Marshal(api.ConfigTemplate{
		TemplateID:    "s3-secure-baseline",
		ResourceType:  "AWS::S3::Bucket",
		DesiredConfig: map[string]any{"VersioningConfiguration": map[string]any{"Status": "Enabled"}},
	})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/templates", bytes.NewReader(payload))
	newRouter(store).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	store.AssertNotCalled(t, "PutTemplate")
}
