package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profilesFile = `[tenant-1]
account_id = 123456789012
role_arn   = arn:aws:iam::123456789012:role/compliance-scan
regions    = us-west-1, us-west-2

[tenant-2]
account_id = 210987654321
regions    = eu-central-1

[broken]
role_arn = arn:aws:iam::000000000000:role/compliance-scan
`

func writeProfiles(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.ini")
	require.NoError(t, os.WriteFile(path, []byte(profilesFile), 0o600))
	return path
}

func TestGetTenants(t *testing.T) {
	registry, err := NewRegistry(writeProfiles(t))
	require.NoError(t, err)

	tenants, err := registry.GetTenants(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tenant-1", "tenant-2", "broken"}, tenants)
}

func TestGetTenant(t *testing.T) {
	registry, err := NewRegistry(writeProfiles(t))
	require.NoError(t, err)

	tenant, err := registry.GetTenant(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, "123456789012", tenant.AccountID)
	assert.Equal(t, "arn:aws:iam::123456789012:role/compliance-scan", tenant.RoleARN)
	assert.Equal(t, []string{"us-west-1", "us-west-2"}, tenant.Regions)
}

func TestGetTenant_OptionalRole(t *testing.T) {
	registry, err := NewRegistry(writeProfiles(t))
	require.NoError(t, err)

	tenant, err := registry.GetTenant(context.Background(), "tenant-2")
	require.NoError(t, err)
	assert.Empty(t, tenant.RoleARN)
	assert.Equal(t, []string{"eu-central-1"}, tenant.Regions)
}

func TestGetTenant_Invalid(t *testing.T) {
	registry, err := NewRegistry(writeProfiles(t))
	require.NoError(t, err)

	_, err = registry.GetTenant(context.Background(), "broken")
	assert.ErrorContains(t, err, "no account_id")

	_, err = registry.GetTenant(context.Background(), "missing")
	assert.ErrorContains(t, err, "not found")
}

func TestNewRegistry_MissingFile(t *testing.T) {
	_, err := NewRegistry(filepath.Join(t.TempDir(), "nope.ini"))
	assert.Error(t, err)
}
