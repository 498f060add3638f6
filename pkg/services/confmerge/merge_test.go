package confmerge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manuvikash/Thanos/pkg/models/domain"
)

func TestDeepMerge_RecursiveAndReplace(t *testing.T) {
	base := map[string]any{
		"a": map[string]any{"x": 1, "y": 2},
		"list":   []any{1, 2},
		"scalar": "base",
	}
	override := map[string]any{
		"a": map[string]any{"y": 3, "z": 4},
		"list":   []any{9},
		"scalar": "override",
	}

	merged := DeepMerge(base, override)

	assert.Equal(t, map[string]any{
		"a": map[string]any{"x": 1, "y": 3, "z": 4},
		"list":   []any{9},
		"scalar": "override",
	}, merged)
}

func TestDeepMerge_DoesNotMutateInputs(t *testing.T) {
	base := map[string]any{"a": map[string]any{"x": 1}}
	override := map[string]any{"a": map[string]any{"y": 2}}

	merged := DeepMerge(base, override)
	merged["a"].(map[string]any)["x"] = 99

	assert.Equal(t, map[string]any{"a": map[string]any{"x": 1}}, base)
	assert.Equal(t, map[string]any{"a": map[string]any{"y": 2}}, override)
}

func TestDeepMerge_Idempotent(t *testing.T) {
	a := map[string]any{
		"a": map[string]any{"x": 1},
		"b": []any{"v"},
	}
	assert.Equal(t, a, DeepMerge(a, a))
}

func TestDetectConflicts_HighestPriorityWins(t *testing.T) {
	sources := []Source{
		{SourceID: "base", Priority: 0, Config: map[string]any{"a": map[string]any{"b": "zero"}}},
		{SourceID: "group-10", Priority: 10, Config: map[string]any{"a": map[string]any{"b": "ten"}}},
		{SourceID: "group-20", Priority: 20, Config: map[string]any{"a": map[string]any{"b": "twenty"}}},
	}

	merged, conflicts := DetectConflicts(sources)

	require.Len(t, conflicts, 1)
	assert.Equal(t, "a.b", conflicts[0].Path)
	assert.Equal(t, domain.ResolutionUseHighestPriority, conflicts[0].ResolutionStrategy)
	assert.Len(t, conflicts[0].Values, 3)
	assert.Equal(t, "twenty", merged["a"].(map[string]any)["b"])
}

func TestDetectConflicts_SameValueNoConflict(t *testing.T) {
	sources := []Source{
		{SourceID: "base", Priority: 0, Config: map[string]any{"k": true}},
		{SourceID: "group", Priority: 100, Config: map[string]any{"k": true}},
	}

	merged, conflicts := DetectConflicts(sources)

	assert.Empty(t, conflicts)
	assert.Equal(t, true, merged["k"])
}

func TestDetectConflicts_TieBreakLastSeenWins(t *testing.T) {
	sources := []Source{
		{SourceID: "first", Priority: 5, Config: map[string]any{"k": "first"}},
		{SourceID: "second", Priority: 5, Config: map[string]any{"k": "second"}},
	}

	merged, conflicts := DetectConflicts(sources)

	require.Len(t, conflicts, 1)
	assert.Equal(t, "second", merged["k"])
}

func TestEffectiveConfig_ManualResolutionsWin(t *testing.T) {
	sources := []Source{
		{SourceID: "base", Priority: 0, Config: map[string]any{"a": map[string]any{"b": 1}}},
		{SourceID: "group", Priority: 10, Config: map[string]any{"a": map[string]any{"b": 2}}},
	}

	effective := EffectiveConfig(sources, map[string]any{"a.b": 7})

	assert.Equal(t, 7, effective["a"].(map[string]any)["b"])
}

func TestCompare_MissingSideIsNil(t *testing.T) {
	observed := map[string]any{
		"shared":        "same",
		"observed-only": 1,
		"drifted":       false,
	}
	desired := map[string]any{
		"shared":       "same",
		"desired-only": 2,
		"drifted":      true,
	}

	differences := Compare(observed, desired)

	require.Len(t, differences, 3)
	byPath := map[string]domain.Difference{}
	for _, d := range differences {
		byPath[d.Path] = d
	}
	assert.Equal(t, false, byPath["drifted"].Observed)
	assert.Equal(t, true, byPath["drifted"].Expected)
	assert.Equal(t, 1, byPath["observed-only"].Observed)
	assert.Nil(t, byPath["observed-only"].Expected)
	assert.Nil(t, byPath["desired-only"].Observed)
	assert.Equal(t, 2, byPath["desired-only"].Expected)
}

func TestCompare_NumericFormsAreEqual(t *testing.T) {
	// Collectors build configs with ints; the same config read back through
	// encoding/json or attributevalue carries float64.
	observed := map[string]any{
		"IpPermissions": []any{
			map[string]any{"FromPort": 22, "ToPort": 22, "IpProtocol": "tcp"},
		},
	}
	var desired map[string]any
	require.NoError(t, json.Unmarshal([]byte(
		`{"IpPermissions":[{"FromPort":22,"ToPort":22,"IpProtocol":"tcp"}]}`,
	), &desired))

	assert.Empty(t, Compare(observed, desired))
}

func TestCompare_NumericValuesStillDrift(t *testing.T) {
	observed := map[string]any{"BackupRetentionPeriod": 7}
	desired := map[string]any{"BackupRetentionPeriod": float64(30)}

	differences := Compare(observed, desired)

	require.Len(t, differences, 1)
	assert.Equal(t, "BackupRetentionPeriod", differences[0].Path)
}

func TestCompare_EqualTreesNoDifferences(t *testing.T) {
	tree := map[string]any{"a": map[string]any{"b": []any{1, 2}}}
	assert.Empty(t, Compare(tree, DeepMerge(tree, nil)))
}
