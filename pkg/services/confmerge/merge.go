// Package confmerge combines layered desired configurations into a single
// effective configuration and reports the paths where sources disagree.
package confmerge

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/manuvikash/Thanos/pkg/models/domain"
	"github.com/manuvikash/Thanos/pkg/services/confpath"
)

// Source is one configuration layer participating in a merge.
type Source struct {
	SourceID string
	Priority int
	Config   map[string]any
}

// DeepMerge merges override on top of base. Keys mapping to maps on both
// sides merge recursively; any other collision is replaced by the override
// value wholesale (lists and scalars are never merged element-wise). Neither
// input is mutated.
func DeepMerge(base, override map[string]any) map[string]any {
	result := deepCopyMap(base)

	for key, value := range override {
		if existing, ok := result[key].(map[string]any); ok {
			if overrideMap, ok := value.(map[string]any); ok {
				result[key] = DeepMerge(existing, overrideMap)
				continue
			}
		}
		result[key] = deepCopyValue(value)
	}

	return result
}

// DetectConflicts merges an ordered set of sources path by path. A path where
// more than one distinct value is observed (compared by string form; numeric
// representations are deliberately not coerced) is recorded as a conflict and
// resolved to the highest-priority source's value. On equal priorities the
// source appearing last in the input wins; the result is deterministic for a
// given input order.
func DetectConflicts(sources []Source) (map[string]any, []domain.Conflict) {
	merged := map[string]any{}
	var conflicts []domain.Conflict

	for _, path := range unionLeafPaths(sources) {
		var values []domain.ConflictValue
		for _, src := range sources {
			if v := confpath.Get(src.Config, path); v != nil {
				values = append(values, domain.ConflictValue{
					Priority: src.Priority,
					Value:    v,
					Source:   src.SourceID,
				})
			}
		}
		if len(values) == 0 {
			continue
		}

		distinct := map[string]struct{}{}
		for _, v := range values {
			distinct[fmt.Sprintf("%v", v.Value)] = struct{}{}
		}

		if len(distinct) > 1 {
			conflicts = append(conflicts, domain.Conflict{
				Path:               path,
				Values:             values,
				ResolutionStrategy: domain.ResolutionUseHighestPriority,
			})
			confpath.Set(merged, path, deepCopyValue(highestPriority(values).Value))
		} else {
			confpath.Set(merged, path, deepCopyValue(values[0].Value))
		}
	}

	return merged, conflicts
}

// EffectiveConfig resolves sources via DetectConflicts and then applies
// manual resolutions (path -> adjudicated value) unconditionally on top.
func EffectiveConfig(sources []Source, resolutions map[string]any) map[string]any {
	merged, _ := DetectConflicts(sources)
	for path, value := range resolutions {
		confpath.Set(merged, path, deepCopyValue(value))
	}
	return merged
}

// Compare returns every leaf path present in either tree whose values differ.
// A path missing on one side is reported with that side as nil.
func Compare(observed, desired map[string]any) []domain.Difference {
	seen := map[string]struct{}{}
	var paths []string
	for _, p := range confpath.LeafPaths(observed) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			paths = append(paths, p)
		}
	}
	for _, p := range confpath.LeafPaths(desired) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	var differences []domain.Difference
	for _, path := range paths {
		observedValue := confpath.Get(observed, path)
		desiredValue := confpath.Get(desired, path)
		if !ValuesEqual(observedValue, desiredValue) {
			differences = append(differences, domain.Difference{
				Path:     path,
				Observed: observedValue,
				Expected: desiredValue,
			})
		}
	}

	return differences
}

// ValuesEqual is deep equality with numeric coercion. Collectors produce ints
// while configs round-tripped through encoding/json or attributevalue decode
// numbers as float64; 22 and 22.0 must not read as drift.
func ValuesEqual(a, b any) bool {
	if an, ok := asNumber(a); ok {
		bn, ok := asNumber(b)
		return ok && an == bn
	}
	switch at := a.(type) {
	case map[string]any:
		bt, ok := b.(map[string]any)
		if !ok || len(at) != len(bt) {
			return false
		}
		for key, av := range at {
			bv, present := bt[key]
			if !present || !ValuesEqual(av, bv) {
				return false
			}
		}
		return true
	case []any:
		bt, ok := b.([]any)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !ValuesEqual(at[i], bt[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// unionLeafPaths returns the sorted union of leaf paths across all sources.
func unionLeafPaths(sources []Source) []string {
	seen := map[string]struct{}{}
	var paths []string
	for _, src := range sources {
		for _, p := range confpath.LeafPaths(src.Config) {
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				paths = append(paths, p)
			}
		}
	}
	sort.Strings(paths)
	return paths
}

func highestPriority(values []domain.ConflictValue) domain.ConflictValue {
	winner := values[0]
	for _, v := range values[1:] {
		if v.Priority >= winner.Priority {
			winner = v
		}
	}
	return winner
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return deepCopyMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
