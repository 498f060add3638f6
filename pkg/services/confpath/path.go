// Package confpath addresses values inside schema-less configuration trees
// using dot notation, e.g. "PublicAccessBlockConfiguration.BlockPublicAcls".
// A segment suffixed with [*] expands a list: the remaining path is applied
// to every element, producing a list of per-element results.
package confpath

import "strings"

const wildcardSuffix = "[*]"

// Get returns the value at path, or nil when the path does not resolve: a
// missing key, a map access on a non-map, or [*] on a non-list all yield nil
// rather than an error. An empty path returns tree itself.
func Get(tree any, path string) any {
	if path == "" {
		return tree
	}

	parts := strings.Split(path, ".")
	current := tree

	for i, part := range parts {
		if current == nil {
			return nil
		}

		if key, ok := strings.CutSuffix(part, wildcardSuffix); ok {
			m, ok := current.(map[string]any)
			if !ok {
				return nil
			}
			list, ok := m[key].([]any)
			if !ok {
				return nil
			}
			rest := strings.Join(parts[i+1:], ".")
			if rest == "" {
				return list
			}
			out := make([]any, len(list))
			for j, item := range list {
				out[j] = Get(item, rest)
			}
			return out
		}

		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[part]
	}

	return current
}

// Set writes value at path, creating intermediate maps as needed. An
// intermediate that exists but is not a map is replaced by a fresh map so
// that Set never fails. Wildcards are not supported in write paths.
func Set(tree map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := tree

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[part] = next
		}
		current = next
	}

	current[parts[len(parts)-1]] = value
}

// LeafPaths walks a tree of plain maps depth-first and returns one dot-joined
// path per non-map leaf. Lists are leaves; an empty map contributes nothing.
func LeafPaths(tree map[string]any) []string {
	var paths []string
	collectLeafPaths(tree, "", &paths)
	return paths
}

func collectLeafPaths(tree map[string]any, prefix string, paths *[]string) {
	for key, value := range tree {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if child, ok := value.(map[string]any); ok {
			collectLeafPaths(child, path, paths)
		} else {
			*paths = append(*paths, path)
		}
	}
}

// Flatten recursively flattens nested lists into a single flat list.
func Flatten(list []any) []any {
	result := make([]any, 0, len(list))
	for _, item := range list {
		if nested, ok := item.([]any); ok {
			result = append(result, Flatten(nested)...)
		} else {
			result = append(result, item)
		}
	}
	return result
}
