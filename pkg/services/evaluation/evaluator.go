// Package evaluation compares observed resource configurations against the
// layered desired configuration model and produces findings. The hierarchical
// path (base config + resource groups) is the primary mode; the rule-based
// path is kept for non-hierarchical evaluation. The two modes are never mixed
// within one run.
package evaluation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/manuvikash/Thanos/pkg/models/domain"
	"github.com/manuvikash/Thanos/pkg/services/confmerge"
	"github.com/manuvikash/Thanos/pkg/services/confpath"
	"github.com/manuvikash/Thanos/pkg/services/selector"
)

// ConfigSource is the slice of the configuration store the evaluator needs.
// All lookups are treated as possibly-latent remote calls and are cached per
// resource type for the duration of a run.
type ConfigSource interface {
	GetBaseConfig(ctx context.Context, resourceType string) (*domain.BaseConfig, error)
	ListGroups(ctx context.Context, resourceType string) ([]domain.ResourceGroup, error)
	GetResolutions(ctx context.Context, resourceARN string) (map[string]any, error)
}

const defaultConcurrency = 8

type Options struct {
	// Concurrency bounds the number of resources evaluated in parallel.
	Concurrency int
}

type Evaluator struct {
	source      ConfigSource
	concurrency int
}

func NewEvaluator(source ConfigSource, opts Options) *Evaluator {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Evaluator{source: source, concurrency: concurrency}
}

// Result is the outcome of one evaluation run. Totals.Errors counts resources
// whose evaluation failed, so callers can tell an incomplete run from a clean
// one.
type Result struct {
	Findings []*domain.Finding
	Totals   domain.ScanTotals
}

// EvaluateHierarchical evaluates every resource against its effective desired
// configuration, mutating compliance fields in place and emitting at most one
// finding per drifted resource. Resources are processed concurrently; each is
// owned exclusively by the worker evaluating it. On cancellation the result
// covers only fully evaluated resources.
func (e *Evaluator) EvaluateHierarchical(ctx context.Context, resources []*domain.Resource) (*Result, error) {
	cache := newRunCache(e.source)
	result := &Result{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for _, resource := range resources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			finding, evalErr := e.evaluateResource(gctx, cache, resource)

			mu.Lock()
			defer mu.Unlock()
			result.Totals.Resources++
			if evalErr != nil {
				result.Totals.Errors++
			}
			switch resource.ComplianceStatus {
			case domain.ComplianceCompliant:
				result.Totals.Compliant++
			case domain.ComplianceNonCompliant:
				result.Totals.NonCompliant++
			default:
				result.Totals.NotEvaluated++
			}
			if finding != nil {
				result.Findings = append(result.Findings, finding)
				result.Totals.Findings++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

// evaluateResource runs the hierarchical evaluation for one resource. A nil
// error with a nil finding means the resource is compliant or not evaluated.
// Unexpected failures are logged and reported via the returned error without
// affecting any other resource.
func (e *Evaluator) evaluateResource(ctx context.Context, cache *runCache, resource *domain.Resource) (finding *domain.Finding, err error) {
	logger := zerolog.Ctx(ctx)
	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Str("arn", resource.ARN).
				Interface("panic", r).
				Msg("evaluation panicked")
			err = fmt.Errorf("evaluating %s: panic: %v", resource.ARN, r)
		}
	}()

	now := time.Now().UTC()
	resource.LastEvaluated = now

	base, err := cache.baseConfig(ctx, resource.ResourceType)
	if err != nil {
		logger.Error().Err(err).
			Str("arn", resource.ARN).
			Str("resource_type", resource.ResourceType).
			Msg("base config lookup failed")
		resource.ComplianceStatus = domain.ComplianceNotEvaluated
		return nil, err
	}
	if base == nil {
		// No base policy for this type is not a violation.
		resource.ComplianceStatus = domain.ComplianceNotEvaluated
		return nil, nil
	}

	groups, err := cache.groupsFor(ctx, resource.ResourceType)
	if err != nil {
		logger.Error().Err(err).
			Str("arn", resource.ARN).
			Str("resource_type", resource.ResourceType).
			Msg("group lookup failed")
		resource.ComplianceStatus = domain.ComplianceNotEvaluated
		return nil, err
	}
	matched := matchGroups(ctx, resource, groups)

	// Merge lowest to highest priority so the highest-priority group wins on
	// overlapping paths.
	effective := confmerge.DeepMerge(base.DesiredConfig, nil)
	groupsApplied := make([]string, 0, len(matched))
	for _, group := range matched {
		effective = confmerge.DeepMerge(effective, group.DesiredConfig)
		groupsApplied = append(groupsApplied, group.Name)
	}

	conflicts := detectSourceConflicts(resource.ResourceType, base, matched)

	resolutions, err := e.source.GetResolutions(ctx, resource.ARN)
	if err != nil {
		logger.Warn().Err(err).Str("arn", resource.ARN).Msg("resolution lookup failed, proceeding without")
	}
	for path, value := range resolutions {
		confpath.Set(effective, path, value)
	}

	resource.BaseConfigApplied = base.Version
	resource.GroupsApplied = groupsApplied
	resource.DesiredConfig = effective

	differences := confmerge.Compare(resource.Config, effective)
	if len(differences) == 0 {
		resource.ComplianceStatus = domain.ComplianceCompliant
		resource.DriftScore = 0.0
		resource.FindingsCount = 0
		return nil, nil
	}

	resource.ComplianceStatus = domain.ComplianceNonCompliant
	resource.DriftScore = DriftScore(len(differences))
	resource.FindingsCount = 1

	rule := domain.Rule{
		ID:           domain.HierarchicalRuleID,
		ResourceType: resource.ResourceType,
		Severity:     DriftSeverity(len(differences)),
		Message:      fmt.Sprintf("configuration drift: %d path(s) differ from desired configuration", len(differences)),
	}
	finding = domain.NewFinding(rule, resource, resource.Config, effective)
	finding.Differences = differences
	finding.Metadata = map[string]any{
		"base_config_applied": base.Version,
		"groups_applied":      groupsApplied,
		"difference_count":    len(differences),
		"drift_score":         resource.DriftScore,
		"conflict_count":      len(conflicts),
	}
	return finding, nil
}

// EvaluateRules runs the rule-based legacy mode: every rule against every
// resource. Failures on one pair never abort the batch.
func (e *Evaluator) EvaluateRules(ctx context.Context, resources []*domain.Resource, rules []domain.Rule) *Result {
	logger := zerolog.Ctx(ctx)
	result := &Result{}
	result.Totals.Resources = len(resources)

	for _, resource := range resources {
		for _, rule := range rules {
			finding := evaluateRulePair(ctx, resource, rule, &result.Totals)
			if finding != nil {
				logger.Info().Str("rule", rule.ID).Str("arn", resource.ARN).Msg("rule failed")
				result.Findings = append(result.Findings, finding)
				result.Totals.Findings++
			}
		}
	}
	return result
}

func evaluateRulePair(ctx context.Context, resource *domain.Resource, rule domain.Rule, totals *domain.ScanTotals) (finding *domain.Finding) {
	defer func() {
		if r := recover(); r != nil {
			zerolog.Ctx(ctx).Error().
				Str("rule", rule.ID).
				Str("arn", resource.ARN).
				Interface("panic", r).
				Msg("rule evaluation panicked")
			totals.Errors++
			finding = nil
		}
	}()
	return EvaluateRule(ctx, resource, rule)
}

// matchGroups filters groups by type and selector and sorts ascending by
// priority. Groups with invalid selectors are logged and skipped. Equal
// priorities keep store order, so merge order stays deterministic per input.
func matchGroups(ctx context.Context, resource *domain.Resource, groups []domain.ResourceGroup) []domain.ResourceGroup {
	logger := zerolog.Ctx(ctx)
	var matched []domain.ResourceGroup
	for _, group := range groups {
		if group.ResourceType != resource.ResourceType {
			continue
		}
		ok, err := selector.Matches(resource, group.Selector)
		if err != nil {
			logger.Warn().Err(err).Str("group", group.GroupID).Msg("invalid group selector, skipping")
			continue
		}
		if ok {
			matched = append(matched, group)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Priority < matched[j].Priority
	})
	return matched
}

func detectSourceConflicts(resourceType string, base *domain.BaseConfig, groups []domain.ResourceGroup) []domain.Conflict {
	sources := make([]confmerge.Source, 0, len(groups)+1)
	sources = append(sources, confmerge.Source{
		SourceID: "base:" + resourceType,
		Priority: 0,
		Config:   base.DesiredConfig,
	})
	for _, group := range groups {
		sources = append(sources, confmerge.Source{
			SourceID: "group:" + group.Name,
			Priority: group.Priority,
			Config:   group.DesiredConfig,
		})
	}
	_, conflicts := confmerge.DetectConflicts(sources)
	return conflicts
}

// runCache memoizes per-type config lookups for the duration of one run.
// Lookup errors are not cached so a transient store failure on one resource
// does not poison the rest of the batch.
type runCache struct {
	source ConfigSource

	mu     sync.Mutex
	base   map[string]*domain.BaseConfig
	groups map[string][]domain.ResourceGroup
}

func newRunCache(source ConfigSource) *runCache {
	return &runCache{
		source: source,
		base:   map[string]*domain.BaseConfig{},
		groups: map[string][]domain.ResourceGroup{},
	}
}

func (c *runCache) baseConfig(ctx context.Context, resourceType string) (*domain.BaseConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cfg, ok := c.base[resourceType]; ok {
		return cfg, nil
	}
	cfg, err := c.source.GetBaseConfig(ctx, resourceType)
	if err != nil {
		return nil, err
	}
	c.base[resourceType] = cfg
	return cfg, nil
}

func (c *runCache) groupsFor(ctx context.Context, resourceType string) ([]domain.ResourceGroup, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if groups, ok := c.groups[resourceType]; ok {
		return groups, nil
	}
	groups, err := c.source.ListGroups(ctx, resourceType)
	if err != nil {
		return nil, err
	}
	c.groups[resourceType] = groups
	return groups, nil
}
