package evaluation

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/manuvikash/Thanos/pkg/models/domain"
	"github.com/manuvikash/Thanos/pkg/services/confmerge"
	"github.com/manuvikash/Thanos/pkg/services/confpath"
	"github.com/manuvikash/Thanos/pkg/services/selector"
)

// EvaluateRule runs a single rule against a resource and returns a finding
// when the check fails. Configuration errors (unknown check kind, malformed
// parameters, bad selector regex) are logged and yield no finding.
func EvaluateRule(ctx context.Context, resource *domain.Resource, rule domain.Rule) *domain.Finding {
	logger := zerolog.Ctx(ctx)

	if resource.ResourceType != rule.ResourceType {
		return nil
	}

	ok, err := selector.Matches(resource, rule.Selector)
	if err != nil {
		logger.Warn().Err(err).Str("rule", rule.ID).Msg("invalid rule selector, skipping")
		return nil
	}
	if !ok {
		return nil
	}

	switch rule.Check.Kind {
	case domain.CheckEquals:
		return evaluateEquals(resource, rule)
	case domain.CheckForbiddenAny:
		return evaluateForbiddenAny(resource, rule)
	case domain.CheckForbiddenCIDRPort:
		return evaluateForbiddenCIDRPort(ctx, resource, rule)
	case domain.CheckGoldenConfig:
		return evaluateGoldenConfig(resource, rule)
	default:
		logger.Warn().Str("rule", rule.ID).Str("kind", string(rule.Check.Kind)).Msg("unknown check kind, skipping")
		return nil
	}
}

func evaluateEquals(resource *domain.Resource, rule domain.Rule) *domain.Finding {
	observed := confpath.Get(resource.Config, rule.Check.Path)
	if confmerge.ValuesEqual(observed, rule.Check.Expected) {
		return nil
	}
	return domain.NewFinding(rule, resource, observed, rule.Check.Expected)
}

func evaluateForbiddenAny(resource *domain.Resource, rule domain.Rule) *domain.Finding {
	observed := confpath.Get(resource.Config, rule.Check.Path)

	var values []any
	switch typed := observed.(type) {
	case nil:
	case []any:
		values = confpath.Flatten(typed)
	default:
		values = []any{observed}
	}

	forbidden := map[string]struct{}{}
	for _, f := range rule.Check.Forbidden {
		forbidden[f] = struct{}{}
	}

	seen := map[string]struct{}{}
	var violations []string
	for _, v := range values {
		if v == nil {
			continue
		}
		s := fmt.Sprintf("%v", v)
		if _, bad := forbidden[s]; bad {
			if _, dup := seen[s]; !dup {
				seen[s] = struct{}{}
				violations = append(violations, s)
			}
		}
	}
	if len(violations) == 0 {
		return nil
	}
	sort.Strings(violations)

	expected := fmt.Sprintf("none of %v", rule.Check.Forbidden)
	return domain.NewFinding(rule, resource, violations, expected)
}

func evaluateForbiddenCIDRPort(ctx context.Context, resource *domain.Resource, rule domain.Rule) *domain.Finding {
	permissions, ok := confpath.Get(resource.Config, rule.Check.Path).([]any)
	if !ok {
		return nil
	}

	port, portOK := asFloat(rule.Check.Params["port"])
	cidr, cidrOK := rule.Check.Params["cidr"].(string)
	if !portOK || !cidrOK {
		zerolog.Ctx(ctx).Warn().
			Str("rule", rule.ID).
			Interface("params", rule.Check.Params).
			Msg("forbidden-cidr-port check missing port/cidr params, skipping")
		return nil
	}

	var violations []any
	for _, item := range permissions {
		permission, ok := item.(map[string]any)
		if !ok {
			continue
		}
		fromPort, fromOK := asFloat(permission["FromPort"])
		toPort, toOK := asFloat(permission["ToPort"])
		if !fromOK || !toOK || fromPort > port || port > toPort {
			continue
		}
		ranges, _ := permission["IpRanges"].([]any)
		for _, r := range ranges {
			ipRange, ok := r.(map[string]any)
			if !ok {
				continue
			}
			if ipRange["CidrIp"] == cidr {
				violations = append(violations, map[string]any{
					"port":      port,
					"cidr":      cidr,
					"from_port": fromPort,
					"to_port":   toPort,
				})
			}
		}
	}
	if len(violations) == 0 {
		return nil
	}

	expected := fmt.Sprintf("port %v not open to %s", port, cidr)
	return domain.NewFinding(rule, resource, violations, expected)
}

func evaluateGoldenConfig(resource *domain.Resource, rule domain.Rule) *domain.Finding {
	var observed any = resource.Config
	if rule.Check.Path != "" {
		observed = confpath.Get(resource.Config, rule.Check.Path)
	}
	if confmerge.ValuesEqual(observed, rule.Check.Expected) {
		return nil
	}
	return domain.NewFinding(rule, resource, observed, rule.Check.Expected)
}

// asFloat widens JSON- and YAML-decoded numbers to float64 for comparison.
func asFloat(v any) (float64, bool) {
	switch typed := v.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	default:
		return 0, false
	}
}
