// Package rules loads rule packs for the rule-based evaluation mode. A pack
// is a YAML document carrying a list of checks; packs can live on local disk
// or in an object store fronted by the Fetcher interface.
package rules

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/manuvikash/Thanos/pkg/models/domain"
	"github.com/manuvikash/Thanos/pkg/services/selector"
)

// Fetcher retrieves a raw rule pack from a remote location, typically an S3
// object.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// Pack is one parsed rule pack.
type Pack struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Rules   []rule `yaml:"rules"`
}

type rule struct {
	ID           string          `yaml:"id"`
	ResourceType string          `yaml:"resource_type"`
	Severity     string          `yaml:"severity"`
	Message      string          `yaml:"message"`
	Selector     map[string]any  `yaml:"selector"`
	Check        check           `yaml:"check"`
}

type check struct {
	Kind      string         `yaml:"kind"`
	Path      string         `yaml:"path"`
	Expected  any            `yaml:"expected"`
	Forbidden []string       `yaml:"forbidden"`
	Params    map[string]any `yaml:"params"`
}

// Parse decodes and validates a single rule pack document.
func Parse(data []byte) ([]domain.Rule, error) {
	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("parsing rule pack: %w", err)
	}
	return pack.toDomain()
}

// LoadFile loads one rule pack from disk.
func LoadFile(path string) ([]domain.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule pack %s: %w", path, err)
	}
	rules, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rule pack %s: %w", path, err)
	}
	return rules, nil
}

// LoadDir loads every .yaml/.yml pack in a directory, in lexical order.
// Rule IDs must be unique across the whole directory.
func LoadDir(dir string) ([]domain.Rule, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading rule pack dir %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var all []domain.Rule
	seen := map[string]string{}
	for _, name := range names {
		rules, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		for _, r := range rules {
			if prev, dup := seen[r.ID]; dup {
				return nil, fmt.Errorf("rule pack %s: rule %s already defined in %s", name, r.ID, prev)
			}
			seen[r.ID] = name
		}
		all = append(all, rules...)
	}
	return all, nil
}

// TenantPacks resolves and loads per-tenant rule packs through a Fetcher.
type TenantPacks struct {
	fetcher Fetcher
	keyFor  func(tenantID string) string
}

func NewTenantPacks(fetcher Fetcher, keyFor func(tenantID string) string) (*TenantPacks, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is nil")
	}
	if keyFor == nil {
		return nil, fmt.Errorf("key resolver is nil")
	}
	return &TenantPacks{fetcher: fetcher, keyFor: keyFor}, nil
}

// Load fetches the tenant's pack and parses it.
func (p *TenantPacks) Load(ctx context.Context, tenantID string) ([]domain.Rule, error) {
	return LoadRemote(ctx, p.fetcher, p.keyFor(tenantID))
}

// LoadRemote fetches and parses a pack via the Fetcher.
func LoadRemote(ctx context.Context, fetcher Fetcher, key string) ([]domain.Rule, error) {
	data, err := fetcher.Fetch(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetching rule pack %s: %w", key, err)
	}
	rules, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rule pack %s: %w", key, err)
	}
	return rules, nil
}

func (p *Pack) toDomain() ([]domain.Rule, error) {
	seen := map[string]struct{}{}
	out := make([]domain.Rule, 0, len(p.Rules))
	for i, r := range p.Rules {
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("rules[%d]: duplicate rule id %s", i, r.ID)
		}
		seen[r.ID] = struct{}{}

		out = append(out, domain.Rule{
			ID:           r.ID,
			ResourceType: r.ResourceType,
			Severity:     domain.Severity(r.Severity),
			Message:      r.Message,
			Selector:     domain.Selector(r.Selector),
			Check: domain.Check{
				Kind:      domain.CheckKind(r.Check.Kind),
				Path:      r.Check.Path,
				Expected:  r.Check.Expected,
				Forbidden: r.Check.Forbidden,
				Params:    r.Check.Params,
			},
		})
	}
	return out, nil
}

func (r rule) validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule id is required")
	}
	if r.ResourceType == "" {
		return fmt.Errorf("rule %s: resource_type is required", r.ID)
	}
	switch domain.Severity(r.Severity) {
	case domain.SeverityLow, domain.SeverityMedium, domain.SeverityHigh:
	default:
		return fmt.Errorf("rule %s: invalid severity %q", r.ID, r.Severity)
	}
	if _, err := selector.Compile(domain.Selector(r.Selector)); err != nil {
		return fmt.Errorf("rule %s: invalid selector: %w", r.ID, err)
	}

	switch domain.CheckKind(r.Check.Kind) {
	case domain.CheckEquals:
		if r.Check.Path == "" {
			return fmt.Errorf("rule %s: equals check requires a path", r.ID)
		}
	case domain.CheckForbiddenAny:
		if r.Check.Path == "" {
			return fmt.Errorf("rule %s: forbidden-any check requires a path", r.ID)
		}
		if len(r.Check.Forbidden) == 0 {
			return fmt.Errorf("rule %s: forbidden-any check requires forbidden values", r.ID)
		}
	case domain.CheckForbiddenCIDRPort:
		if r.Check.Path == "" {
			return fmt.Errorf("rule %s: forbidden-cidr-port check requires a path", r.ID)
		}
		if _, ok := r.Check.Params["port"]; !ok {
			return fmt.Errorf("rule %s: forbidden-cidr-port check requires a port param", r.ID)
		}
		if _, ok := r.Check.Params["cidr"].(string); !ok {
			return fmt.Errorf("rule %s: forbidden-cidr-port check requires a cidr param", r.ID)
		}
	case domain.CheckGoldenConfig:
		if r.Check.Expected == nil {
			return fmt.Errorf("rule %s: golden-config check requires an expected config", r.ID)
		}
	default:
		return fmt.Errorf("rule %s: unknown check kind %q", r.ID, r.Check.Kind)
	}
	return nil
}
