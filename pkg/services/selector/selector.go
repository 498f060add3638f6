// Package selector decides whether a resource belongs to a resource group or
// rule. A selector is a set of named predicates combined with logical AND; an
// empty selector matches everything. Unknown predicate names are ignored for
// forward compatibility. New predicates can be added via Register.
package selector

import (
	"fmt"
	"regexp"

	"github.com/manuvikash/Thanos/pkg/models/domain"
)

// Predicate is one compiled selector clause.
type Predicate interface {
	Matches(r *domain.Resource) bool
}

// Builder compiles the raw selector value for one predicate key.
type Builder func(arg any) (Predicate, error)

var builders = map[string]Builder{
	"tags":         buildTagsPredicate,
	"arn_pattern":  buildARNPredicate,
	"name_pattern": buildNamePredicate,
}

// Register installs a predicate builder under the given selector key,
// replacing any existing builder for that key.
func Register(key string, builder Builder) {
	builders[key] = builder
}

// Matcher is a compiled selector. The zero-clause matcher matches everything.
type Matcher struct {
	predicates []Predicate
}

func (m Matcher) Matches(r *domain.Resource) bool {
	for _, p := range m.predicates {
		if !p.Matches(r) {
			return false
		}
	}
	return true
}

// Compile turns a raw selector into a Matcher. Malformed predicate values
// (e.g. an unparseable regular expression) are configuration errors; the
// caller is expected to log and skip the owning rule or group.
func Compile(sel domain.Selector) (Matcher, error) {
	var predicates []Predicate
	for key, arg := range sel {
		builder, ok := builders[key]
		if !ok {
			continue
		}
		p, err := builder(arg)
		if err != nil {
			return Matcher{}, fmt.Errorf("selector key %q: %w", key, err)
		}
		predicates = append(predicates, p)
	}
	return Matcher{predicates: predicates}, nil
}

// Matches compiles sel and applies it to r in one step.
func Matches(r *domain.Resource, sel domain.Selector) (bool, error) {
	m, err := Compile(sel)
	if err != nil {
		return false, err
	}
	return m.Matches(r), nil
}

type tagsPredicate struct {
	required map[string]string
}

func buildTagsPredicate(arg any) (Predicate, error) {
	required := map[string]string{}
	switch typed := arg.(type) {
	case map[string]string:
		required = typed
	case map[string]any:
		for k, v := range typed {
			required[k] = fmt.Sprintf("%v", v)
		}
	default:
		return nil, fmt.Errorf("tags selector must be a mapping, got %T", arg)
	}
	return tagsPredicate{required: required}, nil
}

func (p tagsPredicate) Matches(r *domain.Resource) bool {
	tags := normalizeTags(r.Metadata["Tags"])
	for key, want := range p.required {
		got, ok := tags[key]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// normalizeTags accepts tags either as a mapping or as the AWS list form
// [{Key: ..., Value: ...}, ...] and returns a plain mapping.
func normalizeTags(raw any) map[string]string {
	tags := map[string]string{}
	switch typed := raw.(type) {
	case map[string]string:
		return typed
	case map[string]any:
		for k, v := range typed {
			tags[k] = fmt.Sprintf("%v", v)
		}
	case []any:
		for _, item := range typed {
			pair, ok := item.(map[string]any)
			if !ok {
				continue
			}
			key, _ := pair["Key"].(string)
			if key == "" {
				continue
			}
			tags[key] = fmt.Sprintf("%v", pair["Value"])
		}
	}
	return tags
}

type regexPredicate struct {
	re   *regexp.Regexp
	text func(r *domain.Resource) string
}

func (p regexPredicate) Matches(r *domain.Resource) bool {
	return p.re.MatchString(p.text(r))
}

// compilePrefix compiles pattern with match-at-start semantics: the pattern
// must match a prefix of the subject, not necessarily the whole of it.
func compilePrefix(arg any) (*regexp.Regexp, error) {
	pattern, ok := arg.(string)
	if !ok {
		return nil, fmt.Errorf("pattern must be a string, got %T", arg)
	}
	return regexp.Compile(`\A(?:` + pattern + `)`)
}

func buildARNPredicate(arg any) (Predicate, error) {
	re, err := compilePrefix(arg)
	if err != nil {
		return nil, err
	}
	return regexPredicate{re: re, text: func(r *domain.Resource) string { return r.ARN }}, nil
}

func buildNamePredicate(arg any) (Predicate, error) {
	re, err := compilePrefix(arg)
	if err != nil {
		return nil, err
	}
	return regexPredicate{re: re, text: func(r *domain.Resource) string { return r.Name() }}, nil
}
