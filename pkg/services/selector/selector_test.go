package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manuvikash/Thanos/pkg/models/domain"
)

func bucket(arn string, metadata map[string]any) *domain.Resource {
	return &domain.Resource{
		ARN:          arn,
		ResourceType: "AWS::S3::Bucket",
		Metadata:     metadata,
	}
}

func TestMatches_EmptySelectorMatchesEverything(t *testing.T) {
	ok, err := Matches(bucket("arn:aws:s3:::anything", nil), domain.Selector{})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Matches(bucket("arn:aws:s3:::anything", nil), nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMatches_TagsMapForm(t *testing.T) {
	r := bucket("arn:aws:s3:::prod-data", map[string]any{
		"Tags": map[string]any{"Environment": "production", "Team": "core"},
	})

	ok, err := Matches(r, domain.Selector{"tags": map[string]any{"Environment": "production"}})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Matches(r, domain.Selector{"tags": map[string]any{"Environment": "staging"}})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Matches(r, domain.Selector{"tags": map[string]any{"Missing": "x"}})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatches_TagsListFormNormalized(t *testing.T) {
	r := bucket("arn:aws:s3:::prod-data", map[string]any{
		"Tags": []any{
			map[string]any{"Key": "Environment", "Value": "production"},
		},
	})

	ok, err := Matches(r, domain.Selector{"tags": map[string]any{"Environment": "production"}})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMatches_ARNPatternIsPrefixMatch(t *testing.T) {
	r := bucket("arn:aws:s3:::prod-data", nil)

	ok, err := Matches(r, domain.Selector{"arn_pattern": `arn:aws:s3.*`})
	require.NoError(t, err)
	assert.True(t, ok)

	// Pattern matching mid-string only must not match: semantics are
	// match-at-start, not search.
	ok, err = Matches(r, domain.Selector{"arn_pattern": `prod-.*`})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatches_NamePattern(t *testing.T) {
	sg := &domain.Resource{
		ARN:          "arn:aws:ec2:us-east-1:123456789012:security-group/sg-prod-web",
		ResourceType: "AWS::EC2::SecurityGroup",
	}

	ok, err := Matches(sg, domain.Selector{"name_pattern": `sg-prod-.*`})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Matches(sg, domain.Selector{"name_pattern": `sg-dev-.*`})
	require.NoError(t, err)
	assert.False(t, ok)

	// No "/" in the ARN: name falls back to the part after the last ":".
	policy := bucket("arn:aws:s3:::my-bucket", nil)
	ok, err = Matches(policy, domain.Selector{"name_pattern": `my-bucket`})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMatches_UnknownKeysIgnored(t *testing.T) {
	ok, err := Matches(bucket("arn:aws:s3:::b", nil), domain.Selector{"future_predicate": 123})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMatches_AllPredicatesANDed(t *testing.T) {
	r := bucket("arn:aws:s3:::prod-data", map[string]any{
		"Tags": map[string]any{"Environment": "production"},
	})

	sel := domain.Selector{
		"tags":        map[string]any{"Environment": "production"},
		"arn_pattern": `arn:aws:s3`,
	}
	ok, err := Matches(r, sel)
	require.NoError(t, err)
	assert.True(t, ok)

	sel["arn_pattern"] = `arn:aws:ec2`
	ok, err = Matches(r, sel)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompile_BadRegexIsAnError(t *testing.T) {
	_, err := Compile(domain.Selector{"arn_pattern": `([unclosed`})
	assert.Error(t, err)
}

func TestRegister_CustomPredicate(t *testing.T) {
	Register("region", func(arg any) (Predicate, error) {
		want, _ := arg.(string)
		return predicateFunc(func(r *domain.Resource) bool { return r.Region == want }), nil
	})
	defer delete(builders, "region")

	r := bucket("arn:aws:s3:::b", nil)
	r.Region = "us-east-1"

	ok, err := Matches(r, domain.Selector{"region": "us-east-1"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Matches(r, domain.Selector{"region": "eu-west-1"})
	require.NoError(t, err)
	assert.False(t, ok)
}

type predicateFunc func(r *domain.Resource) bool

func (f predicateFunc) Matches(r *domain.Resource) bool { return f(r) }
