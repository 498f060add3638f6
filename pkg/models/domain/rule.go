package domain

type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

type CheckKind string

const (
	CheckEquals            CheckKind = "equals"
	CheckForbiddenAny      CheckKind = "forbidden-any"
	CheckForbiddenCIDRPort CheckKind = "forbidden-cidr-port"
	CheckGoldenConfig      CheckKind = "golden-config"
)

// Check is the kind-specific payload of a rule. Path uses dot notation with
// optional [*] list expansion.
type Check struct {
	Kind      CheckKind
	Path      string
	Expected  any
	Forbidden []string
	Params    map[string]any
}

// Rule is a legacy check-based evaluation unit. Rules are immutable once
// loaded for an evaluation pass.
type Rule struct {
	ID           string
	ResourceType string
	Check        Check
	Severity     Severity
	Message      string
	Selector     Selector
}
