package domain

// Tenant is one scanned AWS account. Collection assumes RoleARN in the
// target account; Regions lists where regional services are scanned, with
// global services collected from the first region only.
type Tenant struct {
	ID        string
	AccountID string
	RoleARN   string
	Regions   []string
}
