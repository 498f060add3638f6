package evaluation

import "github.com/manuvikash/Thanos/pkg/models/domain"

// driftScoreDivisor normalizes the difference count: 10 or more differing
// paths saturate the score at 1.0.
const driftScoreDivisor = 10.0

// DriftScore maps a difference count to [0.0, 1.0], linear and capped.
func DriftScore(differences int) float64 {
	score := float64(differences) / driftScoreDivisor
	if score > 1.0 {
		return 1.0
	}
	return score
}

// DriftSeverity maps a difference count to a severity: LOW up to 5, MEDIUM
// from 6 to 10, HIGH above 10.
func DriftSeverity(differences int) domain.Severity {
	switch {
	case differences <= 5:
		return domain.SeverityLow
	case differences <= 10:
		return domain.SeverityMedium
	default:
		return domain.SeverityHigh
	}
}
