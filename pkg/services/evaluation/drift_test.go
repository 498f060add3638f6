package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/manuvikash/Thanos/pkg/models/domain"
)

func TestDriftScore(t *testing.T) {
	assert.Equal(t, 0.0, DriftScore(0))
	assert.Equal(t, 0.1, DriftScore(1))
	assert.Equal(t, 0.5, DriftScore(5))
	assert.Equal(t, 1.0, DriftScore(10))
	assert.Equal(t, 1.0, DriftScore(25))
}

func TestDriftSeverity(t *testing.T) {
	cases := []struct {
		differences int
		want        domain.Severity
	}{
		{1, domain.SeverityLow},
		{5, domain.SeverityLow},
		{6, domain.SeverityMedium},
		{10, domain.SeverityMedium},
		{11, domain.SeverityHigh},
		{40, domain.SeverityHigh},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DriftSeverity(tc.differences), "differences=%d", tc.differences)
	}
}
