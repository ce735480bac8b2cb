package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateCheck(t *testing.T) {
	t.Parallel()

	policy := GatePolicy{MaxLossStreak: 3, MaxDrawdown: d("0.10")}

	tests := []struct {
		name    string
		balance string
		peak    string
		streak  int
		allowed bool
	}{
		{"healthy account", "1000", "1000", 0, true},
		{"streak below cap", "1000", "1000", 2, true},
		{"streak at cap", "1000", "1000", 3, false},
		{"streak above cap", "1000", "1000", 5, false},
		{"below drawdown floor", "890", "1000", 0, false},
		{"exactly at drawdown floor", "900", "1000", 0, true},
		{"just above floor", "900.01", "1000", 0, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := policy.Check(d(tt.balance), d(tt.peak), tt.streak)
			assert.Equal(t, tt.allowed, got.Allowed)
			if !tt.allowed {
				assert.NotEmpty(t, got.Reason)
			}
		})
	}
}

func TestGateCheck_StreakWinsOverDrawdown(t *testing.T) {
	t.Parallel()

	// Both limits breached; the streak reason is reported first.
	policy := GatePolicy{MaxLossStreak: 2, MaxDrawdown: d("0.05")}
	got := policy.Check(d("500"), d("1000"), 4)
	assert.False(t, got.Allowed)
	assert.Contains(t, got.Reason, "loss streak")
}
