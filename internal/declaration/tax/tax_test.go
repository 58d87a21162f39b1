package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeBrackets(t *testing.T) {
	tests := []struct {
		name            string
		totalIncome     float64
		totalDeductions float64
		wantDue         float64
		wantRefund      float64
	}{
		{"zero income", 0, 0, 0, 0},
		{"inside first bracket", 1000, 0, 100, 0},
		{"first bracket upper bound inclusive", 20_000, 0, 2000, 0},
		{"just past first bracket", 20_000.01, 0, 2000.002, 0},
		{"second bracket upper bound inclusive", 50_000, 0, 8000, 0},
		{"top bracket", 100_000, 0, 23_000, 0},
		{"deductions reduce taxable income", 100_000, 60_000, 6000, 54_000},
		{"deductions exceed income", 10_000, 15_000, 0, 15_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.totalIncome, tt.totalDeductions)
			assert.InDelta(t, tt.wantDue, got.TaxDue, 1e-9)
			assert.InDelta(t, tt.wantRefund, got.TaxRefund, 1e-9)
		})
	}
}

// Marginal rates must not re-tax lower brackets: the liability is continuous
// and non-decreasing in income at fixed deductions.
func TestComputeMonotonicAndContinuous(t *testing.T) {
	var prev float64
	for income := 0.0; income <= 120_000; income += 500 {
		got := Compute(income, 0)
		assert.GreaterOrEqual(t, got.TaxDue, prev, "income %.0f", income)
		prev = got.TaxDue
	}

	// Around each bracket boundary the jump stays proportional to the step.
	for _, bound := range []float64{20_000, 50_000} {
		below := Compute(bound-0.01, 0).TaxDue
		above := Compute(bound+0.01, 0).TaxDue
		assert.InDelta(t, below, above, 0.01)
	}
}

func TestRefundNeverNegative(t *testing.T) {
	got := Compute(500_000, 100)
	assert.Equal(t, 0.0, got.TaxRefund)
	assert.Greater(t, got.TaxDue, 0.0)
}
