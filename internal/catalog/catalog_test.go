package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Plan(t *testing.T) {
	c := Default()

	plan, ok := c.Plan("standard_monthly")
	require.True(t, ok)
	assert.Equal(t, TierStandard, plan.Tier)
	assert.Equal(t, IntervalMonthly, plan.Interval)
	assert.Equal(t, int64(1600000), plan.BasePrice)

	_, ok = c.Plan("enterprise_monthly")
	assert.False(t, ok)
}

func TestCatalog_DiscountCaseInsensitive(t *testing.T) {
	c := Default()

	tests := []struct {
		name string
		code string
		want bool
	}{
		{name: "точное совпадение", code: "LAUNCH40", want: true},
		{name: "нижний регистр", code: "launch40", want: true},
		{name: "пробелы по краям", code: "  Launch40  ", want: true},
		{name: "неизвестный код", code: "NOPE", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := c.Discount(tt.code)
			assert.Equal(t, tt.want, ok)
			if ok {
				assert.Equal(t, TierStandard, d.Tier)
				assert.Equal(t, int64(700000), d.MonthlyPrice)
			}
		})
	}
}

func TestCatalog_PlansSorted(t *testing.T) {
	c := Default()
	plans := c.Plans()
	require.Len(t, plans, 4)
	for i := 1; i < len(plans); i++ {
		assert.Less(t, plans[i-1].ID, plans[i].ID)
	}
}
