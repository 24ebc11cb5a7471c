package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-billing/internal/catalog"
)

func TestService_Quote(t *testing.T) {
	svc := New(catalog.Default())

	tests := []struct {
		name         string
		planID       string
		discountCode string
		wantOriginal int64
		wantFinal    int64
		wantApplied  *string
		wantErr      error
	}{
		{
			name:         "месячный план без промокода",
			planID:       "standard_monthly",
			wantOriginal: 1600000,
			wantFinal:    1600000,
		},
		{
			name:         "промокод на месячный план своего уровня",
			planID:       "standard_monthly",
			discountCode: "LAUNCH40",
			wantOriginal: 1600000,
			wantFinal:    700000,
			wantApplied:  strPtr("LAUNCH40"),
		},
		{
			name:         "промокод на годовой план умножается на годовой коэффициент",
			planID:       "standard_yearly",
			discountCode: "LAUNCH40",
			wantOriginal: 17280000,
			wantFinal:    7560000, // round(700000 * 10.8)
			wantApplied:  strPtr("LAUNCH40"),
		},
		{
			name:         "промокод чужого уровня молча игнорируется",
			planID:       "standard_monthly",
			discountCode: "TEAMPRO",
			wantOriginal: 1600000,
			wantFinal:    1600000,
		},
		{
			name:         "неизвестный промокод игнорируется",
			planID:       "pro_monthly",
			discountCode: "DOESNOTEXIST",
			wantOriginal: 2900000,
			wantFinal:    2900000,
		},
		{
			name:         "промокод в другом регистре",
			planID:       "standard_monthly",
			discountCode: "launch40",
			wantOriginal: 1600000,
			wantFinal:    700000,
			wantApplied:  strPtr("LAUNCH40"),
		},
		{
			name:         "суффикс скидки отбрасывается перед поиском плана",
			planID:       "standard_monthly_discounted",
			discountCode: "LAUNCH40",
			wantOriginal: 1600000,
			wantFinal:    700000,
			wantApplied:  strPtr("LAUNCH40"),
		},
		{
			name:    "неизвестный план",
			planID:  "enterprise_monthly",
			wantErr: ErrUnknownPlan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := svc.Quote(tt.planID, tt.discountCode)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOriginal, quote.OriginalAmount)
			assert.Equal(t, tt.wantFinal, quote.FinalAmount)
			if tt.wantApplied == nil {
				assert.Nil(t, quote.AppliedDiscountCode)
			} else {
				require.NotNil(t, quote.AppliedDiscountCode)
				assert.Equal(t, *tt.wantApplied, *quote.AppliedDiscountCode)
			}
		})
	}
}

// Quote детерминирован: повторный расчёт с теми же входными данными
// возвращает те же суммы.
func TestService_QuoteDeterministic(t *testing.T) {
	svc := New(catalog.Default())

	first, err := svc.Quote("pro_yearly", "TEAMPRO")
	require.NoError(t, err)
	for range 5 {
		again, err := svc.Quote("pro_yearly", "TEAMPRO")
		require.NoError(t, err)
		assert.Equal(t, first.FinalAmount, again.FinalAmount)
		assert.Equal(t, first.OriginalAmount, again.OriginalAmount)
	}
}

func strPtr(s string) *string { return &s }
