// Package pricing содержит расчёт стоимости тарифного плана с учётом промокода.
//
// Расчёт чистый и детерминированный: одинаковые входные данные всегда дают
// одинаковую стоимость, что позволяет воспроизвести любой исторический платёж
// по сохранённым метаданным транзакции.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/magabrotheeeer/subscription-billing/internal/catalog"
)

// ErrUnknownPlan — идентификатор плана отсутствует в каталоге.
var ErrUnknownPlan = errors.New("unknown plan")

// discountSuffix — суффикс идентификатора плана, которым клиент помечает
// запрос цены со скидкой. Отбрасывается перед поиском в каталоге.
const discountSuffix = "_discounted"

// yearlyMultiplier — фиксированный множитель месячной цены промокода для
// годовых планов, кодирует годовую скидку.
const yearlyMultiplier = 10.8

// Quote — результат расчёта стоимости.
type Quote struct {
	Plan                catalog.Plan
	OriginalAmount      int64   // Базовая цена плана
	FinalAmount         int64   // Цена к оплате с учётом промокода
	AppliedDiscountCode *string // Применённый промокод (nil, если не применён)
}

// Service рассчитывает стоимость планов по каталогу.
type Service struct {
	catalog *catalog.Catalog
}

// New создаёт сервис расчёта стоимости.
func New(c *catalog.Catalog) *Service {
	return &Service{catalog: c}
}

// Quote возвращает стоимость плана planID с учётом промокода discountCode.
//
// Промокод задаёт месячную цену для одного уровня тарифа; для годового плана
// месячная цена умножается на yearlyMultiplier с округлением до ближайшей
// минорной единицы. Промокод чужого уровня молча игнорируется, неизвестный
// план возвращает ErrUnknownPlan.
func (s *Service) Quote(planID, discountCode string) (*Quote, error) {
	const op = "pricing.Quote"

	planKey := strings.TrimSuffix(planID, discountSuffix)
	plan, ok := s.catalog.Plan(planKey)
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", op, planKey, ErrUnknownPlan)
	}

	quote := &Quote{
		Plan:           plan,
		OriginalAmount: plan.BasePrice,
		FinalAmount:    plan.BasePrice,
	}

	if discountCode == "" {
		return quote, nil
	}

	discount, ok := s.catalog.Discount(discountCode)
	if !ok || discount.Tier != plan.Tier {
		return quote, nil
	}

	final := discount.MonthlyPrice
	if plan.Interval == catalog.IntervalYearly {
		final = int64(math.Round(float64(discount.MonthlyPrice) * yearlyMultiplier))
	}
	quote.FinalAmount = final
	code := discount.Code
	quote.AppliedDiscountCode = &code

	return quote, nil
}
