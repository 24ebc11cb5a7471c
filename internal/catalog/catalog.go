// Package catalog содержит справочник тарифных планов и промокодов.
// Справочник неизменяемый и внедряется в сервисы как зависимость,
// чтобы в тестах его можно было подменить.
package catalog

import (
	"sort"
	"strings"
)

// Tier — уровень тарифа.
type Tier string

// Interval — период оплаты тарифа.
type Interval string

const (
	// TierStandard — базовый тариф.
	TierStandard Tier = "standard"
	// TierPro — расширенный тариф.
	TierPro Tier = "pro"

	// IntervalMonthly — помесячная оплата.
	IntervalMonthly Interval = "monthly"
	// IntervalYearly — оплата за год.
	IntervalYearly Interval = "yearly"
)

// Plan описывает тарифный план: комбинацию уровня и периода оплаты
// с базовой ценой в минорных единицах валюты.
type Plan struct {
	ID        string   `json:"id"`
	Tier      Tier     `json:"tier"`
	Interval  Interval `json:"interval"`
	BasePrice int64    `json:"base_price"`
}

// DiscountCode описывает промокод. Код действует ровно на один уровень
// тарифа и задаёт цену за месяц вместо базовой.
type DiscountCode struct {
	Code         string
	Tier         Tier
	MonthlyPrice int64
}

// Catalog — справочник планов и промокодов, доступный только для чтения.
type Catalog struct {
	plans     map[string]Plan
	discounts map[string]DiscountCode
}

// New собирает каталог из списков планов и промокодов.
// Коды промокодов нормализуются к нижнему регистру.
func New(plans []Plan, codes []DiscountCode) *Catalog {
	c := &Catalog{
		plans:     make(map[string]Plan, len(plans)),
		discounts: make(map[string]DiscountCode, len(codes)),
	}
	for _, p := range plans {
		c.plans[p.ID] = p
	}
	for _, d := range codes {
		c.discounts[strings.ToLower(d.Code)] = d
	}
	return c
}

// Default возвращает каталог с актуальными ценами.
func Default() *Catalog {
	return New(
		[]Plan{
			{ID: "standard_monthly", Tier: TierStandard, Interval: IntervalMonthly, BasePrice: 1600000},
			{ID: "standard_yearly", Tier: TierStandard, Interval: IntervalYearly, BasePrice: 17280000},
			{ID: "pro_monthly", Tier: TierPro, Interval: IntervalMonthly, BasePrice: 2900000},
			{ID: "pro_yearly", Tier: TierPro, Interval: IntervalYearly, BasePrice: 31320000},
		},
		[]DiscountCode{
			{Code: "LAUNCH40", Tier: TierStandard, MonthlyPrice: 700000},
			{Code: "TEAMPRO", Tier: TierPro, MonthlyPrice: 1900000},
		},
	)
}

// Plan возвращает план по идентификатору.
func (c *Catalog) Plan(id string) (Plan, bool) {
	p, ok := c.plans[id]
	return p, ok
}

// Discount возвращает промокод, поиск не чувствителен к регистру.
func (c *Catalog) Discount(code string) (DiscountCode, bool) {
	d, ok := c.discounts[strings.ToLower(strings.TrimSpace(code))]
	return d, ok
}

// Plans возвращает все планы каталога, отсортированные по идентификатору.
func (c *Catalog) Plans() []Plan {
	result := make([]Plan, 0, len(c.plans))
	for _, p := range c.plans {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
