// Package period реализует календарную арифметику для расчёта срока подписки.
//
// Стандартный time.AddDate нормализует переполнение дня (31 января + 1 месяц
// даёт 2/3 марта), что для биллинга неприемлемо. Здесь действует явная
// политика: день прижимается к последнему дню целевого месяца.
package period

import "time"

// AddMonths прибавляет n календарных месяцев. Если в целевом месяце
// меньше дней, чем в исходной дате, день прижимается к последнему дню
// целевого месяца: 31 января + 1 месяц = 28 (29) февраля.
func AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()

	totalMonths := int(month) - 1 + n
	targetYear := year + totalMonths/12
	targetMonth := time.Month(totalMonths%12 + 1)
	if totalMonths%12 < 0 {
		targetYear--
		targetMonth += 12
	}

	if last := daysIn(targetYear, targetMonth); day > last {
		day = last
	}
	return time.Date(targetYear, targetMonth, day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// AddYears прибавляет n календарных лет с той же политикой прижатия:
// 29 февраля 2024 + 1 год = 28 февраля 2025.
func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, n*12)
}

func daysIn(year int, month time.Month) int {
	// День 0 следующего месяца — последний день текущего.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
