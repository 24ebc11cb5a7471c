package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{
			name:   "обычный месяц без переполнения",
			start:  date(2024, time.March, 15),
			months: 1,
			want:   date(2024, time.April, 15),
		},
		{
			name:   "31 января прижимается к концу февраля",
			start:  date(2025, time.January, 31),
			months: 1,
			want:   date(2025, time.February, 28),
		},
		{
			name:   "31 января в високосном году",
			start:  date(2024, time.January, 31),
			months: 1,
			want:   date(2024, time.February, 29),
		},
		{
			name:   "31 марта прижимается к 30 апреля",
			start:  date(2024, time.March, 31),
			months: 1,
			want:   date(2024, time.April, 30),
		},
		{
			name:   "переход через декабрь",
			start:  date(2024, time.December, 10),
			months: 1,
			want:   date(2025, time.January, 10),
		},
		{
			name:   "двенадцать месяцев эквивалентны году",
			start:  date(2024, time.June, 30),
			months: 12,
			want:   date(2025, time.June, 30),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddMonths(tt.start, tt.months)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddYears(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		years int
		want  time.Time
	}{
		{
			name:  "обычная дата",
			start: date(2024, time.May, 10),
			years: 1,
			want:  date(2025, time.May, 10),
		},
		{
			name:  "29 февраля високосного года прижимается к 28 февраля",
			start: date(2024, time.February, 29),
			years: 1,
			want:  date(2025, time.February, 28),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddYears(tt.start, tt.years)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddMonthsPreservesClock(t *testing.T) {
	start := time.Date(2024, time.January, 31, 13, 45, 30, 0, time.UTC)
	got := AddMonths(start, 1)
	assert.Equal(t, time.Date(2024, time.February, 29, 13, 45, 30, 0, time.UTC), got)
}
