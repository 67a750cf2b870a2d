// Package quarters - календарная арифметика отчетных кварталов
package quarters

import (
	"fmt"
	"math"
	"time"
)

// CurrentQuarter возвращает номер квартала (1-4) для даты
func CurrentQuarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// QuarterEnd возвращает последний день квартала.
// Фиксированный календарь: 31 марта, 30 июня, 30 сентября, 31 декабря.
func QuarterEnd(year, quarter int) time.Time {
	switch quarter {
	case 1:
		return time.Date(year, time.March, 31, 0, 0, 0, 0, time.Local)
	case 2:
		return time.Date(year, time.June, 30, 0, 0, 0, 0, time.Local)
	case 3:
		return time.Date(year, time.September, 30, 0, 0, 0, 0, time.Local)
	default:
		return time.Date(year, time.December, 31, 0, 0, 0, 0, time.Local)
	}
}

// DaysUntilQuarterEnd возвращает число дней до конца текущего квартала
// (ceil). Отрицательное значение означает, что дедлайн уже прошел.
func DaysUntilQuarterEnd(now time.Time) int {
	end := QuarterEnd(now.Year(), CurrentQuarter(now))
	diff := end.Sub(now).Hours() / 24
	return int(math.Ceil(diff))
}

// Label возвращает метку периода вида "Q1 2025"
func Label(year, quarter int) string {
	return fmt.Sprintf("Q%d %d", quarter, year)
}

// Period - пара (год, квартал)
type Period struct {
	Year    int
	Quarter int
}

// Walk возвращает n последовательных периодов, заканчивающихся
// (year, quarter), от старшего к текущему. Квартал <= 0 занимает год.
func Walk(year, quarter, n int) []Period {
	periods := make([]Period, 0, n)
	for i := n - 1; i >= 0; i-- {
		y, q := year, quarter-i
		for q <= 0 {
			q += 4
			y--
		}
		periods = append(periods, Period{Year: y, Quarter: q})
	}
	return periods
}
