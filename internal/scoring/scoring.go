// Package scoring содержит чистые детерминированные формулы оценки
// item'ов прогноза: риск, текучесть, ROI, сроки закрытия позиций.
// Все функции работают с нормализованными item'ами (см. models.ForecastItem.Normalized).
package scoring

import (
	"math"

	"workforce-forecast/internal/models"
)

// Фиксированные константы формул
const (
	// Сумма номинальных максимумов семи факторов риска:
	// 100 + 50 + 50 + 40 + 35 + 40 + 30.
	// Номинальный максимум фактора зарплатной конкурентности - 50
	// (как если бы рейтинг мог быть 0), это запас, а не пересчитываемая граница.
	riskDenominator = 345.0

	// Условная ценность одного найма для ROI
	valuePerHire = 150000.0

	// Экономия от удержания на один найм
	retentionValuePerHire = 50000.0

	// Отраслевой ориентир стоимости найма
	industryCostPerHire = 75000.0

	// Базовый срок закрытия позиции в днях
	baseTimeToFillDays = 30.0
)

// Градации риска текучести
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// ItemRiskScore вычисляет композитный риск позиции по семи факторам.
// Результат намеренно НЕ ограничивается сверху: большое число недавних
// увольнений может вывести оценку за 100, и вызывающие стороны обязаны
// это учитывать.
func ItemRiskScore(item models.ForecastItem) int {
	n := item.Normalized()

	factors := []float64{
		n.HistoricalAttritionRate * 100,
		float64(n.RecentResignations) * 10,
		float64(5-n.SalaryCompetitiveness) * 10,
		float64(5-n.WorkLifeBalance) * 8,
		float64(5-n.CareerGrowthOpportunities) * 7,
		float64(n.CriticalSkillsGap) * 8,
		float64(n.MarketDemand) * 6,
	}

	total := 0.0
	for _, f := range factors {
		total += f
	}

	return int(math.Round(total / riskDenominator * 100))
}

// AttritionRiskBucket переводит риск в градацию low/medium/high.
// Пороговые значения привязаны к тому же значению ItemRiskScore,
// которое используется везде - второй формулы нет.
func AttritionRiskBucket(score int) string {
	if score < 30 {
		return RiskLow
	}
	if score < 60 {
		return RiskMedium
	}
	return RiskHigh
}

// SalaryGapPercent возвращает отставание текущей зарплаты от рынка в процентах.
// При нулевой текущей зарплате возвращает 0, а не Inf/NaN.
func SalaryGapPercent(item models.ForecastItem) float64 {
	if item.CurrentAverageSalary == 0 {
		return 0
	}
	return (item.MarketBenchmarkSalary - item.CurrentAverageSalary) / item.CurrentAverageSalary * 100
}

// PredictedROI оценивает отдачу на вложенный зарплатный бюджет
func PredictedROI(item models.ForecastItem) float64 {
	if item.SalaryBudget <= 0 {
		return 0
	}
	return float64(item.ForecastCount) * valuePerHire / item.SalaryBudget
}

// EstimatedTimeToFillDays оценивает срок закрытия позиции в днях
func EstimatedTimeToFillDays(item models.ForecastItem) int {
	n := item.Normalized()
	days := baseTimeToFillDays * (float64(n.CriticalSkillsGap) / 3) * (float64(n.MarketDemand) / 3)
	return int(math.Round(days))
}

// BudgetEfficiency оценивает эффективность затрат на найм относительно
// отраслевого ориентира, результат в [0, 100]
func BudgetEfficiency(avgCostPerHire float64) float64 {
	return math.Max(100-avgCostPerHire/industryCostPerHire*100, 0)
}

// StrategicPriority возвращает метку приоритета позиции по ее риску
func StrategicPriority(riskScore int) string {
	if riskScore > 70 {
		return "High"
	}
	if riskScore > 50 {
		return "Medium"
	}
	return "Low"
}

// AvgTimeToFillDays возвращает средний срок закрытия по набору item'ов
func AvgTimeToFillDays(items []models.ForecastItem) int {
	if len(items) == 0 {
		return 0
	}

	total := 0.0
	for _, item := range items {
		n := item.Normalized()
		total += baseTimeToFillDays * (float64(n.CriticalSkillsGap) / 3) * (float64(n.MarketDemand) / 3)
	}

	return int(math.Round(total / float64(len(items))))
}

// ROIAnalysis - итоги оценки возврата инвестиций по набору item'ов
type ROIAnalysis struct {
	AvgROI           float64 `json:"avg_roi"`
	TotalInvestment  float64 `json:"total_investment"`
	EstimatedReturns float64 `json:"estimated_returns"`
}

// AnalyzeROI считает суммарные вложения и ожидаемую отдачу:
// продуктивность новых наймов плюс экономия от удержания.
func AnalyzeROI(items []models.ForecastItem) ROIAnalysis {
	var investment, returns float64

	for _, item := range items {
		investment += item.SalaryBudget + item.OneTimeCost + item.CostPerHire

		productivity := float64(item.ForecastCount) * valuePerHire
		retention := float64(item.ForecastCount) * (1 - item.HistoricalAttritionRate) * retentionValuePerHire
		returns += productivity + retention
	}

	analysis := ROIAnalysis{
		TotalInvestment:  investment,
		EstimatedReturns: returns,
	}
	if investment > 0 {
		analysis.AvgROI = math.Round(returns/investment*10) / 10
	}

	return analysis
}
