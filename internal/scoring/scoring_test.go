package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"workforce-forecast/internal/models"
)

func neutralItem() models.ForecastItem {
	return models.ForecastItem{
		Position:                  "Engineer",
		WorkforceType:             models.WorkforceFullTime,
		HistoricalAttritionRate:   0,
		RecentResignations:        0,
		CriticalSkillsGap:         3,
		MarketDemand:              3,
		SalaryCompetitiveness:     3,
		WorkLifeBalance:           3,
		CareerGrowthOpportunities: 3,
	}
}

func TestItemRiskScoreNeutral(t *testing.T) {
	// (0 + 0 + 20 + 16 + 14 + 24 + 18) / 345 * 100 = 26.67 -> 27
	assert.Equal(t, 27, ItemRiskScore(neutralItem()))
}

func TestItemRiskScoreDefaultsForMissingRatings(t *testing.T) {
	item := neutralItem()
	item.CriticalSkillsGap = 0
	item.MarketDemand = 0
	item.SalaryCompetitiveness = 0
	item.WorkLifeBalance = 0
	item.CareerGrowthOpportunities = 0

	// незаполненные рейтинги нормализуются к 3
	assert.Equal(t, 27, ItemRiskScore(item))
}

func TestItemRiskScoreNotClamped(t *testing.T) {
	item := neutralItem()
	item.HistoricalAttritionRate = 1
	item.RecentResignations = 40

	score := ItemRiskScore(item)
	assert.Greater(t, score, 100, "score must not be clamped to 100")
}

func TestItemRiskScoreWorstCaseRatings(t *testing.T) {
	item := neutralItem()
	item.HistoricalAttritionRate = 1
	item.RecentResignations = 5
	item.SalaryCompetitiveness = 1
	item.WorkLifeBalance = 1
	item.CareerGrowthOpportunities = 1
	item.CriticalSkillsGap = 5
	item.MarketDemand = 5

	// (100 + 50 + 40 + 32 + 28 + 40 + 30) / 345 * 100 = 92.75 -> 93
	assert.Equal(t, 93, ItemRiskScore(item))
}

func TestAttritionRiskBucket(t *testing.T) {
	tests := []struct {
		score  int
		bucket string
	}{
		{0, RiskLow},
		{29, RiskLow},
		{30, RiskMedium},
		{59, RiskMedium},
		{60, RiskHigh},
		{120, RiskHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.bucket, AttritionRiskBucket(tt.score), "score %d", tt.score)
	}
}

func TestBucketKeyedToRiskScore(t *testing.T) {
	item := neutralItem()
	item.HistoricalAttritionRate = 0.5
	item.RecentResignations = 2

	score := ItemRiskScore(item)
	bucket := AttritionRiskBucket(score)

	// градация всегда считается от того же значения, что и риск
	switch {
	case score < 30:
		assert.Equal(t, RiskLow, bucket)
	case score < 60:
		assert.Equal(t, RiskMedium, bucket)
	default:
		assert.Equal(t, RiskHigh, bucket)
	}
}

func TestSalaryGapPercent(t *testing.T) {
	item := neutralItem()
	item.CurrentAverageSalary = 100000
	item.MarketBenchmarkSalary = 120000

	assert.InDelta(t, 20.0, SalaryGapPercent(item), 0.001)
}

func TestSalaryGapPercentZeroSalary(t *testing.T) {
	item := neutralItem()
	item.CurrentAverageSalary = 0
	item.MarketBenchmarkSalary = 120000

	gap := SalaryGapPercent(item)
	assert.Equal(t, 0.0, gap)
	assert.False(t, math.IsNaN(gap))
	assert.False(t, math.IsInf(gap, 0))
}

func TestPredictedROI(t *testing.T) {
	item := neutralItem()
	item.ForecastCount = 2
	item.SalaryBudget = 200000

	assert.InDelta(t, 1.5, PredictedROI(item), 0.001)
}

func TestPredictedROIZeroBudget(t *testing.T) {
	item := neutralItem()
	item.ForecastCount = 2
	item.SalaryBudget = 0

	assert.Equal(t, 0.0, PredictedROI(item))
}

func TestEstimatedTimeToFillDays(t *testing.T) {
	item := neutralItem()
	assert.Equal(t, 30, EstimatedTimeToFillDays(item))

	item.CriticalSkillsGap = 5
	item.MarketDemand = 5
	// 30 * 5/3 * 5/3 = 83.33 -> 83
	assert.Equal(t, 83, EstimatedTimeToFillDays(item))
}

func TestBudgetEfficiency(t *testing.T) {
	assert.InDelta(t, 100.0, BudgetEfficiency(0), 0.001)
	assert.InDelta(t, 0.0, BudgetEfficiency(75000), 0.001)
	// не уходит в минус при затратах выше ориентира
	assert.Equal(t, 0.0, BudgetEfficiency(200000))
}

func TestStrategicPriority(t *testing.T) {
	assert.Equal(t, "Low", StrategicPriority(50))
	assert.Equal(t, "Medium", StrategicPriority(51))
	assert.Equal(t, "Medium", StrategicPriority(70))
	assert.Equal(t, "High", StrategicPriority(71))
}

func TestAnalyzeROI(t *testing.T) {
	item := neutralItem()
	item.ForecastCount = 1
	item.SalaryBudget = 100000
	item.OneTimeCost = 10000
	item.CostPerHire = 5000
	item.HistoricalAttritionRate = 0.2

	analysis := AnalyzeROI([]models.ForecastItem{item})

	assert.InDelta(t, 115000.0, analysis.TotalInvestment, 0.001)
	// 150000 + (1 - 0.2) * 50000 = 190000
	assert.InDelta(t, 190000.0, analysis.EstimatedReturns, 0.001)
	assert.InDelta(t, 1.7, analysis.AvgROI, 0.001)
}

func TestAnalyzeROIEmpty(t *testing.T) {
	analysis := AnalyzeROI(nil)
	assert.Equal(t, 0.0, analysis.AvgROI)
	assert.Equal(t, 0.0, analysis.TotalInvestment)
}
