package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce-forecast/internal/models"
)

// Риск 96/345*100 = 27.83 -> 28
func itemLowRisk() models.ForecastItem {
	return models.ForecastItem{
		Position:                  "Backend Engineer",
		WorkforceType:             models.WorkforceFullTime,
		CurrentCount:              5,
		ForecastCount:             7,
		SalaryBudget:              300000,
		CostPerHire:               15000,
		HistoricalAttritionRate:   0.1,
		RecentResignations:        1,
		CriticalSkillsGap:         2,
		MarketDemand:              3,
		SalaryCompetitiveness:     3,
		WorkLifeBalance:           4,
		CareerGrowthOpportunities: 3,
	}
}

// Риск 160/345*100 = 46.38 -> 46
func itemMediumRisk() models.ForecastItem {
	return models.ForecastItem{
		Position:                  "Data Analyst",
		WorkforceType:             models.WorkforceFullTime,
		CurrentCount:              6,
		ForecastCount:             4,
		SalaryBudget:              200000,
		HistoricalAttritionRate:   0.3,
		RecentResignations:        3,
		CriticalSkillsGap:         4,
		MarketDemand:              3,
		SalaryCompetitiveness:     3,
		WorkLifeBalance:           3,
		CareerGrowthOpportunities: 3,
	}
}

func TestSummarize(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)

	forecasts := []*models.Forecast{
		{Status: models.StatusApproved, TotalBudget: 315000, Items: []models.ForecastItem{itemLowRisk()}},
		{Status: models.StatusSubmitted, TotalBudget: 200000, Items: []models.ForecastItem{itemMediumRisk()}},
	}

	summary := svc.Summarize(forecasts)

	assert.Equal(t, 2, summary.TotalForecasts)
	assert.Equal(t, 1, summary.ApprovedForecasts)
	assert.Equal(t, 1, summary.SubmittedForecasts)
	assert.Equal(t, 0, summary.DraftForecasts)
	assert.Equal(t, 11, summary.TotalPositions)
	assert.Equal(t, 515000.0, summary.TotalBudget)
	assert.Equal(t, 15000.0, summary.TotalRecruitmentCosts)
	// (28 + 46) / 2 = 37
	assert.Equal(t, 37, summary.AverageRiskScore)
	// (0.1 + 0.3) / 2 * 100 = 20
	assert.Equal(t, 20, summary.AverageHistoricalAttrition)
}

func TestStatusDistributionDropsZeroSlices(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)

	slices := svc.StatusDistribution(Summary{ApprovedForecasts: 3, DraftForecasts: 1})

	require.Len(t, slices, 2)
	assert.Equal(t, "Approved", slices[0].Name)
	assert.Equal(t, 3, slices[0].Value)
	assert.Equal(t, "Draft", slices[1].Name)
}

func TestByDepartmentAccumulatesAcrossForecasts(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)

	engineering := &models.Department{ID: 1, Name: "Engineering", Code: "ENG"}

	// Два прогноза одного департамента: агрегаты должны накапливаться,
	// а не перезаписываться последним прогнозом
	forecasts := []*models.Forecast{
		{DepartmentID: 1, Department: engineering, TotalBudget: 315000, Items: []models.ForecastItem{itemLowRisk()}},
		{DepartmentID: 1, Department: engineering, TotalBudget: 200000, Items: []models.ForecastItem{itemMediumRisk()}},
	}

	rollups := svc.ByDepartment(forecasts)

	require.Len(t, rollups, 1)
	rollup := rollups[0]
	assert.Equal(t, 2, rollup.TotalForecasts)
	assert.Equal(t, 11, rollup.TotalPositions)
	assert.Equal(t, 515000.0, rollup.TotalBudget)
	// (+2) + (-2) = 0
	assert.Equal(t, 0, rollup.Variance)
	assert.Equal(t, 37, rollup.RiskScore)
	assert.Equal(t, 20, rollup.AttritionRisk)
}

func TestByDepartmentKeepsInsertionOrder(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)

	forecasts := []*models.Forecast{
		{DepartmentID: 2, Department: &models.Department{ID: 2, Name: "Sales"}},
		{DepartmentID: 1, Department: &models.Department{ID: 1, Name: "Engineering"}},
		{DepartmentID: 2, Department: &models.Department{ID: 2, Name: "Sales"}},
	}

	rollups := svc.ByDepartment(forecasts)

	require.Len(t, rollups, 2)
	assert.Equal(t, "Sales", rollups[0].Department.Name)
	assert.Equal(t, 2, rollups[0].TotalForecasts)
	assert.Equal(t, "Engineering", rollups[1].Department.Name)
}

func TestAttritionPredictionEmptyItems(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)
	svc.now = func() time.Time {
		return time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	}

	points := svc.AttritionPrediction(nil)

	require.Len(t, points, 6)
	assert.Equal(t, "Feb 2025", points[0].Month)
	assert.Equal(t, "Jul 2025", points[5].Month)

	for i, point := range points {
		assert.Equal(t, 0, point.Predicted)
		assert.Equal(t, 0, point.Current)
		assert.Equal(t, 90-i*3, point.Confidence)
	}
}

func TestAttritionPredictionBaseline(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)
	svc.now = func() time.Time {
		return time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	}

	points := svc.AttritionPrediction([]models.ForecastItem{itemLowRisk()})

	require.Len(t, points, 6)
	// baseline 10%, riskFactor 0.28: 10 * 1.2 * 1.28 * 1 * 0.3 = 4.6 -> 5
	assert.Equal(t, 5, points[0].Predicted)
	// 10 * 1 * 0.2 = 2
	assert.Equal(t, 2, points[0].Current)
}

func TestRiskFactorRadarEmptyItems(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)

	factors := svc.RiskFactorRadar(nil)

	require.Len(t, factors, 6)
	for _, factor := range factors {
		assert.Equal(t, 0.0, factor.Value)
		assert.Equal(t, 100, factor.FullMark)
	}
}

func TestStrategicScoreEmptyPortfolio(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)

	// Без данных: 100 - 0 + 0 + 0
	assert.Equal(t, 100, svc.StrategicScore(nil, nil))
}

func TestStrategicScore(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)

	items := []models.ForecastItem{itemLowRisk(), itemMediumRisk()}
	forecasts := []*models.Forecast{
		{Status: models.StatusApproved},
		{Status: models.StatusSubmitted},
	}

	// 100 - 37*0.4 + 50*0.3 + 90*0.3 = 127.2 -> 127
	assert.Equal(t, 127, svc.StrategicScore(items, forecasts))
}

func TestPrioritiesThresholds(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)

	item := itemMediumRisk()
	item.CriticalSkillsGap = 5
	item.CurrentAverageSalary = 80000
	item.MarketBenchmarkSalary = 100000

	actions := svc.Priorities([]models.ForecastItem{item})

	require.Len(t, actions, 4)
	assert.Equal(t, "Address Critical Skills Gap", actions[0].Action)
	assert.Equal(t, "High", actions[0].Urgency)
	assert.Equal(t, 95.0, actions[0].Impact)

	// Разрыв зарплаты 25% > 15%
	assert.Equal(t, "Salary Market Adjustment", actions[1].Action)
	assert.Equal(t, "High", actions[1].Urgency)

	assert.Equal(t, "Process Optimization", actions[3].Action)
	assert.Equal(t, "Low", actions[3].Urgency)
}

func TestPrioritiesEmptyItems(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)

	actions := svc.Priorities(nil)

	require.Len(t, actions, 1)
	assert.Equal(t, "Process Optimization", actions[0].Action)
}

func TestGrowthTrendWalksFiveQuarters(t *testing.T) {
	env := newTestEnv(t)
	department := env.seedDepartment(t, "Engineering", "ENG")
	hod := env.seedUser(t, "Alice", "alice@example.com", models.RoleHOD, &department.ID)

	svc := NewAnalyticsService(env.forecastRepo, env.departmentRepo)

	previous := &models.Forecast{
		DepartmentID: department.ID,
		SubmittedBy:  hod.ID,
		Year:         2024,
		Quarter:      4,
		Status:       models.StatusApproved,
		TotalBudget:  200000,
		Items:        []models.ForecastItem{itemMediumRisk()},
	}
	require.NoError(t, env.forecastRepo.Create(previous))

	current := &models.Forecast{
		DepartmentID: department.ID,
		SubmittedBy:  hod.ID,
		Year:         2025,
		Quarter:      1,
		Status:       models.StatusSubmitted,
		TotalBudget:  315000,
		Items:        []models.ForecastItem{itemLowRisk()},
	}
	require.NoError(t, env.forecastRepo.Create(current))

	points, err := svc.GrowthTrend(2025, 1)
	require.NoError(t, err)
	require.Len(t, points, 5)

	assert.Equal(t, "Q1 2024", points[0].Period)
	assert.Equal(t, "Q1 2025", points[4].Period)

	// Пустые кварталы дают нулевые точки
	assert.Equal(t, 0, points[0].Positions)
	assert.Equal(t, 0.0, points[0].Budget)

	assert.Equal(t, 4, points[3].Positions)
	assert.Equal(t, 200.0, points[3].Budget)
	assert.Equal(t, 7, points[4].Positions)
	assert.Equal(t, 315.0, points[4].Budget)
}

func TestFlattenItems(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)

	forecasts := []*models.Forecast{{
		ID:           42,
		Status:       models.StatusSubmitted,
		Department:   &models.Department{Name: "Engineering", Code: "ENG"},
		Submitter:    &models.User{Name: "Alice"},
		Items:        []models.ForecastItem{itemLowRisk()},
		DepartmentID: 1,
	}}

	flat := svc.FlattenItems(forecasts)

	require.Len(t, flat, 1)
	assert.Equal(t, "Engineering", flat[0].Department)
	assert.Equal(t, "Alice", flat[0].SubmittedBy)
	assert.Equal(t, uint(42), flat[0].ForecastRef)
	assert.Equal(t, 28, flat[0].RiskScore)
	assert.Equal(t, "low", flat[0].AttritionRisk)
	assert.Equal(t, 2, flat[0].VarianceValue)
}
