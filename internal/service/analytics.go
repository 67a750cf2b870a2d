package service

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"workforce-forecast/internal/models"
	"workforce-forecast/internal/repository"
	"workforce-forecast/internal/scoring"
	"workforce-forecast/pkg/quarters"
)

// Summary - сводные показатели по набору прогнозов
type Summary struct {
	TotalDepartments           int64   `json:"total_departments"`
	TotalForecasts             int     `json:"total_forecasts"`
	DraftForecasts             int     `json:"draft_forecasts"`
	SubmittedForecasts         int     `json:"submitted_forecasts"`
	ReviewedForecasts          int     `json:"reviewed_forecasts"`
	ApprovedForecasts          int     `json:"approved_forecasts"`
	RejectedForecasts          int     `json:"rejected_forecasts"`
	TotalPositions             int     `json:"total_positions"`
	TotalBudget                float64 `json:"total_budget"`
	TotalOneTimeCosts          float64 `json:"total_one_time_costs"`
	TotalRecruitmentCosts      float64 `json:"total_recruitment_costs"`
	AverageRiskScore           int     `json:"average_risk_score"`
	AverageHistoricalAttrition int     `json:"average_historical_attrition"`
}

// StatusSlice - одна доля распределения статусов
type StatusSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// DepartmentRollup - агрегат по одному департаменту.
// Риск и текучесть считаются по всем item'ам всех прогнозов департамента
// накопительным счетчиком, а не по последнему обработанному прогнозу.
type DepartmentRollup struct {
	Department     *models.Department `json:"department"`
	TotalForecasts int                `json:"total_forecasts"`
	TotalPositions int                `json:"total_positions"`
	TotalBudget    float64            `json:"total_budget"`
	Variance       int                `json:"variance"`
	RiskScore      int                `json:"risk_score"`
	AttritionRisk  int                `json:"attrition_risk"`
}

// AttritionPoint - одна точка прогноза текучести
type AttritionPoint struct {
	Month      string `json:"month"`
	Predicted  int    `json:"predicted"`
	Current    int    `json:"current"`
	Confidence int    `json:"confidence"`
}

// RiskFactor - одна ось радара факторов риска
type RiskFactor struct {
	Factor   string  `json:"factor"`
	Value    float64 `json:"value"`
	FullMark int     `json:"full_mark"`
}

// TrendPoint - одна точка тренда роста по кварталам
type TrendPoint struct {
	Period    string  `json:"period"`
	Positions int     `json:"positions"`
	Budget    float64 `json:"budget"` // в тысячах
	RiskScore float64 `json:"risk_score"`
}

// PriorityAction - рекомендованное действие со срочностью и эффектом
type PriorityAction struct {
	Action  string  `json:"action"`
	Urgency string  `json:"urgency"`
	Impact  float64 `json:"impact"`
}

// FlatItem - item прогноза, развернутый для детального анализа
type FlatItem struct {
	models.ForecastItem
	Department     string `json:"department"`
	DepartmentCode string `json:"department_code"`
	SubmittedBy    string `json:"submitted_by"`
	Status         string `json:"status"`
	ForecastRef    uint   `json:"forecast_ref"`
	RiskScore      int    `json:"risk_score"`
	AttritionRisk  string `json:"attrition_risk"`
	VarianceValue  int    `json:"variance"`
}

// AnalyticsPayload - ответ расширенной аналитики
type AnalyticsPayload struct {
	StrategicScore      int                 `json:"strategic_score"`
	AvgROI              float64             `json:"avg_roi"`
	AvgTimeToFill       int                 `json:"avg_time_to_fill"`
	AttritionPrediction []AttritionPoint    `json:"attrition_prediction"`
	RiskFactors         []RiskFactor        `json:"risk_factors"`
	GrowthTrend         []TrendPoint        `json:"growth_trend"`
	Priorities          []PriorityAction    `json:"priorities"`
	ROI                 scoring.ROIAnalysis `json:"roi"`
	GeneratedAt         time.Time           `json:"generated_at"`
}

// Сезонные множители текучести на 6 месяцев вперед
var seasonalFactors = [6]float64{1.2, 1.1, 1.3, 1.0, 0.9, 1.1}

// AnalyticsService сворачивает прогнозы в сводки, разрезы по департаментам
// и расширенную аналитику. Только чтение, работает поверх снимка стора.
type AnalyticsService struct {
	forecastRepo   repository.ForecastRepository
	departmentRepo repository.DepartmentRepository
	logger         *logrus.Logger
	now            func() time.Time
}

func NewAnalyticsService(
	forecastRepo repository.ForecastRepository,
	departmentRepo repository.DepartmentRepository,
) *AnalyticsService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &AnalyticsService{
		forecastRepo:   forecastRepo,
		departmentRepo: departmentRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// Summarize считает сводку по набору прогнозов
func (s *AnalyticsService) Summarize(forecasts []*models.Forecast) Summary {
	summary := Summary{TotalForecasts: len(forecasts)}

	if s.departmentRepo != nil {
		if count, err := s.departmentRepo.Count(); err == nil {
			summary.TotalDepartments = count
		} else {
			s.logger.WithError(err).Warn("Failed to count departments")
		}
	}

	var riskSum, attritionSum float64
	itemCount := 0

	for _, forecast := range forecasts {
		switch forecast.Status {
		case models.StatusDraft:
			summary.DraftForecasts++
		case models.StatusSubmitted:
			summary.SubmittedForecasts++
		case models.StatusReviewed:
			summary.ReviewedForecasts++
		case models.StatusApproved:
			summary.ApprovedForecasts++
		case models.StatusRejected:
			summary.RejectedForecasts++
		}

		summary.TotalBudget += forecast.TotalBudget

		for _, item := range forecast.Items {
			summary.TotalPositions += item.ForecastCount
			summary.TotalOneTimeCosts += item.OneTimeCost
			summary.TotalRecruitmentCosts += item.CostPerHire

			riskSum += float64(scoring.ItemRiskScore(item))
			attritionSum += item.HistoricalAttritionRate
			itemCount++
		}
	}

	if itemCount > 0 {
		summary.AverageRiskScore = int(math.Round(riskSum / float64(itemCount)))
		summary.AverageHistoricalAttrition = int(math.Round(attritionSum / float64(itemCount) * 100))
	}

	return summary
}

// StatusDistribution строит распределение статусов для диаграмм,
// нулевые доли отбрасываются
func (s *AnalyticsService) StatusDistribution(summary Summary) []StatusSlice {
	slices := []StatusSlice{
		{Name: "Submitted", Value: summary.SubmittedForecasts, Color: "#0088FE"},
		{Name: "Approved", Value: summary.ApprovedForecasts, Color: "#00C49F"},
		{Name: "Rejected", Value: summary.RejectedForecasts, Color: "#FF8042"},
		{Name: "Reviewed", Value: summary.ReviewedForecasts, Color: "#8884D8"},
		{Name: "Draft", Value: summary.DraftForecasts, Color: "#FFBB28"},
	}

	result := make([]StatusSlice, 0, len(slices))
	for _, slice := range slices {
		if slice.Value > 0 {
			result = append(result, slice)
		}
	}

	return result
}

// ByDepartment группирует прогнозы по департаментам с накопительными
// агрегатами риска и текучести
func (s *AnalyticsService) ByDepartment(forecasts []*models.Forecast) []DepartmentRollup {
	type accumulator struct {
		rollup       DepartmentRollup
		riskSum      float64
		attritionSum float64
		itemCount    int
	}

	byID := make(map[uint]*accumulator)
	order := []uint{}

	for _, forecast := range forecasts {
		acc, ok := byID[forecast.DepartmentID]
		if !ok {
			acc = &accumulator{rollup: DepartmentRollup{Department: forecast.Department}}
			byID[forecast.DepartmentID] = acc
			order = append(order, forecast.DepartmentID)
		}

		acc.rollup.TotalForecasts++
		acc.rollup.TotalBudget += forecast.TotalBudget

		for _, item := range forecast.Items {
			acc.rollup.TotalPositions += item.ForecastCount
			acc.rollup.Variance += item.Variance()
			acc.riskSum += float64(scoring.ItemRiskScore(item))
			acc.attritionSum += item.HistoricalAttritionRate
			acc.itemCount++
		}
	}

	rollups := make([]DepartmentRollup, 0, len(order))
	for _, id := range order {
		acc := byID[id]
		if acc.itemCount > 0 {
			acc.rollup.RiskScore = int(math.Round(acc.riskSum / float64(acc.itemCount)))
			acc.rollup.AttritionRisk = int(math.Round(acc.attritionSum / float64(acc.itemCount) * 100))
		}
		rollups = append(rollups, acc.rollup)
	}

	return rollups
}

// AttritionPrediction строит прогноз текучести на 6 месяцев вперед.
// Пустой набор item'ов дает нулевую базу, а не NaN.
func (s *AnalyticsService) AttritionPrediction(items []models.ForecastItem) []AttritionPoint {
	baseline := 0.0
	riskFactor := 0.0

	if len(items) > 0 {
		var attritionSum, riskSum float64
		for _, item := range items {
			attritionSum += item.HistoricalAttritionRate
			riskSum += float64(scoring.ItemRiskScore(item))
		}
		baseline = attritionSum / float64(len(items)) * 100
		riskFactor = riskSum / float64(len(items)) / 100
	}

	start := s.now()
	points := make([]AttritionPoint, 0, len(seasonalFactors))

	for i := 0; i < len(seasonalFactors); i++ {
		month := start.AddDate(0, i+1, 0)
		points = append(points, AttritionPoint{
			Month:      month.Format("Jan 2006"),
			Predicted:  int(math.Round(baseline * seasonalFactors[i] * (1 + riskFactor) * float64(i+1) * 0.3)),
			Current:    int(math.Round(baseline * float64(i+1) * 0.2)),
			Confidence: maxInt(90-i*3, 70),
		})
	}

	return points
}

// RiskFactorRadar считает шесть фиксированных осей радара рисков
func (s *AnalyticsService) RiskFactorRadar(items []models.ForecastItem) []RiskFactor {
	if len(items) == 0 {
		return []RiskFactor{
			{Factor: "Salary Gap", FullMark: 100},
			{Factor: "Skills Shortage", FullMark: 100},
			{Factor: "Market Demand", FullMark: 100},
			{Factor: "Work-Life Balance", FullMark: 100},
			{Factor: "Career Growth", FullMark: 100},
			{Factor: "Job Security", FullMark: 100},
		}
	}

	n := float64(len(items))
	var gapSum, skillsSum, demandSum, wlbSum, careerSum, resignationSum float64

	for _, raw := range items {
		item := raw.Normalized()
		gapSum += math.Max(scoring.SalaryGapPercent(item), 0)
		skillsSum += float64(item.CriticalSkillsGap)
		demandSum += float64(item.MarketDemand)
		wlbSum += float64(item.WorkLifeBalance)
		careerSum += float64(item.CareerGrowthOpportunities)
		resignationSum += float64(item.RecentResignations)
	}

	return []RiskFactor{
		{Factor: "Salary Gap", Value: math.Min(gapSum/n*2, 100), FullMark: 100},
		{Factor: "Skills Shortage", Value: skillsSum / n * 20, FullMark: 100},
		{Factor: "Market Demand", Value: demandSum / n * 20, FullMark: 100},
		{Factor: "Work-Life Balance", Value: (5 - wlbSum/n) * 25, FullMark: 100},
		{Factor: "Career Growth", Value: (5 - careerSum/n) * 25, FullMark: 100},
		{Factor: "Job Security", Value: resignationSum / n * 10, FullMark: 100},
	}
}

// GrowthTrend возвращает пять кварталов истории, заканчивая текущим периодом
func (s *AnalyticsService) GrowthTrend(year, quarter int) ([]TrendPoint, error) {
	if year == 0 {
		now := s.now()
		year = now.Year()
		quarter = quarters.CurrentQuarter(now)
	}

	points := make([]TrendPoint, 0, 5)

	for _, period := range quarters.Walk(year, quarter, 5) {
		forecasts, err := s.forecastRepo.ListByPeriod(period.Year, period.Quarter)
		if err != nil {
			return nil, err
		}

		point := TrendPoint{Period: quarters.Label(period.Year, period.Quarter)}
		var riskSum float64
		itemCount := 0

		for _, forecast := range forecasts {
			point.Budget += forecast.TotalBudget
			for _, item := range forecast.Items {
				point.Positions += item.ForecastCount
				riskSum += float64(scoring.ItemRiskScore(item))
				itemCount++
			}
		}

		point.Budget /= 1000
		if itemCount > 0 {
			point.RiskScore = riskSum / float64(itemCount)
		}

		points = append(points, point)
	}

	return points, nil
}

// StrategicScore - композитная оценка портфеля прогнозов
func (s *AnalyticsService) StrategicScore(items []models.ForecastItem, forecasts []*models.Forecast) int {
	meanRisk := 0.0
	if len(items) > 0 {
		var riskSum float64
		for _, item := range items {
			riskSum += float64(scoring.ItemRiskScore(item))
		}
		meanRisk = riskSum / float64(len(items))
	}

	approvalRate := 0.0
	if len(forecasts) > 0 {
		approved := 0
		for _, forecast := range forecasts {
			if forecast.Status == models.StatusApproved {
				approved++
			}
		}
		approvalRate = float64(approved) / float64(len(forecasts)) * 100
	}

	budgetEfficiency := 0.0
	if len(items) > 0 {
		var costSum float64
		for _, item := range items {
			costSum += item.CostPerHire
		}
		budgetEfficiency = scoring.BudgetEfficiency(costSum / float64(len(items)))
	}

	return int(math.Round(100 - meanRisk*0.4 + approvalRate*0.3 + budgetEfficiency*0.3))
}

// Priorities формирует список рекомендованных действий
func (s *AnalyticsService) Priorities(items []models.ForecastItem) []PriorityAction {
	if len(items) == 0 {
		return []PriorityAction{
			{Action: "Process Optimization", Urgency: "Low", Impact: 45},
		}
	}

	n := float64(len(items))
	highRisk, salaryGap, skillsGap := 0, 0, 0

	for _, item := range items {
		if scoring.ItemRiskScore(item) > 70 {
			highRisk++
		}
		if scoring.SalaryGapPercent(item.Normalized()) > 15 {
			salaryGap++
		}
		if item.Normalized().CriticalSkillsGap >= 4 {
			skillsGap++
		}
	}

	urgencyIf := func(condition bool, fallback string) string {
		if condition {
			return "High"
		}
		return fallback
	}

	highRiskUrgency := "Low"
	if highRisk > 0 {
		highRiskUrgency = "High"
	}

	return []PriorityAction{
		{
			Action:  "Address Critical Skills Gap",
			Urgency: urgencyIf(float64(skillsGap) > n*0.3, "Medium"),
			Impact:  math.Min(float64(skillsGap)/n*100, 95),
		},
		{
			Action:  "Salary Market Adjustment",
			Urgency: urgencyIf(float64(salaryGap) > n*0.2, "Medium"),
			Impact:  math.Min(float64(salaryGap)/n*100, 85),
		},
		{
			Action:  "High-Risk Position Retention",
			Urgency: highRiskUrgency,
			Impact:  math.Min(float64(highRisk)/n*100, 90),
		},
		{
			Action:  "Process Optimization",
			Urgency: "Low",
			Impact:  45,
		},
	}
}

// FlattenItems разворачивает прогнозы в плоский список item'ов
// с контекстом департамента и статуса
func (s *AnalyticsService) FlattenItems(forecasts []*models.Forecast) []FlatItem {
	items := []FlatItem{}

	for _, forecast := range forecasts {
		department, code, submitter := "", "", ""
		if forecast.Department != nil {
			department = forecast.Department.Name
			code = forecast.Department.Code
		}
		if forecast.Submitter != nil {
			submitter = forecast.Submitter.Name
		}

		for _, item := range forecast.Items {
			score := scoring.ItemRiskScore(item)
			items = append(items, FlatItem{
				ForecastItem:   item,
				Department:     department,
				DepartmentCode: code,
				SubmittedBy:    submitter,
				Status:         forecast.Status,
				ForecastRef:    forecast.ID,
				RiskScore:      score,
				AttritionRisk:  scoring.AttritionRiskBucket(score),
				VarianceValue:  item.Variance(),
			})
		}
	}

	return items
}

// AdvancedAnalytics собирает полный аналитический ответ по фильтру периода
func (s *AnalyticsService) AdvancedAnalytics(filter repository.ForecastFilter) (*AnalyticsPayload, error) {
	forecasts, err := s.forecastRepo.List(filter)
	if err != nil {
		return nil, err
	}

	items := allItems(forecasts)

	year, quarter := 0, 0
	if filter.Year != nil && filter.Quarter != nil {
		year = *filter.Year
		quarter = *filter.Quarter
	}
	trend, err := s.GrowthTrend(year, quarter)
	if err != nil {
		return nil, err
	}

	return &AnalyticsPayload{
		StrategicScore:      s.StrategicScore(items, forecasts),
		AvgROI:              scoring.AnalyzeROI(items).AvgROI,
		AvgTimeToFill:       scoring.AvgTimeToFillDays(items),
		AttritionPrediction: s.AttritionPrediction(items),
		RiskFactors:         s.RiskFactorRadar(items),
		GrowthTrend:         trend,
		Priorities:          s.Priorities(items),
		ROI:                 scoring.AnalyzeROI(items),
		GeneratedAt:         s.now(),
	}, nil
}

func allItems(forecasts []*models.Forecast) []models.ForecastItem {
	items := []models.ForecastItem{}
	for _, forecast := range forecasts {
		items = append(items, forecast.Items...)
	}
	return items
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
