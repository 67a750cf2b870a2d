package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"workforce-forecast/internal/models"
	"workforce-forecast/internal/repository"
	"workforce-forecast/internal/scoring"
)

// Заголовки CSV фиксированы: порядок и состав колонок стабильны,
// выгрузка обязана выдерживать round-trip через RFC4180-парсер
var reportHeader = []string{
	"Department", "Position", "Current Count", "Forecast Count", "Variance",
	"Salary Budget", "Status", "Submitted By", "Risk Score",
}

var advancedReportHeader = []string{
	"Department", "Position", "Risk Score", "Attrition Risk %", "Salary Gap %",
	"Skills Gap (1-5)", "Market Demand (1-5)", "Work-Life Balance (1-5)",
	"Career Growth (1-5)", "Predicted ROI", "Current Count", "Forecast Count",
	"Variance", "Salary Budget", "One-time Cost", "Recruitment Cost",
	"Expected Start Month", "Skills", "Justification", "Strategic Priority",
}

// ReportService разворачивает прогнозы в плоские табличные выгрузки
type ReportService struct {
	forecastRepo repository.ForecastRepository
	logger       *logrus.Logger
}

func NewReportService(forecastRepo repository.ForecastRepository) *ReportService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &ReportService{forecastRepo: forecastRepo, logger: logger}
}

// ExportCSV выгружает по одной строке на item прогноза
func (s *ReportService) ExportCSV(filter repository.ForecastFilter) (string, error) {
	forecasts, err := s.forecastRepo.List(filter)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(reportHeader); err != nil {
		return "", err
	}

	for _, forecast := range forecasts {
		department, submitter := refNames(forecast)

		for _, item := range forecast.Items {
			row := []string{
				department,
				item.Position,
				strconv.Itoa(item.CurrentCount),
				strconv.Itoa(item.ForecastCount),
				strconv.Itoa(item.Variance()),
				formatMoney(item.SalaryBudget),
				forecast.Status,
				submitter,
				strconv.Itoa(scoring.ItemRiskScore(item)),
			}
			if err := writer.Write(row); err != nil {
				return "", err
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	s.logger.WithField("forecasts", len(forecasts)).Info("CSV report exported")

	return buf.String(), nil
}

// ExportAdvancedCSV выгружает расширенную аналитику по item'ам
func (s *ReportService) ExportAdvancedCSV(filter repository.ForecastFilter) (string, error) {
	forecasts, err := s.forecastRepo.List(filter)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(advancedReportHeader); err != nil {
		return "", err
	}

	for _, forecast := range forecasts {
		department, _ := refNames(forecast)

		for _, raw := range forecast.Items {
			item := raw.Normalized()
			score := scoring.ItemRiskScore(item)

			row := []string{
				department,
				item.Position,
				strconv.Itoa(score),
				strconv.FormatFloat(item.HistoricalAttritionRate, 'f', -1, 64),
				fmt.Sprintf("%.2f", scoring.SalaryGapPercent(item)),
				strconv.Itoa(item.CriticalSkillsGap),
				strconv.Itoa(item.MarketDemand),
				strconv.Itoa(item.WorkLifeBalance),
				strconv.Itoa(item.CareerGrowthOpportunities),
				fmt.Sprintf("%.2f", scoring.PredictedROI(item)),
				strconv.Itoa(item.CurrentCount),
				strconv.Itoa(item.ForecastCount),
				strconv.Itoa(item.Variance()),
				formatMoney(item.SalaryBudget),
				formatMoney(item.OneTimeCost),
				formatMoney(item.CostPerHire),
				item.ExpectedStartMonth,
				strings.Join(item.Skills, "; "),
				item.Justification,
				scoring.StrategicPriority(score),
			}
			if err := writer.Write(row); err != nil {
				return "", err
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func refNames(forecast *models.Forecast) (department, submitter string) {
	if forecast.Department != nil {
		department = forecast.Department.Name
	}
	if forecast.Submitter != nil {
		submitter = forecast.Submitter.Name
	}
	return department, submitter
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
