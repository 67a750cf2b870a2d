package service

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce-forecast/internal/models"
	"workforce-forecast/internal/repository"
)

func TestExportCSVRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	department := env.seedDepartment(t, "Engineering", "ENG")
	hod := env.seedUser(t, "Alice", "alice@example.com", models.RoleHOD, &department.ID)

	// Позиция с кавычками и запятой проверяет экранирование
	items := validItems()
	items[0].Position = `Senior "Backend" Engineer, Platform`

	_, err := env.service.Create(hod, 0, models.Period{Year: 2025, Quarter: 1}, items, models.StatusSubmitted)
	require.NoError(t, err)

	svc := NewReportService(env.forecastRepo)
	out, err := svc.ExportCSV(repository.ForecastFilter{})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, reportHeader, records[0])

	row := records[1]
	assert.Equal(t, "Engineering", row[0])
	assert.Equal(t, `Senior "Backend" Engineer, Platform`, row[1])
	assert.Equal(t, "5", row[2])
	assert.Equal(t, "7", row[3])
	assert.Equal(t, "2", row[4])
	assert.Equal(t, "300000", row[5])
	assert.Equal(t, models.StatusSubmitted, row[6])
	assert.Equal(t, "Alice", row[7])
	assert.Equal(t, "28", row[8])
}

func TestExportCSVOneRowPerItem(t *testing.T) {
	env := newTestEnv(t)
	department := env.seedDepartment(t, "Engineering", "ENG")
	hod := env.seedUser(t, "Alice", "alice@example.com", models.RoleHOD, &department.ID)

	items := append(validItems(), itemMediumRisk())
	_, err := env.service.Create(hod, 0, models.Period{Year: 2025, Quarter: 1}, items, "")
	require.NoError(t, err)

	svc := NewReportService(env.forecastRepo)
	out, err := svc.ExportCSV(repository.ForecastFilter{})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestExportCSVEmptyStore(t *testing.T) {
	env := newTestEnv(t)

	svc := NewReportService(env.forecastRepo)
	out, err := svc.ExportCSV(repository.ForecastFilter{})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	// Только заголовок
	require.Len(t, records, 1)
	assert.Equal(t, reportHeader, records[0])
}

func TestExportAdvancedCSV(t *testing.T) {
	env := newTestEnv(t)
	department := env.seedDepartment(t, "Engineering", "ENG")
	hod := env.seedUser(t, "Alice", "alice@example.com", models.RoleHOD, &department.ID)

	items := validItems()
	items[0].CurrentAverageSalary = 50000
	items[0].MarketBenchmarkSalary = 60000
	items[0].Skills = []string{"Go", "SQL"}
	items[0].ExpectedStartMonth = "March"

	_, err := env.service.Create(hod, 0, models.Period{Year: 2025, Quarter: 1}, items, models.StatusSubmitted)
	require.NoError(t, err)

	svc := NewReportService(env.forecastRepo)
	out, err := svc.ExportAdvancedCSV(repository.ForecastFilter{})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, advancedReportHeader, records[0])

	row := records[1]
	require.Len(t, row, len(advancedReportHeader))
	assert.Equal(t, "Engineering", row[0])
	assert.Equal(t, "28", row[2])
	// (60000 - 50000) / 50000 * 100
	assert.Equal(t, "20.00", row[4])
	assert.Equal(t, "Go; SQL", row[17])
	assert.Equal(t, "March", row[16])
	assert.Equal(t, "Low", row[19])
}

func TestExportCSVFilterByStatus(t *testing.T) {
	env := newTestEnv(t)
	department := env.seedDepartment(t, "Engineering", "ENG")
	hod := env.seedUser(t, "Alice", "alice@example.com", models.RoleHOD, &department.ID)

	_, err := env.service.Create(hod, 0, models.Period{Year: 2025, Quarter: 1}, validItems(), "")
	require.NoError(t, err)
	_, err = env.service.Create(hod, 0, models.Period{Year: 2025, Quarter: 2}, validItems(), models.StatusSubmitted)
	require.NoError(t, err)

	svc := NewReportService(env.forecastRepo)
	out, err := svc.ExportCSV(repository.ForecastFilter{Status: models.StatusSubmitted})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.StatusSubmitted, records[1][6])
}
