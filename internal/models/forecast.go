package models

import (
	"fmt"
	"time"
)

// Статусы жизненного цикла прогноза
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusReviewed  = "reviewed"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

// Типы занятости
const (
	WorkforceFullTime = "FT"
	WorkforcePartTime = "PT"
	WorkforceContract = "CT"
)

// Типы найма
const (
	EmployeePermanent = "Permanent"
	EmployeeContract  = "Contract"
	EmployeeTemporary = "Temporary"
)

// Приоритеты проверки
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Period - отчетный период (год + квартал)
type Period struct {
	Year    int `json:"year"`
	Quarter int `json:"quarter"`
}

// Label возвращает человекочитаемую метку периода, например "Q1 2025"
func (p Period) Label() string {
	return fmt.Sprintf("Q%d %d", p.Quarter, p.Year)
}

// IsValid проверяет границы периода
func (p Period) IsValid() bool {
	return p.Year >= 2020 && p.Year <= 2030 && p.Quarter >= 1 && p.Quarter <= 4
}

var monthNames = map[string]bool{
	"January": true, "February": true, "March": true, "April": true,
	"May": true, "June": true, "July": true, "August": true,
	"September": true, "October": true, "November": true, "December": true,
}

// ForecastItem - одна планируемая позиция внутри прогноза
type ForecastItem struct {
	ID         uint `gorm:"primarykey" json:"id"`
	ForecastID uint `gorm:"not null;index" json:"forecast_id"`

	Position      string `gorm:"not null" json:"position"`
	WorkforceType string `gorm:"type:varchar(2);not null;default:'FT'" json:"workforce_type"`
	CurrentCount  int    `gorm:"not null;default:0" json:"current_count"`
	ForecastCount int    `gorm:"not null;default:0" json:"forecast_count"`
	GradeLevel    string `gorm:"default:'N/A'" json:"grade_level"`
	EmployeeType  string `gorm:"type:varchar(20);default:'Permanent'" json:"employee_type"`
	Location      string `gorm:"default:'Head Office'" json:"location"`

	// Финансовые данные
	SalaryBudget          float64 `gorm:"not null;default:0" json:"salary_budget"`
	OneTimeCost           float64 `gorm:"not null;default:0" json:"one_time_cost"`
	CostPerHire           float64 `gorm:"not null;default:0" json:"cost_per_hire"`
	CurrentAverageSalary  float64 `gorm:"not null;default:0" json:"current_average_salary"`
	MarketBenchmarkSalary float64 `gorm:"not null;default:0" json:"market_benchmark_salary"`

	// Данные по текучести
	HistoricalAttritionRate float64 `gorm:"not null;default:0" json:"historical_attrition_rate"` // доля [0,1] за прошлый год
	RecentResignations      int     `gorm:"not null;default:0" json:"recent_resignations"`       // увольнения за последние 6 месяцев

	// Оценочные факторы риска, шкала 1-5
	CriticalSkillsGap         int `gorm:"not null;default:3" json:"critical_skills_gap"`
	MarketDemand              int `gorm:"not null;default:3" json:"market_demand"`
	SalaryCompetitiveness     int `gorm:"not null;default:3" json:"salary_competitiveness"`
	WorkLifeBalance           int `gorm:"not null;default:3" json:"work_life_balance"`
	CareerGrowthOpportunities int `gorm:"not null;default:3" json:"career_growth_opportunities"`

	Skills             []string   `gorm:"serializer:json" json:"skills"`
	ExpectedStartMonth string     `json:"expected_start_month"`
	ExpectedHireDate   *time.Time `json:"expected_hire_date"`
	Justification      string     `json:"justification"`
}

// TableName задает имя таблицы в БД
func (ForecastItem) TableName() string {
	return "forecast_items"
}

// Variance возвращает чистое изменение численности
func (i *ForecastItem) Variance() int {
	return i.ForecastCount - i.CurrentCount
}

// Normalized возвращает копию item'а с подставленными дефолтами для
// необязательных полей. Рейтинги вне шкалы (0 = не заполнено) становятся 3.
// Единая точка нормализации для скоринга и аналитики.
func (i ForecastItem) Normalized() ForecastItem {
	if i.CriticalSkillsGap == 0 {
		i.CriticalSkillsGap = 3
	}
	if i.MarketDemand == 0 {
		i.MarketDemand = 3
	}
	if i.SalaryCompetitiveness == 0 {
		i.SalaryCompetitiveness = 3
	}
	if i.WorkLifeBalance == 0 {
		i.WorkLifeBalance = 3
	}
	if i.CareerGrowthOpportunities == 0 {
		i.CareerGrowthOpportunities = 3
	}
	if i.WorkforceType == "" {
		i.WorkforceType = WorkforceFullTime
	}
	return i
}

// ForecastComment - комментарий к прогнозу
type ForecastComment struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ForecastID uint      `gorm:"not null;index" json:"forecast_id"`
	AuthorID   uint      `gorm:"not null" json:"author_id"`
	Message    string    `gorm:"not null" json:"message"`
	Timestamp  time.Time `gorm:"not null" json:"timestamp"`
}

// TableName задает имя таблицы в БД
func (ForecastComment) TableName() string {
	return "forecast_comments"
}

// Forecast - квартальный прогноз численности одного департамента.
// Ровно один прогноз на (департамент, год, квартал).
type Forecast struct {
	ID           uint `gorm:"primarykey" json:"id"`
	DepartmentID uint `gorm:"not null;uniqueIndex:idx_forecast_period" json:"department_id"`
	SubmittedBy  uint `gorm:"not null;index" json:"submitted_by"`
	Year         int  `gorm:"not null;uniqueIndex:idx_forecast_period" json:"year"`
	Quarter      int  `gorm:"not null;check:quarter >= 1 AND quarter <= 4;uniqueIndex:idx_forecast_period" json:"quarter"`

	Status      string  `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	TotalBudget float64 `gorm:"not null;default:0" json:"total_budget"`

	SubmittedAt    *time.Time `json:"submitted_at"`
	ReviewedAt     *time.Time `json:"reviewed_at"`
	ReviewedBy     *uint      `json:"reviewed_by"`
	ReviewComments string     `json:"review_comments"`
	ReviewPriority string     `gorm:"type:varchar(10);default:'medium'" json:"review_priority"`

	// Версия для оптимистичной блокировки
	Version uint `gorm:"not null;default:0" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items    []ForecastItem    `gorm:"foreignKey:ForecastID" json:"items"`
	Comments []ForecastComment `gorm:"foreignKey:ForecastID" json:"comments"`

	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Submitter  *User       `gorm:"foreignKey:SubmittedBy" json:"submitter,omitempty"`
}

// TableName задает имя таблицы в БД
func (Forecast) TableName() string {
	return "forecasts"
}

// Period возвращает отчетный период прогноза
func (f *Forecast) Period() Period {
	return Period{Year: f.Year, Quarter: f.Quarter}
}

// ComputeTotalBudget пересчитывает суммарный бюджет по всем item'ам.
// Вызывается при каждом изменении items.
func (f *Forecast) ComputeTotalBudget() {
	total := 0.0
	for _, item := range f.Items {
		total += item.SalaryBudget + item.OneTimeCost + item.CostPerHire
	}
	f.TotalBudget = total
}

// IsEditable проверяет, можно ли еще редактировать прогноз
func (f *Forecast) IsEditable() bool {
	return f.Status == StatusDraft
}

// IsTerminal проверяет, прошел ли прогноз проверку
func (f *Forecast) IsTerminal() bool {
	return f.Status == StatusApproved || f.Status == StatusRejected
}

// ValidateItems проверяет набор item'ов перед create/submit и при изменении.
// Первое найденное нарушение останавливает всю операцию (fail-fast).
func ValidateItems(items []ForecastItem) error {
	if len(items) == 0 {
		return NewValidationMessage("at least one forecast item is required")
	}

	for idx, item := range items {
		n := idx + 1

		if item.Position == "" {
			return NewValidationError(n, "position", "is required")
		}
		if item.WorkforceType != WorkforceFullTime &&
			item.WorkforceType != WorkforcePartTime &&
			item.WorkforceType != WorkforceContract {
			return NewValidationError(n, "workforceType", "must be one of FT, PT, CT")
		}
		if item.HistoricalAttritionRate < 0 || item.HistoricalAttritionRate > 1 {
			return NewValidationError(n, "historicalAttritionRate", "must be between 0 and 1")
		}

		ratings := []struct {
			name  string
			value int
		}{
			{"criticalSkillsGap", item.CriticalSkillsGap},
			{"marketDemand", item.MarketDemand},
			{"salaryCompetitiveness", item.SalaryCompetitiveness},
			{"workLifeBalance", item.WorkLifeBalance},
			{"careerGrowthOpportunities", item.CareerGrowthOpportunities},
		}
		for _, r := range ratings {
			if r.value != 0 && (r.value < 1 || r.value > 5) {
				return NewValidationError(n, r.name, "must be between 1 and 5")
			}
		}

		counts := []struct {
			name  string
			value float64
		}{
			{"currentCount", float64(item.CurrentCount)},
			{"forecastCount", float64(item.ForecastCount)},
			{"salaryBudget", item.SalaryBudget},
			{"oneTimeCost", item.OneTimeCost},
			{"costPerHire", item.CostPerHire},
		}
		for _, c := range counts {
			if c.value < 0 {
				return NewValidationError(n, c.name, "cannot be negative")
			}
		}

		if item.ExpectedStartMonth != "" && !monthNames[item.ExpectedStartMonth] {
			return NewValidationError(n, "expectedStartMonth", "is not a valid month")
		}
	}

	return nil
}

// ValidateForSubmit дополнительно требует, чтобы все пять рейтингов были
// заполнены и в диапазоне до выхода прогноза из draft
func ValidateForSubmit(items []ForecastItem) error {
	if err := ValidateItems(items); err != nil {
		return err
	}

	for idx, item := range items {
		n := idx + 1
		ratings := []struct {
			name  string
			value int
		}{
			{"criticalSkillsGap", item.CriticalSkillsGap},
			{"marketDemand", item.MarketDemand},
			{"salaryCompetitiveness", item.SalaryCompetitiveness},
			{"workLifeBalance", item.WorkLifeBalance},
			{"careerGrowthOpportunities", item.CareerGrowthOpportunities},
		}
		for _, r := range ratings {
			if r.value < 1 || r.value > 5 {
				return NewValidationError(n, r.name, "rating is required before submission")
			}
		}
	}

	return nil
}
