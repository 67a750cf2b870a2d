package models

type Role string

const (
	// Руководитель департамента - создает и подает прогнозы
	RoleHOD Role = "hod"
	// Финансы - проверяет и утверждает прогнозы
	RoleFinance Role = "finance"
	// Администратор - полный доступ
	RoleAdmin Role = "admin"
)

type User struct {
	ID           uint        `gorm:"primarykey" json:"id"`
	CreatedAt    int64       `json:"created_at"`
	UpdatedAt    int64       `json:"updated_at"`
	Name         string      `gorm:"not null" json:"name"`
	Email        string      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"not null" json:"-"`
	Role         string      `gorm:"default:'hod';index" json:"role"`
	DepartmentID *uint       `gorm:"index" json:"department_id"`
	IsActive     bool        `gorm:"default:true" json:"is_active"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

// IsAdmin проверяет, является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u.Role == string(RoleAdmin)
}

// IsReviewer проверяет, может ли пользователь проверять прогнозы
func (u *User) IsReviewer() bool {
	return u.Role == string(RoleFinance) || u.Role == string(RoleAdmin)
}

// IsHOD проверяет, является ли пользователь руководителем департамента
func (u *User) IsHOD() bool {
	return u.Role == string(RoleHOD)
}

// SetRole устанавливает роль
func (u *User) SetRole(role Role) {
	u.Role = string(role)
}

// TableName задает имя таблицы в БД
func (User) TableName() string {
	return "users"
}
