package models

import "time"

type Department struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Code        string    `gorm:"uniqueIndex;not null" json:"code"` // всегда в верхнем регистре
	Description string    `json:"description"`
	IsActive    bool      `gorm:"default:true;index" json:"is_active"`
	CreatedBy   *uint     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName задает имя таблицы в БД
func (Department) TableName() string {
	return "departments"
}
