package models

import "time"

// AuditLog - запись о выполненном переходе жизненного цикла.
// Пишется best-effort, ошибка записи не ломает операцию.
type AuditLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ActorID    uint      `gorm:"not null;index" json:"actor_id"`
	Action     string    `gorm:"not null" json:"action"` // create, edit, submit, approve, reject, delete, comment, bulk-review
	EntityType string    `gorm:"not null" json:"entity_type"`
	EntityID   uint      `gorm:"not null;index" json:"entity_id"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName задает имя таблицы в БД
func (AuditLog) TableName() string {
	return "audit_logs"
}
