package models

import (
	"time"
)

// User represents an account that owns records
type User struct {
	ID           int64     `json:"user_id" db:"user_id" gorm:"column:user_id;primaryKey;autoIncrement"`
	Email        string    `json:"email" db:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"not null"` // Hidden from JSON responses
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// TableName pins the gorm table name
func (User) TableName() string {
	return "users"
}
