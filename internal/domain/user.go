package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
	UserPending   UserStatus = "pending"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email        string     `gorm:"size:140;uniqueIndex"`
	Name         string     `gorm:"size:140"`
	PasswordHash string     `gorm:"size:100" json:"-"`
	Role         UserRole   `gorm:"type:varchar(10);default:user"`
	Status       UserStatus `gorm:"type:varchar(10);index;default:active"`
	Company      string     `gorm:"size:140"`
	Phone        string     `gorm:"size:60"`
	Bio          string     `gorm:"type:text"`
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
