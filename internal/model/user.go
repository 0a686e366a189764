package model

import (
	"time"

	"github.com/google/uuid"
)

// User stores dashboard users. Authentication is intentionally thin:
// email + bcrypt hash, company used only for display.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Company      string
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
