package entities

import (
	"time"
)

// Book is the sole catalog entity. Records are immutable after creation:
// there is no update path, only create and delete.
type Book struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"index;size:512" json:"title"`
	Author      string    `gorm:"index;size:256" json:"author"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Year        int       `json:"year,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
