package models

import (
	"time"
)

// Event represents the events table in the database.
// Immutable after creation except for IsActive.
type Event struct {
	ID          string    `json:"id"` // Primary key, generated by the store
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}
