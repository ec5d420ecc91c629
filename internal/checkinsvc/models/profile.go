package models

import (
	"time"
)

// Profile represents the profiles table in the database.
type Profile struct {
	ID        string    `json:"id"` // Primary key, generated by the store
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}
