package models

import "time"

// Civilization is a playable faction keyed by its canonical snake_case id
type Civilization struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Overview    string    `db:"overview"`
	CreatedAt   time.Time `db:"created_at"`
}
