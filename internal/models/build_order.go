package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// BuildOrder is a user-authored opening for a civilization
type BuildOrder struct {
	ID          int64           `db:"id"`
	CivID       string          `db:"civ_id"`
	Name        string          `db:"name"`
	Description sql.NullString  `db:"description"`
	Steps       json.RawMessage `db:"steps"`
	CreatedAt   time.Time       `db:"created_at"`
}

// BuildOrderStep is one entry of BuildOrder.Steps
type BuildOrderStep struct {
	Time        string `json:"time,omitempty"`
	Population  int    `json:"population,omitempty"`
	Instruction string `json:"instruction"`
}
