package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Genders accepted for an actor. Input is case-insensitive; the stored value
// is always one of these.
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "X"
)

type Actor struct {
	bun.BaseModel `bun:"table:actors,alias:a"`

	ID        int       `bun:",pk,nullzero" json:"actor_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `json:"name"`
	BirthDate string    `json:"birth_date"`
	Gender    string    `json:"gender"`
}
