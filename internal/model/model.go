// Package model holds the domain types persisted by the repositories and
// returned by the API.
//
// JSON names are camelCase because the public site and the admin panel
// consume them directly; db tags name the Postgres columns.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Base is embedded by every table-backed document.
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Owned is embedded by content created through the admin panel.
// CreatedBy is nil for rows whose author was deleted or that were seeded.
type Owned struct {
	CreatedBy *uuid.UUID `json:"createdBy" db:"created_by"`
}

// Owner returns the id of the user who created the row.
func (o Owned) Owner() *uuid.UUID {
	return o.CreatedBy
}

// SingletonID is the primary key of the one row in singleton tables.
const SingletonID int16 = 1

// MessageResponse is the body returned by delete and password endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
