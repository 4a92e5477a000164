package model

import "time"

type Court struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type,omitempty"`
	Active    bool      `json:"active"`
	SortOrder int       `json:"sort_order"`
	Capacity  int       `json:"capacity,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
