// Package model defines the data structures shared across layers.
// Plain structs with JSON tags, no behaviour and no persistence details.
package model

import "time"

// Todo is one todo item.
type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
