package model

import "time"

// Category represents a user-defined spending category.
type Category struct {
	CreatedAt time.Time
	ID        string
	Name      string
	Icon      string
	IsActive  bool
}
