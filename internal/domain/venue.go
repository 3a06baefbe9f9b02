package domain

import (
	"context"
	"time"
)

// Venue represents a venue referenced by events. Venues are read-only here.
// swagger:model Venue
type Venue struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Capacity    int       `json:"capacity"`
	OpeningTime string    `json:"opening_time"`
	ClosingTime string    `json:"closing_time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VenueRepository defines the read interface for venue storage.
type VenueRepository interface {
	GetByID(ctx context.Context, id string) (*Venue, error)
	List(ctx context.Context) ([]*Venue, error)
}
