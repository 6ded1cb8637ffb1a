package operations

import "time"

// Occurrence is one entry in the daily mission log.
type Occurrence struct {
	ID         int64      `json:"id"`
	Type       string     `json:"type"`
	Address    string     `json:"address"`
	Narrative  string     `json:"narrative"`
	VehicleIDs []int64    `json:"vehicle_ids"`
	CrewIDs    []int64    `json:"crew_ids"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	CreatedBy  int64      `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type CreateOccurrenceRequest struct {
	Type       string     `json:"type" validate:"required,max=100"`
	Address    string     `json:"address" validate:"required,max=300"`
	Narrative  string     `json:"narrative"`
	VehicleIDs []int64    `json:"vehicle_ids"`
	CrewIDs    []int64    `json:"crew_ids"`
	StartedAt  time.Time  `json:"started_at" validate:"required"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
}

type UpdateOccurrenceRequest struct {
	Type       *string    `json:"type,omitempty" validate:"omitempty,max=100"`
	Address    *string    `json:"address,omitempty" validate:"omitempty,max=300"`
	Narrative  *string    `json:"narrative,omitempty"`
	VehicleIDs []int64    `json:"vehicle_ids,omitempty"`
	CrewIDs    []int64    `json:"crew_ids,omitempty"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
}

type ListOccurrencesRequest struct {
	From   *time.Time `json:"from,omitempty"`
	To     *time.Time `json:"to,omitempty"`
	Type   *string    `json:"type,omitempty"`
	Limit  int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset int        `json:"offset" validate:"gte=0"`
}
