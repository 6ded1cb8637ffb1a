package personnel

import "time"

// Firefighter is a personnel record of the unit.
type Firefighter struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Rank               string    `json:"rank"`
	RegistrationNumber string    `json:"registration_number"`
	Email              *string   `json:"email,omitempty"`
	Phone              *string   `json:"phone,omitempty"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
