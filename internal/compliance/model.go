package compliance

import "time"

// Status is the stage of an inspection workflow.
type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusInspected Status = "inspected"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// transitions maps each status to the statuses it may move to. Approved and
// rejected are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusScheduled},
	StatusScheduled: {StatusInspected, StatusPending},
	StatusInspected: {StatusApproved, StatusRejected},
}

// CanTransition reports whether an inspection may move from one status to
// another.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the workflow statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusScheduled, StatusInspected, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Inspection is a fire-safety inspection record for a local business.
type Inspection struct {
	ID           int64      `json:"id"`
	PropertyName string     `json:"property_name"`
	Address      string     `json:"address"`
	Status       Status     `json:"status"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	InspectorID  *int64     `json:"inspector_id,omitempty"`
	Notes        string     `json:"notes"`
	CreatedBy    int64      `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type CreateInspectionRequest struct {
	PropertyName string `json:"property_name" validate:"required,max=200"`
	Address      string `json:"address" validate:"required,max=300"`
	Notes        string `json:"notes"`
}

type UpdateInspectionRequest struct {
	PropertyName *string `json:"property_name,omitempty" validate:"omitempty,max=200"`
	Address      *string `json:"address,omitempty" validate:"omitempty,max=300"`
	Notes        *string `json:"notes,omitempty"`
}

type TransitionRequest struct {
	Status       Status     `json:"status" validate:"required"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	InspectorID  *int64     `json:"inspector_id,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

type ListInspectionsRequest struct {
	Status *Status `json:"status,omitempty"`
	Limit  int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset int     `json:"offset" validate:"gte=0"`
}
