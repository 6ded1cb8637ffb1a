package logistics

import "time"

// VehicleStatus is the operational state of a fleet vehicle.
type VehicleStatus string

const (
	VehicleInService    VehicleStatus = "in_service"
	VehicleMaintenance  VehicleStatus = "maintenance"
	VehicleOutOfService VehicleStatus = "out_of_service"
)

func ValidVehicleStatus(s VehicleStatus) bool {
	switch s {
	case VehicleInService, VehicleMaintenance, VehicleOutOfService:
		return true
	}
	return false
}

// Vehicle is one unit of the fleet.
type Vehicle struct {
	ID        int64         `json:"id"`
	Callsign  string        `json:"callsign"`
	Model     string        `json:"model"`
	Plate     string        `json:"plate"`
	Status    VehicleStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ChecklistItem is one line of a daily vehicle checklist.
type ChecklistItem struct {
	Label string `json:"label"`
	OK    bool   `json:"ok"`
	Note  string `json:"note,omitempty"`
}

// Checklist is a daily inspection submitted for a vehicle.
type Checklist struct {
	ID          int64           `json:"id"`
	VehicleID   int64           `json:"vehicle_id"`
	PerformedBy int64           `json:"performed_by"`
	Items       []ChecklistItem `json:"items"`
	PerformedAt time.Time       `json:"performed_at"`
}

// PurchaseStatus tracks a purchasing request.
type PurchaseStatus string

const (
	PurchaseRequested PurchaseStatus = "requested"
	PurchaseOrdered   PurchaseStatus = "ordered"
	PurchaseReceived  PurchaseStatus = "received"
	PurchaseDenied    PurchaseStatus = "denied"
)

func ValidPurchaseStatus(s PurchaseStatus) bool {
	switch s {
	case PurchaseRequested, PurchaseOrdered, PurchaseReceived, PurchaseDenied:
		return true
	}
	return false
}

// PurchaseRequest is a request for materials or equipment.
type PurchaseRequest struct {
	ID          int64          `json:"id"`
	Item        string         `json:"item"`
	Quantity    int            `json:"quantity"`
	Status      PurchaseStatus `json:"status"`
	RequestedBy int64          `json:"requested_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type CreateVehicleRequest struct {
	Callsign string `json:"callsign" validate:"required,max=50"`
	Model    string `json:"model" validate:"required,max=100"`
	Plate    string `json:"plate" validate:"required,max=20"`
}

type UpdateVehicleRequest struct {
	Callsign *string        `json:"callsign,omitempty" validate:"omitempty,max=50"`
	Model    *string        `json:"model,omitempty" validate:"omitempty,max=100"`
	Plate    *string        `json:"plate,omitempty" validate:"omitempty,max=20"`
	Status   *VehicleStatus `json:"status,omitempty"`
}

type SubmitChecklistRequest struct {
	Items []ChecklistItem `json:"items" validate:"required,min=1,dive"`
}

type CreatePurchaseRequest struct {
	Item     string `json:"item" validate:"required,max=200"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type UpdatePurchaseStatusRequest struct {
	Status PurchaseStatus `json:"status" validate:"required"`
}
