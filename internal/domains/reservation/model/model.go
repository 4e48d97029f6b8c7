package model

import (
	"motorpool/shared/model"
	"time"

	"github.com/lib/pq"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID              = "id"
	FieldCarID           = "car_id"
	FieldUserID          = "user_id"
	FieldUserName        = "user_name"
	FieldUserDepartment  = "user_department"
	FieldStartTime       = "start_time"
	FieldEndTime         = "end_time"
	FieldPurpose         = "purpose"
	FieldDestination     = "destination"
	FieldIsDirect        = "is_direct"
	FieldDirectReason    = "direct_reason"
	FieldPassengers      = "passengers"
	FieldIsMaintenance   = "is_maintenance"
	FieldMaintenanceType = "maintenance_type"
	FieldNotes           = "notes"
)

type Reservation struct {
	ID              string         `db:"id"`
	CarID           string         `db:"car_id"`
	UserID          string         `db:"user_id"`
	UserName        string         `db:"user_name"`
	UserDepartment  *string        `db:"user_department"`
	StartTime       time.Time      `db:"start_time"`
	EndTime         time.Time      `db:"end_time"`
	Purpose         string         `db:"purpose"`
	Destination     string         `db:"destination"`
	IsDirect        bool           `db:"is_direct"`
	DirectReason    *string        `db:"direct_reason"`
	Passengers      pq.StringArray `db:"passengers"`
	IsMaintenance   bool           `db:"is_maintenance"`
	MaintenanceType *string        `db:"maintenance_type"`
	Notes           *string        `db:"notes"`
	model.Metadata
}

// OverlapsRange reports whether the reservation intersects the half-open
// window [start, end). Touching endpoints do not count as overlap.
func (r *Reservation) OverlapsRange(start, end time.Time) bool {
	return start.Before(r.EndTime) && end.After(r.StartTime)
}
