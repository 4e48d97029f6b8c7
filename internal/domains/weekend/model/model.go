package model

import (
	"motorpool/shared/model"
	"time"
)

const (
	TableName  = "weekend_requests"
	EntityName = "weekend_request"

	FieldID             = "id"
	FieldCarID          = "car_id"
	FieldUserID         = "user_id"
	FieldUserName       = "user_name"
	FieldUserDepartment = "user_department"
	FieldStartTime      = "start_time"
	FieldEndTime        = "end_time"
	FieldDestination    = "destination"
	FieldPurpose        = "purpose"
	FieldStatus         = "status"
	FieldApprovedAt     = "approved_at"
	FieldApprovedBy     = "approved_by"
	FieldRejectedAt     = "rejected_at"
	FieldRejectedBy     = "rejected_by"
	FieldRejectReason   = "reject_reason"
	FieldOdometerBefore = "odometer_before"
	FieldOdometerAfter  = "odometer_after"
	FieldImageBefore    = "image_before"
	FieldImageAfter     = "image_after"
	FieldNotes          = "notes"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type WeekendRequest struct {
	ID             string     `db:"id"`
	CarID          string     `db:"car_id"`
	UserID         string     `db:"user_id"`
	UserName       string     `db:"user_name"`
	UserDepartment *string    `db:"user_department"`
	StartTime      time.Time  `db:"start_time"`
	EndTime        time.Time  `db:"end_time"`
	Destination    string     `db:"destination"`
	Purpose        string     `db:"purpose"`
	Status         string     `db:"status"`
	ApprovedAt     *time.Time `db:"approved_at"`
	ApprovedBy     *string    `db:"approved_by"`
	RejectedAt     *time.Time `db:"rejected_at"`
	RejectedBy     *string    `db:"rejected_by"`
	RejectReason   *string    `db:"reject_reason"`
	OdometerBefore *int       `db:"odometer_before"`
	OdometerAfter  *int       `db:"odometer_after"`
	ImageBefore    *string    `db:"image_before"`
	ImageAfter     *string    `db:"image_after"`
	Notes          *string    `db:"notes"`
	model.Metadata
}

// IsTerminal reports whether the request reached a final state. Terminal
// requests cannot be approved or rejected again.
func (w *WeekendRequest) IsTerminal() bool {
	return w.Status == StatusApproved || w.Status == StatusRejected
}
