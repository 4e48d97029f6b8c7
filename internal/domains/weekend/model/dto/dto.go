package dto

import (
	"time"

	"motorpool/internal/domains/weekend/model"
	"motorpool/shared"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	gModel "motorpool/shared/model"
	"motorpool/shared/timezone"

	"github.com/google/uuid"
)

type SubmitWeekendRequest struct {
	CarID       string  `json:"car_id"            validate:"required,uuid"`
	StartTime   string  `json:"start_time"        validate:"required"`
	EndTime     string  `json:"end_time"          validate:"required"`
	Destination string  `json:"destination"       validate:"required,max=200"`
	Purpose     string  `json:"purpose,omitempty" validate:"omitempty,max=200"`
	Notes       *string `json:"notes,omitempty"   validate:"omitempty,max=500"`
}

func (r *SubmitWeekendRequest) ToModel(userID, userName string, userDepartment *string) (model.WeekendRequest, error) {
	start, err := time.Parse(constant.DateFormat, r.StartTime)
	if err != nil {
		return model.WeekendRequest{}, err
	}

	end, err := time.Parse(constant.DateFormat, r.EndTime)
	if err != nil {
		return model.WeekendRequest{}, err
	}

	return model.WeekendRequest{
		ID:             uuid.NewString(),
		CarID:          r.CarID,
		UserID:         userID,
		UserName:       userName,
		UserDepartment: userDepartment,
		StartTime:      timezone.ToAppTime(start),
		EndTime:        timezone.ToAppTime(end),
		Destination:    r.Destination,
		Purpose:        r.Purpose,
		Status:         model.StatusPending,
		Notes:          r.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  userName,
			ModifiedBy: userName,
		},
	}, nil
}

type RejectWeekendRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// AttachUsageRequest records the trip readings after an approved weekend
// drive: odometer values plus optional before/after photos as data-URLs.
type AttachUsageRequest struct {
	OdometerBefore *int   `json:"odometer_before,omitempty" validate:"omitempty,gte=0"`
	OdometerAfter  *int   `json:"odometer_after,omitempty"  validate:"omitempty,gte=0"`
	ImageBefore    string `json:"image_before,omitempty"    validate:"omitempty,mimetypes=image/png image/jpeg image/webp,maxfilesize=5"`
	ImageAfter     string `json:"image_after,omitempty"     validate:"omitempty,mimetypes=image/png image/jpeg image/webp,maxfilesize=5"`
}

func (r *AttachUsageRequest) IsEmpty() bool {
	return r.OdometerBefore == nil && r.OdometerAfter == nil &&
		r.ImageBefore == constant.Empty && r.ImageAfter == constant.Empty
}

type WeekendRequestResponse struct {
	ID             string  `json:"id"`
	CarID          string  `json:"car_id"`
	UserID         string  `json:"user_id"`
	UserName       string  `json:"user_name"`
	UserDepartment *string `json:"user_department,omitempty"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	Destination    string  `json:"destination"`
	Purpose        string  `json:"purpose,omitempty"`
	Status         string  `json:"status"`
	ApprovedAt     *string `json:"approved_at,omitempty"`
	ApprovedBy     *string `json:"approved_by,omitempty"`
	RejectedAt     *string `json:"rejected_at,omitempty"`
	RejectedBy     *string `json:"rejected_by,omitempty"`
	RejectReason   *string `json:"reject_reason,omitempty"`
	OdometerBefore *int    `json:"odometer_before,omitempty"`
	OdometerAfter  *int    `json:"odometer_after,omitempty"`
	ImageBefore    *string `json:"image_before,omitempty"`
	ImageAfter     *string `json:"image_after,omitempty"`
	Notes          *string `json:"notes,omitempty"`
	gDto.Metadata
}

func (r *WeekendRequestResponse) FromModel(model model.WeekendRequest) {
	r.ID = model.ID
	r.CarID = model.CarID
	r.UserID = model.UserID
	r.UserName = model.UserName
	r.UserDepartment = model.UserDepartment
	r.StartTime = timezone.Format(model.StartTime, constant.DateFormat)
	r.EndTime = timezone.Format(model.EndTime, constant.DateFormat)
	r.Destination = model.Destination
	r.Purpose = model.Purpose
	r.Status = model.Status
	r.ApprovedAt = formatTimePtr(model.ApprovedAt)
	r.ApprovedBy = model.ApprovedBy
	r.RejectedAt = formatTimePtr(model.RejectedAt)
	r.RejectedBy = model.RejectedBy
	r.RejectReason = model.RejectReason
	r.OdometerBefore = model.OdometerBefore
	r.OdometerAfter = model.OdometerAfter
	r.ImageBefore = model.ImageBefore
	r.ImageAfter = model.ImageAfter
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)
}

type GetWeekendRequestsResponse struct {
	Requests  []WeekendRequestResponse `json:"requests"`
	TotalPage int                      `json:"total_page"`
	TotalData int                      `json:"total_data"`
}

func (r *GetWeekendRequestsResponse) FromModels(models []model.WeekendRequest, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Requests = make([]WeekendRequestResponse, len(models))
	for i, mod := range models {
		r.Requests[i].FromModel(mod)
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, constant.DateFormat)

	return &formatted
}
