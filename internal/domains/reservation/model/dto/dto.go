package dto

import (
	"motorpool/internal/domains/reservation/model"
	"motorpool/shared"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	gModel "motorpool/shared/model"
	"motorpool/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateReservationRequest struct {
	CarID           string   `json:"car_id"                     validate:"required"`
	StartTime       string   `json:"start_time"                 validate:"required"`
	EndTime         string   `json:"end_time"                   validate:"required"`
	Purpose         string   `json:"purpose,omitempty"          validate:"omitempty,max=200"`
	Destination     string   `json:"destination"                validate:"required,max=200"`
	IsDirect        *bool    `json:"is_direct,omitempty"`
	DirectReason    *string  `json:"direct_reason,omitempty"    validate:"omitempty,max=200"`
	Passengers      []string `json:"passengers,omitempty"       validate:"omitempty,max=20,dive,max=100"`
	IsMaintenance   *bool    `json:"is_maintenance,omitempty"`
	MaintenanceType *string  `json:"maintenance_type,omitempty" validate:"omitempty,max=50"`
	Notes           *string  `json:"notes,omitempty"            validate:"omitempty,max=500"`
}

func (c *CreateReservationRequest) ToModel(userID, userName string, userDepartment *string) (model.Reservation, error) {
	startTime, err := time.Parse(constant.DateFormat, c.StartTime)
	if err != nil {
		return model.Reservation{}, err
	}

	endTime, err := time.Parse(constant.DateFormat, c.EndTime)
	if err != nil {
		return model.Reservation{}, err
	}

	isDirect := false
	if c.IsDirect != nil {
		isDirect = *c.IsDirect
	}

	isMaintenance := false
	if c.IsMaintenance != nil {
		isMaintenance = *c.IsMaintenance
	}

	return model.Reservation{
		ID:              uuid.NewString(),
		CarID:           c.CarID,
		UserID:          userID,
		UserName:        userName,
		UserDepartment:  userDepartment,
		StartTime:       timezone.ToAppTime(startTime),
		EndTime:         timezone.ToAppTime(endTime),
		Purpose:         c.Purpose,
		Destination:     c.Destination,
		IsDirect:        isDirect,
		DirectReason:    c.DirectReason,
		Passengers:      pq.StringArray(c.Passengers),
		IsMaintenance:   isMaintenance,
		MaintenanceType: c.MaintenanceType,
		Notes:           c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  userID,
			ModifiedBy: userID,
		},
	}, nil
}

type UpdateReservationRequest struct {
	StartTime    string   `json:"start_time,omitempty"    validate:"omitempty"`
	EndTime      string   `json:"end_time,omitempty"      validate:"omitempty"`
	Purpose      *string  `json:"purpose,omitempty"       validate:"omitempty,max=200"`
	Destination  *string  `json:"destination,omitempty"   validate:"omitempty,max=200"`
	IsDirect     *bool    `json:"is_direct,omitempty"`
	DirectReason *string  `json:"direct_reason,omitempty" validate:"omitempty,max=200"`
	Passengers   []string `json:"passengers,omitempty"    validate:"omitempty,max=20,dive,max=100"`
	Notes        *string  `json:"notes,omitempty"         validate:"omitempty,max=500"`
}

func (u *UpdateReservationRequest) IsEmpty() bool {
	return u.StartTime == "" && u.EndTime == "" && u.Purpose == nil && u.Destination == nil &&
		u.IsDirect == nil && u.DirectReason == nil && u.Passengers == nil && u.Notes == nil
}

type ReservationResponse struct {
	ID              string   `json:"id"`
	CarID           string   `json:"car_id"`
	UserID          string   `json:"user_id"`
	UserName        string   `json:"user_name"`
	UserDepartment  *string  `json:"user_department,omitempty"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	Purpose         string   `json:"purpose,omitempty"`
	Destination     string   `json:"destination"`
	IsDirect        bool     `json:"is_direct"`
	DirectReason    *string  `json:"direct_reason,omitempty"`
	Passengers      []string `json:"passengers,omitempty"`
	IsMaintenance   bool     `json:"is_maintenance"`
	MaintenanceType *string  `json:"maintenance_type,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.CarID = model.CarID
	r.UserID = model.UserID
	r.UserName = model.UserName
	r.UserDepartment = model.UserDepartment
	r.StartTime = timezone.Format(model.StartTime, constant.DateFormat)
	r.EndTime = timezone.Format(model.EndTime, constant.DateFormat)
	r.Purpose = model.Purpose
	r.Destination = model.Destination
	r.IsDirect = model.IsDirect
	r.DirectReason = model.DirectReason
	r.Passengers = model.Passengers
	r.IsMaintenance = model.IsMaintenance
	r.MaintenanceType = model.MaintenanceType
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}
