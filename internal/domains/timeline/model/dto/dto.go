package dto

import (
	carModel "motorpool/internal/domains/car/model"
	resModel "motorpool/internal/domains/reservation/model"
	"motorpool/shared/constant"
	"motorpool/shared/timezone"
)

// ReservationSpan is one occupied block on a car's row of the timeline.
type ReservationSpan struct {
	ReservationID string  `json:"reservation_id"`
	UserName      string  `json:"user_name"`
	Destination   string  `json:"destination"`
	IsMaintenance bool    `json:"is_maintenance"`
	StartSlot     int     `json:"start_slot"`
	Width         int     `json:"width"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	Department    *string `json:"department,omitempty"`
}

func (s *ReservationSpan) FromModel(model resModel.Reservation, startSlot, width int) {
	s.ReservationID = model.ID
	s.UserName = model.UserName
	s.Destination = model.Destination
	s.IsMaintenance = model.IsMaintenance
	s.StartSlot = startSlot
	s.Width = width
	s.StartTime = timezone.Format(model.StartTime, constant.DateFormat)
	s.EndTime = timezone.Format(model.EndTime, constant.DateFormat)
	s.Department = model.UserDepartment
}

// CarTimeline is a single car's row: the car plus its spans for the day.
type CarTimeline struct {
	CarID        string            `json:"car_id"`
	Name         string            `json:"name"`
	LicensePlate string            `json:"license_plate"`
	Image        *string           `json:"image,omitempty"`
	Available    bool              `json:"available"`
	Spans        []ReservationSpan `json:"spans"`
}

func (c *CarTimeline) FromModel(model carModel.Car) {
	c.CarID = model.ID
	c.Name = model.Name
	c.LicensePlate = model.LicensePlate
	c.Image = model.Image
	c.Available = model.Available
	c.Spans = []ReservationSpan{}
}

type TimelineResponse struct {
	Date  string        `json:"date"`
	View  string        `json:"view"`
	Slots []string      `json:"slots"`
	Cars  []CarTimeline `json:"cars"`
}
