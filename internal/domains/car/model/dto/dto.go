package dto

import (
	"motorpool/internal/domains/car/model"
	"motorpool/shared"
	gDto "motorpool/shared/dto"
	gModel "motorpool/shared/model"
	"motorpool/shared/timezone"

	"github.com/google/uuid"
)

type CreateCarRequest struct {
	Name         string  `json:"name"                  validate:"required,max=100"`
	LicensePlate string  `json:"license_plate"         validate:"required,max=20"`
	Image        string  `json:"image,omitempty"       validate:"omitempty,mimetypes=image/png image/jpeg image/webp,maxfilesize=5"`
	Type         string  `json:"type"                  validate:"required,max=50"`
	Color        string  `json:"color"                 validate:"omitempty,max=30"`
	Seats        int     `json:"seats"                 validate:"required,gte=1,lte=20"`
	Location     string  `json:"location"              validate:"omitempty,max=100"`
	Available    *bool   `json:"available,omitempty"`
	Description  *string `json:"description,omitempty"`
}

func (c *CreateCarRequest) ToModel(username, imageURL string) model.Car {
	available := true
	if c.Available != nil {
		available = *c.Available
	}

	var image *string
	if imageURL != "" {
		image = &imageURL
	}

	return model.Car{
		ID:           uuid.NewString(),
		Name:         c.Name,
		LicensePlate: c.LicensePlate,
		Image:        image,
		Type:         c.Type,
		Color:        c.Color,
		Seats:        c.Seats,
		Location:     c.Location,
		Available:    available,
		Description:  c.Description,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

type UpdateCarRequest struct {
	Name         *string `db:"name"          json:"name,omitempty"          validate:"omitempty,max=100"`
	LicensePlate *string `db:"license_plate" json:"license_plate,omitempty" validate:"omitempty,max=20"`
	Type         *string `db:"type"          json:"type,omitempty"          validate:"omitempty,max=50"`
	Color        *string `db:"color"         json:"color,omitempty"         validate:"omitempty,max=30"`
	Seats        *int    `db:"seats"         json:"seats,omitempty"         validate:"omitempty,gte=1,lte=20"`
	Location     *string `db:"location"      json:"location,omitempty"      validate:"omitempty,max=100"`
	Available    *bool   `db:"available"     json:"available,omitempty"`
	Description  *string `db:"description"   json:"description,omitempty"`
}

type CarResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	LicensePlate string  `json:"license_plate"`
	Image        *string `json:"image,omitempty"`
	Type         string  `json:"type"`
	Color        string  `json:"color"`
	Seats        int     `json:"seats"`
	Location     string  `json:"location"`
	Available    bool    `json:"available"`
	Description  *string `json:"description,omitempty"`
	gDto.Metadata
}

func (r *CarResponse) FromModel(model model.Car) {
	r.ID = model.ID
	r.Name = model.Name
	r.LicensePlate = model.LicensePlate
	r.Image = model.Image
	r.Type = model.Type
	r.Color = model.Color
	r.Seats = model.Seats
	r.Location = model.Location
	r.Available = model.Available
	r.Description = model.Description
	r.Metadata.FromModel(model.Metadata)
}

type GetCarsResponse struct {
	Cars      []CarResponse `json:"cars"`
	TotalPage int           `json:"total_page"`
	TotalData int           `json:"total_data"`
}

func (r *GetCarsResponse) FromModels(models []model.Car, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Cars = make([]CarResponse, len(models))
	for i, mod := range models {
		r.Cars[i].FromModel(mod)
	}
}
